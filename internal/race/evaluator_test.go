package race

import (
	"context"
	"errors"
	"testing"

	"github.com/andywolf/issuerace/internal/github"
)

type fakeLister struct {
	issues []github.Issue
	err    error
	calls  int
	opts   github.ListOptions
}

func (f *fakeLister) ListIssues(ctx context.Context, opts github.ListOptions) ([]github.Issue, error) {
	f.calls++
	f.opts = opts
	return f.issues, f.err
}

type fakeSubmitter struct {
	issue *github.Issue
	err   error
	calls int
}

func (f *fakeSubmitter) Submit(ctx context.Context) (*github.Issue, error) {
	f.calls++
	return f.issue, f.err
}

func latestIs(n uint64) *fakeLister {
	return &fakeLister{issues: []github.Issue{{Number: n}}}
}

func TestEvaluator_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		latest     uint64
		threshold  uint64
		submitter  *fakeSubmitter
		wantKind   Kind
		wantErr    error
		wantPosts  int
		wantToGo   uint64
		wantCreate uint64
	}{
		{
			name:      "A: threshold ahead keeps waiting",
			latest:    41,
			threshold: 43,
			submitter: &fakeSubmitter{},
			wantKind:  KindContinue,
			wantToGo:  1,
		},
		{
			name:       "B: posted issue gets the threshold",
			latest:     41,
			threshold:  42,
			submitter:  &fakeSubmitter{issue: &github.Issue{Number: 42}},
			wantKind:   KindTerminate,
			wantPosts:  1,
			wantCreate: 42,
		},
		{
			name:       "C: posted issue gets the wrong number",
			latest:     41,
			threshold:  42,
			submitter:  &fakeSubmitter{issue: &github.Issue{Number: 43}},
			wantKind:   KindTerminate,
			wantErr:    ErrRaceLost,
			wantPosts:  1,
			wantCreate: 43,
		},
		{
			name:      "D: threshold already passed",
			latest:    50,
			threshold: 42,
			submitter: &fakeSubmitter{},
			wantKind:  KindTerminate,
			wantErr:   ErrMissedWindow,
		},
		{
			name:      "threshold equal to latest counts as passed",
			latest:    42,
			threshold: 42,
			submitter: &fakeSubmitter{},
			wantKind:  KindTerminate,
			wantErr:   ErrMissedWindow,
		},
		{
			name:      "post fails",
			latest:    41,
			threshold: 42,
			submitter: &fakeSubmitter{err: &github.RemoteError{StatusCode: 403, Message: "rate limited"}},
			wantKind:  KindTerminate,
			wantErr:   ErrPostFailed,
			wantPosts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := latestIs(tt.latest)
			e := NewEvaluator(tt.threshold, lister, tt.submitter)

			got := e.Attempt(context.Background())

			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if tt.wantErr == nil && got.Err != nil {
				t.Errorf("unexpected error: %v", got.Err)
			}
			if tt.wantErr != nil && !errors.Is(got.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", got.Err, tt.wantErr)
			}
			if tt.submitter.calls != tt.wantPosts {
				t.Errorf("posts = %d, want %d", tt.submitter.calls, tt.wantPosts)
			}
			if got.Latest != tt.latest {
				t.Errorf("Latest = %d, want %d", got.Latest, tt.latest)
			}
			if got.ToGo != tt.wantToGo {
				t.Errorf("ToGo = %d, want %d", got.ToGo, tt.wantToGo)
			}
			if got.Created != tt.wantCreate {
				t.Errorf("Created = %d, want %d", got.Created, tt.wantCreate)
			}
			if lister.opts != github.LatestIssueOptions {
				t.Errorf("listed with %+v, want %+v", lister.opts, github.LatestIssueOptions)
			}
		})
	}
}

func TestEvaluator_ScenarioB_Won(t *testing.T) {
	e := NewEvaluator(42, latestIs(41), &fakeSubmitter{issue: &github.Issue{Number: 42}})
	if got := e.Attempt(context.Background()); !got.Won() {
		t.Errorf("expected a won outcome, got %+v", got)
	}
}

func TestEvaluator_ReadFailuresAreSoft(t *testing.T) {
	tests := []struct {
		name    string
		lister  *fakeLister
		wantErr error
	}{
		{
			name:   "transport",
			lister: &fakeLister{err: &github.TransportError{Op: "GET /repos/o/r/issues", Err: errors.New("connection refused")}},
		},
		{
			name:   "decode",
			lister: &fakeLister{err: &github.DecodeError{Expected: "issue list", Err: errors.New("unexpected EOF")}},
		},
		{
			name:   "remote",
			lister: &fakeLister{err: &github.RemoteError{StatusCode: 401, Message: "Bad credentials"}},
		},
		{
			name:    "E: empty listing",
			lister:  &fakeLister{issues: []github.Issue{}},
			wantErr: ErrEmptyListing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			got := NewEvaluator(42, tt.lister, sub).Attempt(context.Background())

			if got.Kind != KindContinue {
				t.Errorf("Kind = %v, want continue", got.Kind)
			}
			if got.Err == nil {
				t.Fatal("expected a soft error")
			}
			if tt.lister.err != nil && !errors.Is(got.Err, tt.lister.err) {
				t.Errorf("Err = %v, does not wrap %v", got.Err, tt.lister.err)
			}
			if tt.wantErr != nil && !errors.Is(got.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", got.Err, tt.wantErr)
			}
			if sub.calls != 0 {
				t.Errorf("posts = %d, want 0", sub.calls)
			}
			if tt.lister.calls != 1 {
				t.Errorf("reads = %d, want exactly 1 (no retry within a tick)", tt.lister.calls)
			}
		})
	}
}

func TestEvaluator_PostFailureWrapsCause(t *testing.T) {
	cause := &github.DecodeError{Expected: "created issue", Err: errors.New("bad json")}
	got := NewEvaluator(42, latestIs(41), &fakeSubmitter{err: cause}).Attempt(context.Background())

	if !got.Terminal() {
		t.Fatal("expected terminal outcome")
	}
	var decodeErr *github.DecodeError
	if !errors.As(got.Err, &decodeErr) {
		t.Errorf("expected wrapped *DecodeError, got %v", got.Err)
	}
}

func TestEvaluator_RepeatedWaitingTicksNeverWrite(t *testing.T) {
	sub := &fakeSubmitter{}
	lister := latestIs(10)
	e := NewEvaluator(1000, lister, sub)

	for i := 0; i < 50; i++ {
		if got := e.Attempt(context.Background()); got.Kind != KindContinue || got.Err != nil {
			t.Fatalf("tick %d: got %+v", i, got)
		}
	}
	if sub.calls != 0 {
		t.Errorf("posts = %d, want 0", sub.calls)
	}
	if lister.calls != 50 {
		t.Errorf("reads = %d, want 50", lister.calls)
	}
}

func TestEvaluator_ThresholdProperties(t *testing.T) {
	for latest := uint64(0); latest < 20; latest++ {
		for threshold := uint64(1); threshold < 25; threshold++ {
			sub := &fakeSubmitter{issue: &github.Issue{Number: threshold}}
			got := NewEvaluator(threshold, latestIs(latest), sub).Attempt(context.Background())

			next := latest + 1
			switch {
			case threshold > next:
				if got.Kind != KindContinue || got.Err != nil || sub.calls != 0 {
					t.Errorf("latest=%d threshold=%d: got %+v posts=%d", latest, threshold, got, sub.calls)
				}
			case threshold < next:
				if !got.Terminal() || !errors.Is(got.Err, ErrMissedWindow) || sub.calls != 0 {
					t.Errorf("latest=%d threshold=%d: got %+v posts=%d", latest, threshold, got, sub.calls)
				}
			default:
				if !got.Won() || sub.calls != 1 {
					t.Errorf("latest=%d threshold=%d: got %+v posts=%d", latest, threshold, got, sub.calls)
				}
			}
		}
	}
}
