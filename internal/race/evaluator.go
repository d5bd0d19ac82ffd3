package race

import (
	"context"
	"fmt"

	"github.com/andywolf/issuerace/internal/github"
)

// IssueLister reads the issue listing.
type IssueLister interface {
	ListIssues(ctx context.Context, opts github.ListOptions) ([]github.Issue, error)
}

// IssueSubmitter creates our issue.
type IssueSubmitter interface {
	Submit(ctx context.Context) (*github.Issue, error)
}

// Evaluator runs one read-compare-post cycle against a fixed threshold.
type Evaluator struct {
	threshold uint64
	lister    IssueLister
	submitter IssueSubmitter
}

// NewEvaluator creates an Evaluator for threshold.
func NewEvaluator(threshold uint64, lister IssueLister, submitter IssueSubmitter) *Evaluator {
	return &Evaluator{
		threshold: threshold,
		lister:    lister,
		submitter: submitter,
	}
}

// Threshold returns the issue number being raced for.
func (e *Evaluator) Threshold() uint64 {
	return e.threshold
}

// Attempt performs one cycle. Errors before the write are soft; anything
// that goes wrong at or after the write is terminal, because a failed
// confirmation may still mean the issue was created and posting again
// could create a duplicate.
func (e *Evaluator) Attempt(ctx context.Context) Outcome {
	latest, err := LatestNumber(ctx, e.lister)
	if err != nil {
		return Continue(err)
	}

	switch Compare(e.threshold, latest) {
	case Ahead:
		outcome := Continue(nil).withLatest(latest)
		outcome.ToGo = Remaining(e.threshold, latest)
		return outcome
	case Passed:
		return Terminate(fmt.Errorf("%w: latest issue is #%d, threshold #%d", ErrMissedWindow, latest, e.threshold)).
			withLatest(latest)
	}

	created, err := e.submitter.Submit(ctx)
	if err != nil {
		return Terminate(fmt.Errorf("%w: %w", ErrPostFailed, err)).withLatest(latest)
	}

	if created.Number != e.threshold {
		return Terminate(fmt.Errorf("%w: got #%d, wanted #%d", ErrRaceLost, created.Number, e.threshold)).
			withLatest(latest).withCreated(created.Number)
	}
	return Terminate(nil).withLatest(latest).withCreated(created.Number)
}

// LatestNumber returns the number of the newest issue or pull request.
func LatestNumber(ctx context.Context, lister IssueLister) (uint64, error) {
	issues, err := lister.ListIssues(ctx, github.LatestIssueOptions)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch latest issue: %w", err)
	}
	if len(issues) == 0 {
		return 0, ErrEmptyListing
	}
	return issues[0].Number, nil
}
