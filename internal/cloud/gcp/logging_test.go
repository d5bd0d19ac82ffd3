package gcp

import (
	"context"
	"testing"

	"cloud.google.com/go/logging"
)

type recordingLogger struct {
	entries []logging.Entry
	flushes int
}

func (r *recordingLogger) Log(e logging.Entry) { r.entries = append(r.entries, e) }
func (r *recordingLogger) Flush() error      { r.flushes++; return nil }

func TestCloudLogger_Severities(t *testing.T) {
	rec := &recordingLogger{}
	cl := &CloudLogger{logger: rec}

	cl.Debugf("tick %d", 1)
	cl.Infof("polling %s", "o/r")
	cl.Warningf("soft error")
	cl.Errorf("race lost")
	cl.Successf("created #%d", 42)

	want := []struct {
		severity logging.Severity
		payload  string
		outcome  string
	}{
		{logging.Debug, "tick 1", ""},
		{logging.Info, "polling o/r", ""},
		{logging.Warning, "soft error", ""},
		{logging.Error, "race lost", "failure"},
		{logging.Notice, "created #42", "success"},
	}

	if len(rec.entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(rec.entries), len(want))
	}
	for i, w := range want {
		e := rec.entries[i]
		if e.Severity != w.severity {
			t.Errorf("entry %d severity = %v, want %v", i, e.Severity, w.severity)
		}
		if e.Payload != w.payload {
			t.Errorf("entry %d payload = %v, want %q", i, e.Payload, w.payload)
		}
		if got := e.Labels["outcome"]; got != w.outcome {
			t.Errorf("entry %d outcome label = %q, want %q", i, got, w.outcome)
		}
	}
}

func TestCloudLogger_CloseFlushes(t *testing.T) {
	rec := &recordingLogger{}
	cl := &CloudLogger{logger: rec}

	if err := cl.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.flushes != 1 {
		t.Errorf("flushes = %d, want 1", rec.flushes)
	}
}

func TestCloudLoggerConfig_Labels(t *testing.T) {
	labels := CloudLoggerConfig{RunID: "run-1", Repository: "o/r", Threshold: 100000}.labels()

	want := map[string]string{
		"component":  "issuerace",
		"run_id":     "run-1",
		"repository": "o/r",
		"threshold":  "100000",
	}
	for k, v := range want {
		if labels[k] != v {
			t.Errorf("labels[%q] = %q, want %q", k, labels[k], v)
		}
	}
}

func TestNewCloudLogger_RequiresProject(t *testing.T) {
	if _, err := NewCloudLogger(context.Background(), CloudLoggerConfig{}); err == nil {
		t.Error("expected error without project")
	}
}
