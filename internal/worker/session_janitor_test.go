package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	testhelpers "github.com/polkiloo/stampcard/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestJanitorNotifiesExpiredOperators(t *testing.T) {
	expirer := &testhelpers.ExpirerStub{Batches: [][]int64{{1, 2}}}
	sender := &testhelpers.SenderStub{}
	janitor := NewSessionJanitor(expirer, sender, 5*time.Millisecond, discardLogger())

	janitor.Start(context.Background())
	deadline := time.After(time.Second)
	for len(sender.Messages()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected 2 notices, got %d", len(sender.Messages()))
		case <-time.After(5 * time.Millisecond):
		}
	}
	janitor.Stop()

	sent := sender.Messages()
	if sent[0].ChatID != 1 || sent[1].ChatID != 2 {
		t.Fatalf("unexpected recipients: %+v", sent)
	}
	if sent[0].Text != expiredNotice {
		t.Fatalf("unexpected notice text: %q", sent[0].Text)
	}
}

func TestJanitorStopTerminatesLoop(t *testing.T) {
	expirer := &testhelpers.ExpirerStub{}
	sender := &testhelpers.SenderStub{}
	janitor := NewSessionJanitor(expirer, sender, time.Millisecond, discardLogger())

	janitor.Start(context.Background())
	janitor.Stop()

	// Stop returns only after the loop exits; a second Stop must be safe.
	janitor.Stop()
}

func TestJanitorSurvivesSendFailures(t *testing.T) {
	expirer := &testhelpers.ExpirerStub{Batches: [][]int64{{1}, {2}}}
	failures := 0
	sender := &testhelpers.SenderStub{
		SendFn: func(context.Context, int64, string) error {
			failures++
			return context.DeadlineExceeded
		},
	}
	janitor := NewSessionJanitor(expirer, sender, 5*time.Millisecond, discardLogger())

	janitor.Start(context.Background())
	deadline := time.After(time.Second)
	for failures < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected sweeps to continue after failures, got %d sends", failures)
		case <-time.After(5 * time.Millisecond):
		}
	}
	janitor.Stop()
}
