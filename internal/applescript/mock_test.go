package applescript

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMockRunnerReplaysInOrderAndRecordsCalls(t *testing.T) {
	failure := errors.New("scripted failure")
	m := NewMockRunner(MockResponse{Output: "first"}, MockResponse{Err: failure})

	out, err := m.Run(context.Background(), Invocation{Lines: []string{"a"}, Timeout: time.Second})
	if err != nil || out != "first" {
		t.Fatalf("first Run() = %q, %v", out, err)
	}
	if _, err := m.Run(context.Background(), Invocation{Lines: []string{"b"}}); !errors.Is(err, failure) {
		t.Fatalf("second Run() error = %v, want scripted failure", err)
	}
	if _, err := m.Run(context.Background(), Invocation{Lines: []string{"c"}}); !errors.Is(err, ErrMockExhausted) {
		t.Fatalf("third Run() error = %v, want ErrMockExhausted", err)
	}

	calls := m.Calls()
	if len(calls) != 3 {
		t.Fatalf("Calls() len = %d, want 3", len(calls))
	}
	if calls[0].Lines[0] != "a" || calls[0].Timeout != time.Second {
		t.Fatalf("Calls()[0] = %+v", calls[0])
	}
	if calls[2].Lines[0] != "c" {
		t.Fatalf("Calls()[2] = %+v", calls[2])
	}
}

func TestMockRunnerBlocksUntilReleased(t *testing.T) {
	release := make(chan struct{})
	m := NewMockRunner()
	m.Push(MockResponse{Output: "late", Release: release})

	done := make(chan string, 1)
	go func() {
		out, _ := m.Run(context.Background(), Invocation{Lines: []string{"x"}})
		done <- out
	}()

	select {
	case <-done:
		t.Fatal("Run() returned before release")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case out := <-done:
		if out != "late" {
			t.Fatalf("Run() = %q, want late", out)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after release")
	}
}
