package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerBasic(t *testing.T) {
	var out syncBuffer
	s := newSpinner("Laying out...")
	s.w = &out
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Laying out...") {
		t.Errorf("output %q missing message", out.String())
	}
}

func TestSpinnerUpdate(t *testing.T) {
	var out syncBuffer
	s := newSpinner("Fetching RA:17")
	s.w = &out
	s.Start()
	s.Update("Laying out")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Laying out") {
		t.Errorf("output %q missing updated message", out.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.w = &syncBuffer{}
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Testing with timeout...")
	s.w = &syncBuffer{}
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.w = &syncBuffer{}
	s.Start()

	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithStatus(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
		want string
	}{
		{"success", func(s *Spinner) { s.StopWithSuccess("Expanded RA:17") }, "✓ Expanded RA:17"},
		{"error", func(s *Spinner) { s.StopWithError("Fetch failed") }, "✗ Fetch failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			s := newSpinner("Expanding...")
			s.w = &syncBuffer{}
			s.Start()
			time.Sleep(50 * time.Millisecond)
			tt.stop(s)
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("stdout = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestSpinnerStopIsNotCancellation(t *testing.T) {
	s := newSpinner("Expanding RA:1")
	s.w = &syncBuffer{}
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("a normal Stop must not read as an interruption")
	}

	unstarted := newSpinner("never drawn")
	unstarted.Stop()
}

func TestSpinnerLineShowsElapsed(t *testing.T) {
	s := newSpinner("Fetching RA:17")
	s.started = time.Now()
	if got := s.line(); got != "Fetching RA:17" {
		t.Errorf("line() = %q", got)
	}
	s.started = time.Now().Add(-3500 * time.Millisecond)
	if got := s.line(); got != "Fetching RA:17 3s" {
		t.Errorf("line() = %q", got)
	}
}
