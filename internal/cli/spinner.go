package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	spinnerTick = 80 * time.Millisecond
	// spinnerShowElapsed is how long a step runs before its duration is
	// appended to the message.
	spinnerShowElapsed = 2 * time.Second
)

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates one line on stderr while a layout, fetch or import is
// running. Cancelling the context it was created with stops it.
type Spinner struct {
	w      io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	stop   sync.Once

	mu      sync.Mutex
	message string
	started time.Time
	drawn   int // widest line written so far
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       os.Stderr,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		exited:  make(chan struct{}),
		message: message,
	}
}

// Start begins drawing.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = time.Now()
	s.mu.Unlock()

	go func() {
		defer close(s.exited)
		t := time.NewTicker(spinnerTick)
		defer t.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-t.C:
				s.draw(spinnerFrames[frame%len(spinnerFrames)])
			}
		}
	}()
}

// Update swaps the message, for example when an expansion moves from
// fetching to layout. The elapsed clock keeps running.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) line() string {
	if d := time.Since(s.started); d >= spinnerShowElapsed {
		return fmt.Sprintf("%s %ds", s.message, int(d.Seconds()))
	}
	return s.message
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.line()
	pad := max(s.drawn-len(text), 0)
	s.drawn = max(s.drawn, len(text))
	fmt.Fprintf(s.w, "\r%s %s%s", styleIconSpinner.Render(frame), StyleDim.Render(text), strings.Repeat(" ", pad))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn+2))
	}
}

// Stop halts the animation and erases the line. Calling it again, or
// without Start, is harmless.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		s.mu.Lock()
		running := !s.started.IsZero()
		s.mu.Unlock()
		if running {
			<-s.exited
		}
	})
}

func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the context the spinner was created with has
// ended, meaning the step was interrupted rather than stopped.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
