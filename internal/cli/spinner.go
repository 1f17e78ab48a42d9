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

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line while a remote schedule request or a
// Graphviz render is in flight.
type spinner struct {
	w       io.Writer
	message string

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{w: w, message: message, stop: make(chan struct{})}
}

// start draws frames until Stop is called or ctx ends.
func (s *spinner) start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			}
		}
	}()
}

// Stop ends the animation and blanks the line. It is safe to call twice.
func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		s.wg.Wait()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	})
}

// withSpinner runs fn with a spinner on stderr, keeping piped stdout clean.
func withSpinner(ctx context.Context, message string, fn func(ctx context.Context) error) error {
	s := newSpinner(os.Stderr, message)
	s.start(ctx)
	defer s.Stop()
	return fn(ctx)
}
