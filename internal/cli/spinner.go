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

// spinnerInterval is the frame period. Slow enough to stay calm next to
// the log lines extraction emits, fast enough to read as activity.
const spinnerInterval = 90 * time.Millisecond

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

// spinner is the inline activity indicator for pipeline stages that can
// take a while against large schema trees (index loading, extraction,
// SVG rendering). It animates on stderr so piped graph output on stdout
// stays clean, and it follows its context: Ctrl-C mid-extraction clears
// the frame before the command exits.
type spinner struct {
	message string
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stop    sync.Once
	mu      sync.Mutex
}

// startSpinner creates a spinner bound to ctx and begins animating on
// stderr immediately.
func startSpinner(ctx context.Context, message string) *spinner {
	s := newSpinner(ctx, message, os.Stderr)
	s.start()
	return s
}

func newSpinner(ctx context.Context, message string, out io.Writer) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		message: message,
		out:     out,
		ctx:     sctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() { go s.run() }

func (s *spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.mu.Lock()
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// halt stops the animation and clears the line. Safe to call more than
// once; later calls are no-ops.
func (s *spinner) halt() {
	s.stop.Do(func() {
		s.cancel()
		<-s.done
	})
}

// success replaces the spinner line with a checkmark message.
func (s *spinner) success(format string, args ...any) {
	s.halt()
	printSuccess(format, args...)
}

// fail replaces the spinner line with an error message.
func (s *spinner) fail(format string, args ...any) {
	s.halt()
	printError(format, args...)
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
