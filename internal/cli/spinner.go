package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []rune("⣾⣽⣻⢿⡿⣟⣯⣷")

// spinner animates a single status line until stopped or until the
// command's context ends.
type spinner struct {
	w      io.Writer
	msg    string
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// startSpinner draws msg on w and keeps animating it in the background.
func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, msg: msg, cancel: cancel}
	s.wg.Add(1)
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer s.wg.Done()
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for i := 0; ; i++ {
		frame := string(spinnerFrames[i%len(spinnerFrames)])
		fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.msg))
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

// Stop halts the animation and blanks the line. Safe to call repeatedly.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len([]rune(s.msg))+2))
	})
}
