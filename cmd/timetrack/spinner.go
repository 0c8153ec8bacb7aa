package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/StrayFurther/TimeTrack/internal/progress"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// spinner renders the progress tracker's state on stderr while a request is
// in flight. It observes the tracker; it never mutates it.
type spinner struct {
	tracker *progress.Tracker
	done    chan struct{}
	wg      sync.WaitGroup
}

func newSpinner(tracker *progress.Tracker) *spinner {
	return &spinner{tracker: tracker, done: make(chan struct{})}
}

func (s *spinner) start() {
	states, stop := s.tracker.Watch()
	ticker := time.NewTicker(100 * time.Millisecond)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		defer stop()

		var state progress.State
		frame := 0
		for {
			select {
			case <-s.done:
				clearLine()
				return
			case next, ok := <-states:
				if !ok {
					return
				}
				if state.Visible && !next.Visible {
					clearLine()
				}
				state = next
			case <-ticker.C:
				if state.Visible {
					fmt.Fprintf(os.Stderr, "\r%s %s", spinnerFrames[frame%len(spinnerFrames)], state.Message)
					frame++
				}
			}
		}
	}()
}

func (s *spinner) stopAndWait() {
	close(s.done)
	s.wg.Wait()
}

func clearLine() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 60))
}
