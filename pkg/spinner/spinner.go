package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner renders an animated progress indicator on a single terminal line.
type Spinner struct {
	message string
	out     io.Writer
	delay   time.Duration

	mu   sync.Mutex
	done chan struct{}
}

func New(message string) *Spinner {
	return &Spinner{
		message: message,
		out:     os.Stdout,
		delay:   100 * time.Millisecond,
	}
}

// WithWriter redirects output, mainly for tests.
func (s *Spinner) WithWriter(w io.Writer) *Spinner {
	s.out = w
	return s
}

func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		ticker := time.NewTicker(s.delay)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.mu.Lock()
				select {
				case <-done:
					s.mu.Unlock()
					return
				default:
				}
				fmt.Fprintf(s.out, "\r%s %s", frames[i%len(frames)], s.message)
				s.mu.Unlock()
			}
		}
	}(s.done)
}

func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return
	}
	close(s.done)
	s.done = nil

	fmt.Fprint(s.out, "\r"+strings.Repeat(" ", len(s.message)+4)+"\r")
}
