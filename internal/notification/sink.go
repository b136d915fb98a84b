// Package notification shows operation outcomes as toasts that dismiss
// themselves.
package notification

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sink hands toasts to a Renderer and schedules their dismissal. Show never
// blocks on the dismissal; several toasts may be visible at once.
type Sink struct {
	renderer Renderer
	opts     *Options

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewSink creates a Sink drawing on r.
func NewSink(r Renderer, opts ...Option) (*Sink, error) {
	options := newOptions()
	for _, o := range opts {
		o(options)
	}
	if err := options.validate(); err != nil {
		return nil, fmt.Errorf("invalid notification options: %w", err)
	}

	return &Sink{
		renderer: r,
		opts:     options,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Success shows a success toast.
func (s *Sink) Success(message string) string {
	return s.Show(message, SeveritySuccess)
}

// Error shows an error toast.
func (s *Sink) Error(message string) string {
	return s.Show(message, SeverityError)
}

// Show displays a toast and returns its id. After the display duration the
// toast fades, then it is removed.
func (s *Sink) Show(message string, severity Severity) string {
	t := Toast{ID: uuid.NewString(), Message: message, Severity: severity}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ""
	}

	s.renderer.ShowToast(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.timers[t.ID] = time.AfterFunc(s.opts.displayDuration, func() { s.fade(t.ID) })
	}
	return t.ID
}

func (s *Sink) fade(id string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.timers[id] = time.AfterFunc(s.opts.fadeDuration, func() { s.remove(id) })
	s.mu.Unlock()

	s.renderer.FadeToast(id)
}

func (s *Sink) remove(id string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	s.renderer.RemoveToast(id)
}

// Pending returns the number of toasts not yet removed.
func (s *Sink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close cancels every pending dismissal. Later calls to Show are ignored.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
