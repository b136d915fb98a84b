package notification

import (
	"errors"
	"time"
)

// Option is a functional option for configuring a [Sink].
type Option func(*Options)

// Options holds the timing of a [Sink].
type Options struct {
	displayDuration time.Duration
	fadeDuration    time.Duration
}

func newOptions() *Options {
	return &Options{
		displayDuration: 3 * time.Second,
		fadeDuration:    300 * time.Millisecond,
	}
}

func (o *Options) validate() error {
	if o.displayDuration <= 0 {
		return errors.New("display duration must be greater than zero")
	}
	if o.fadeDuration < 0 {
		return errors.New("fade duration must not be negative")
	}
	return nil
}

// WithDisplayDuration sets how long a toast stays before it starts fading.
// The default is 3 seconds.
func WithDisplayDuration(d time.Duration) Option {
	return func(o *Options) {
		o.displayDuration = d
	}
}

// WithFadeDuration sets the gap between the fade and the removal of a toast.
// The default is 300ms.
func WithFadeDuration(d time.Duration) Option {
	return func(o *Options) {
		o.fadeDuration = d
	}
}
