package validate

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is delivered to a check whose result was discarded because a
// newer check was issued before it finished. Callers should ignore it.
var ErrSuperseded = errors.New("superseded")

// DefaultDebounce is how long an email-taken check waits for typing to pause
// before it hits the remote lookup.
const DefaultDebounce = 300 * time.Millisecond

// LookupFunc reports whether an email address is already registered.
type LookupFunc func(ctx context.Context, email string) (bool, error)

// EmailTakenValidator runs a debounced remote existence check on an email
// field. Checks are numbered by generation: issuing a new check cancels the
// in-flight one, and only the latest generation's result is delivered, so a
// slow early lookup can never overwrite the field's current validity.
//
// A failed lookup passes the value through (fail-open): an unreachable
// existence check must never block the user from submitting.
type EmailTakenValidator struct {
	lookup   LookupFunc
	debounce time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewEmailTakenValidator creates a validator with the default debounce window.
func NewEmailTakenValidator(lookup LookupFunc) *EmailTakenValidator {
	return &EmailTakenValidator{lookup: lookup, debounce: DefaultDebounce}
}

// NewEmailTakenValidatorDebounce creates a validator with a custom debounce
// window. Tests use this to avoid real 300 ms waits.
func NewEmailTakenValidatorDebounce(lookup LookupFunc, debounce time.Duration) *EmailTakenValidator {
	return &EmailTakenValidator{lookup: lookup, debounce: debounce}
}

// Check starts a debounced existence check for email and returns a channel
// that delivers exactly one result: nil (valid), ErrEmailTaken, or
// ErrSuperseded when a later Check replaced this one. An empty email passes
// immediately without touching the lookup.
func (v *EmailTakenValidator) Check(ctx context.Context, email string) <-chan error {
	out := make(chan error, 1)

	if email == "" {
		out <- nil
		return out
	}

	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	gen := v.gen
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()

	go func() {
		defer cancel()

		timer := time.NewTimer(v.debounce)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			out <- ErrSuperseded
			return
		case <-timer.C:
		}

		exists, err := v.lookup(ctx, email)

		v.mu.Lock()
		current := v.gen == gen
		v.mu.Unlock()
		if !current || ctx.Err() != nil {
			out <- ErrSuperseded
			return
		}

		switch {
		case err != nil:
			// Fail-open: the remote check being down is not the user's problem.
			out <- nil
		case exists:
			out <- ErrEmailTaken
		default:
			out <- nil
		}
	}()

	return out
}
