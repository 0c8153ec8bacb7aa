// Package progress holds the shared loading/error signal a submission flow
// raises before issuing a request and clears once the result is in. The
// tracker is an explicitly owned, injectable object: consumers get read-only
// snapshots, writers go through the owning flow.
package progress

import "sync"

// State is one snapshot of the loading signal. Last writer wins; concurrent
// flows overwrite each other's message, which is acceptable because the UI
// drives one primary action at a time by convention.
type State struct {
	Visible bool
	Message string
}

// Tracker is the process-wide loading signal holder.
type Tracker struct {
	mu       sync.Mutex
	state    State
	watchers map[int]chan State
	nextID   int
}

// NewTracker creates a tracker with the spinner hidden.
func NewTracker() *Tracker {
	return &Tracker{watchers: make(map[int]chan State)}
}

// Show makes the spinner visible with the given message.
func (t *Tracker) Show(message string) {
	t.publish(State{Visible: true, Message: message})
}

// SetMessage replaces the message without touching visibility.
func (t *Tracker) SetMessage(message string) {
	t.mu.Lock()
	s := t.state
	t.mu.Unlock()
	s.Message = message
	t.publish(s)
}

// Clear hides the spinner and drops the message in one step.
func (t *Tracker) Clear() {
	t.publish(State{})
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Watch registers an observer. The returned channel delivers state snapshots;
// a slow observer only ever misses intermediate states, never the latest one.
// The stop function removes the observer and closes the channel.
func (t *Tracker) Watch() (<-chan State, func()) {
	ch := make(chan State, 1)

	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.watchers[id] = ch
	ch <- t.state
	t.mu.Unlock()

	stop := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if w, ok := t.watchers[id]; ok {
			delete(t.watchers, id)
			close(w)
		}
	}
	return ch, stop
}

func (t *Tracker) publish(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
	for _, ch := range t.watchers {
		// Latest-wins delivery: displace a pending snapshot rather than block.
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}
