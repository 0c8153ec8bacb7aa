package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowThenClear(t *testing.T) {
	tr := NewTracker()

	tr.Show("Logging in...")
	assert.Equal(t, State{Visible: true, Message: "Logging in..."}, tr.State())

	tr.Clear()
	assert.Equal(t, State{}, tr.State())
}

func TestSetMessageKeepsVisibility(t *testing.T) {
	tr := NewTracker()
	tr.Show("first")
	tr.SetMessage("second")

	assert.Equal(t, State{Visible: true, Message: "second"}, tr.State())
}

func TestLastWriterWins(t *testing.T) {
	tr := NewTracker()
	tr.Show("flow A")
	tr.Show("flow B")

	assert.Equal(t, "flow B", tr.State().Message)
}

func TestWatchDeliversInitialAndUpdatedState(t *testing.T) {
	tr := NewTracker()
	tr.Show("busy")

	ch, stop := tr.Watch()
	defer stop()

	assert.Equal(t, State{Visible: true, Message: "busy"}, <-ch)

	tr.Clear()
	assert.Equal(t, State{}, <-ch)
}

func TestWatchSlowObserverSeesLatestState(t *testing.T) {
	tr := NewTracker()
	ch, stop := tr.Watch()
	defer stop()

	// Observer never reads between these publishes; intermediate snapshots
	// are displaced, not queued.
	tr.Show("one")
	tr.Show("two")
	tr.Clear()

	assert.Equal(t, State{}, <-ch)
}

func TestStopClosesChannel(t *testing.T) {
	tr := NewTracker()
	ch, stop := tr.Watch()
	<-ch
	stop()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after stop must not panic on the closed channel.
	tr.Show("late")
}
