// internal/game/tasks.go
package game

import (
	"sync"
	"time"
)

// taskSet owns every scheduled task of one room (play validation, spade
// timeouts, the sing window). Tasks are individually cancellable, and closing
// the set disposes everything so nothing fires against destroyed state.
type taskSet struct {
	mu      sync.Mutex
	closed  bool
	nextID  int
	pending map[int]*time.Timer
}

func newTaskSet() *taskSet {
	return &taskSet{pending: make(map[int]*time.Timer)}
}

// schedule runs fn after d unless cancelled or the set is closed first.
// The returned cancel reports whether it prevented fn from running.
func (ts *taskSet) schedule(d time.Duration, fn func()) (cancel func() bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.closed {
		return func() bool { return false }
	}
	id := ts.nextID
	ts.nextID++

	timer := time.AfterFunc(d, func() {
		ts.mu.Lock()
		if ts.closed {
			ts.mu.Unlock()
			return
		}
		delete(ts.pending, id)
		ts.mu.Unlock()
		fn()
	})
	ts.pending[id] = timer

	return func() bool {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		t, ok := ts.pending[id]
		if !ok {
			return false
		}
		delete(ts.pending, id)
		return t.Stop()
	}
}

// close stops every pending timer and rejects future schedules.
func (ts *taskSet) close() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.closed = true
	for id, t := range ts.pending {
		t.Stop()
		delete(ts.pending, id)
	}
}
