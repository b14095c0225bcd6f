package arbiter

import "sync"

// Signal is a named broadcast announcing rendering intent
type Signal string

const (
	SignalPause  Signal = "pause"
	SignalResume Signal = "resume"
)

// Arbiter negotiates exclusive use of the rendering pipeline between the
// background scene and the chat widget. It only announces intent; acting
// on a signal is the listener's responsibility. Pause and Resume are
// idempotent on the flag but always rebroadcast, so listeners must
// tolerate redundant signals.
type Arbiter struct {
	mu     sync.Mutex
	paused bool
	subs   map[int]chan Signal
	nextID int
}

// New creates an Arbiter in the resumed state
func New() *Arbiter {
	return &Arbiter{
		subs: make(map[int]chan Signal),
	}
}

// Pause marks the scene as paused and broadcasts the pause signal
func (a *Arbiter) Pause() {
	a.broadcast(SignalPause, true)
}

// Resume marks the scene as resumed and broadcasts the resume signal
func (a *Arbiter) Resume() {
	a.broadcast(SignalResume, false)
}

// Paused reports whether the scene is currently paused
func (a *Arbiter) Paused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

// Subscribe registers a listener. The returned channel is buffered and
// signals are delivered best-effort: a listener that stops draining does
// not block the broadcaster. The cancel function must be called to
// release the subscription.
func (a *Arbiter) Subscribe() (<-chan Signal, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	ch := make(chan Signal, 8)
	a.subs[id] = ch

	cancel := func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs, id)
	}
	return ch, cancel
}

func (a *Arbiter) broadcast(sig Signal, paused bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.paused = paused
	for _, ch := range a.subs {
		select {
		case ch <- sig:
		default:
		}
	}
}
