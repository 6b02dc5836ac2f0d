package realtime

import (
	"sync"
	"time"
)

// DefaultTypingTimeout is how long a typing signal stays live without a
// refresh before the stop event is emitted on the typist's behalf.
const DefaultTypingTimeout = 3 * time.Second

type typingEpisode struct {
	timer    *time.Timer
	onExpire func()
}

// TypingTracker owns the auto-expiry timers for typing indicators, keyed by
// (room, originating connection). Each Start resets the countdown; on expiry
// the registered callback fires exactly once. An explicit Stop cancels the
// timer so that a typing episode produces at most one stop event.
type TypingTracker struct {
	mu       sync.Mutex
	ttl      time.Duration
	episodes map[string]*typingEpisode
}

// NewTypingTracker constructs a tracker with the given expiry. A non-positive
// ttl falls back to DefaultTypingTimeout.
func NewTypingTracker(ttl time.Duration) *TypingTracker {
	if ttl <= 0 {
		ttl = DefaultTypingTimeout
	}
	return &TypingTracker{
		ttl:      ttl,
		episodes: make(map[string]*typingEpisode),
	}
}

// Start (re)starts the expiry countdown for key. Any previous timer for the
// key is canceled first, so repeated typing events extend the episode instead
// of stacking stop events.
func (t *TypingTracker) Start(key string, onExpire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ep, ok := t.episodes[key]; ok {
		ep.timer.Stop()
	}
	ep := &typingEpisode{onExpire: onExpire}
	ep.timer = time.AfterFunc(t.ttl, func() {
		t.mu.Lock()
		// a Stop or a fresh Start may have raced the firing timer
		current, ok := t.episodes[key]
		if ok && current == ep {
			delete(t.episodes, key)
		}
		t.mu.Unlock()
		if ok && current == ep {
			onExpire()
		}
	})
	t.episodes[key] = ep
}

// Stop cancels the timer for key. It reports whether an episode was still
// live, i.e. whether the caller should emit the stop event itself. Stopping
// after expiry (or without a prior Start) returns false.
func (t *TypingTracker) Stop(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ep, ok := t.episodes[key]
	if !ok {
		return false
	}
	if !ep.timer.Stop() {
		// The timer already fired and its callback is waiting on the lock.
		// Leave the entry in place so the callback still finds it and emits
		// the stop; deleting here would silence the episode entirely.
		return false
	}
	delete(t.episodes, key)
	return true
}

// Flush cancels every live episode whose key matches and invokes its expiry
// callback immediately. Used on disconnect so a vanished client does not
// leave indicators stuck on for the rest of the room.
func (t *TypingTracker) Flush(match func(key string) bool) {
	t.mu.Lock()
	var fired []func()
	for key, ep := range t.episodes {
		if match(key) && ep.timer.Stop() {
			delete(t.episodes, key)
			fired = append(fired, ep.onExpire)
		}
	}
	t.mu.Unlock()

	for _, fn := range fired {
		fn()
	}
}
