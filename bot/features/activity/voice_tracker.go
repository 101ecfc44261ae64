package activity

import (
	"sync"
	"time"
)

type voiceKey struct {
	guildID int64
	userID  int64
}

// VoiceTracker remembers when members joined voice. Sessions live only in memory,
// so time spent in voice across a restart is not paid.
type VoiceTracker struct {
	mu     sync.Mutex
	joined map[voiceKey]time.Time
}

func NewVoiceTracker() *VoiceTracker {
	return &VoiceTracker{joined: make(map[voiceKey]time.Time)}
}

// Join starts a session unless one is already running
func (t *VoiceTracker) Join(guildID, userID int64, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := voiceKey{guildID, userID}
	if _, ok := t.joined[key]; !ok {
		t.joined[key] = at
	}
}

// Leave ends the session and returns its length. ok is false when no session was running.
func (t *VoiceTracker) Leave(guildID, userID int64, at time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := voiceKey{guildID, userID}
	start, ok := t.joined[key]
	if !ok {
		return 0, false
	}
	delete(t.joined, key)

	if at.Before(start) {
		return 0, true
	}
	return at.Sub(start), true
}

// Active returns the number of running sessions
func (t *VoiceTracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.joined)
}
