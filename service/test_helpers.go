package service

import (
	"fmt"
	"sync"
	"time"
)

// Test IDs - Using meaningful constants instead of magic numbers
const (
	TestGuildID  = 900000
	TestUser1ID  = 111111
	TestUser2ID  = 222222
	TestUser3ID  = 333333
	TestItemID   = 10
	TestListing  = 20
	TestDuelID   = 30
	TestItemName = "Golden Ticket"
)

// ScriptedRandom is a RandomSource that replays fixed values, for deterministic tests.
// Intn returns the next scripted int modulo n so scripts stay valid for any range.
type ScriptedRandom struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
}

// NewScriptedRandom creates a scripted source
func NewScriptedRandom() *ScriptedRandom {
	return &ScriptedRandom{}
}

// WithInts queues values returned by Intn
func (s *ScriptedRandom) WithInts(values ...int) *ScriptedRandom {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, values...)
	return s
}

// WithFloats queues values returned by Float64
func (s *ScriptedRandom) WithFloats(values ...float64) *ScriptedRandom {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = append(s.floats, values...)
	return s
}

func (s *ScriptedRandom) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		panic(fmt.Sprintf("ScriptedRandom: no scripted int left for Intn(%d)", n))
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *ScriptedRandom) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		panic("ScriptedRandom: no scripted float left")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// FixedClock is a Clock frozen at a settable instant
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at now
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
