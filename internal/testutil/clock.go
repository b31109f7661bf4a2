package testutil

import (
	"strconv"
	"sync"
	"time"
)

// StubClock is a dash.Clock that only moves when told to. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// FixedClock returns a StubClock at Monday 2024-06-10 10:30 UTC, the reference "now"
// the sample data is laid out around.
func FixedClock() *StubClock {
	return &StubClock{now: time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC)}
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// StubIDGenerator is a dash.IDGenerator handing out "id-1", "id-2", and so on.
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "id-" + strconv.Itoa(g.next)
}
