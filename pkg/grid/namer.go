package grid

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Namer generates names for grids and for panels added without one.
// Implementations must never return the same name twice for a prefix.
type Namer interface {
	Next(prefix string) string
}

// CounterNamer yields deterministic names "<prefix>-1", "<prefix>-2", ...
// Share one CounterNamer between grids that will be concatenated so their
// generated names do not collide.
type CounterNamer struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewCounterNamer returns a CounterNamer starting at 1 for every prefix.
func NewCounterNamer() *CounterNamer {
	return &CounterNamer{counts: make(map[string]int)}
}

// Next implements Namer.
func (c *CounterNamer) Next(prefix string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[prefix]++
	return fmt.Sprintf("%s-%d", prefix, c.counts[prefix])
}

// UUIDNamer yields "<prefix>-<random hex>" names. It is the default Namer.
type UUIDNamer struct{}

// Next implements Namer.
func (UUIDNamer) Next(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
