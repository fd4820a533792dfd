package systems

import (
	"fmt"

	"github.com/google/uuid"
)

// Context is the evaluation state a port is evaluated against. It owns one
// cache slot per output port index and is tied to exactly one block.
type Context interface {
	// OwnerID identifies the block this context was created for.
	OwnerID() uuid.UUID

	// CacheSlot returns the slot for a port index, if one exists yet.
	CacheSlot(index int) (*CacheSlot, bool)

	// NewCacheSlot creates (or returns the existing) slot for index.
	NewCacheSlot(index int) *CacheSlot

	// Invalidate marks the slot for index stale. Missing slots are ignored.
	Invalidate(index int)

	// InvalidateAll marks every slot stale.
	InvalidateAll()
}

// CacheSlot holds at most one computed value and whether it is current.
type CacheSlot struct {
	value Value
	valid bool
}

// Value returns the stored value, which may be stale.
func (s *CacheSlot) Value() Value { return s.value }
func (s *CacheSlot) Valid() bool  { return s.valid }

// Invalidate keeps the stored value for reuse but marks it stale.
func (s *CacheSlot) Invalidate() { s.valid = false }

func (s *CacheSlot) store(v Value) error {
	if s.value != nil && (s.value.Kind() != v.Kind() || s.value.TypeName() != v.TypeName()) {
		return fmt.Errorf("%w: cache slot holds %s, cannot store %s", ErrTypeMismatch, describe(s.value), describe(v))
	}
	s.value = v
	s.valid = true
	return nil
}

// LeafContext is the context of a single leaf block: time, continuous
// state, numeric parameters, and the port cache. Changing any input
// invalidates every cached output.
type LeafContext struct {
	owner  uuid.UUID
	time   float64
	state  []float64
	params map[string]float64
	slots  map[int]*CacheSlot
}

// NewLeafContext returns a context owned by the block with the given id and
// a zero state of length stateDim.
func NewLeafContext(owner uuid.UUID, stateDim int) *LeafContext {
	return &LeafContext{
		owner:  owner,
		state:  make([]float64, stateDim),
		params: make(map[string]float64),
		slots:  make(map[int]*CacheSlot),
	}
}

func (c *LeafContext) OwnerID() uuid.UUID { return c.owner }

func (c *LeafContext) CacheSlot(index int) (*CacheSlot, bool) {
	s, ok := c.slots[index]
	return s, ok
}

func (c *LeafContext) NewCacheSlot(index int) *CacheSlot {
	if s, ok := c.slots[index]; ok {
		return s
	}
	s := &CacheSlot{}
	c.slots[index] = s
	return s
}

func (c *LeafContext) Invalidate(index int) {
	if s, ok := c.slots[index]; ok {
		s.Invalidate()
	}
}

func (c *LeafContext) InvalidateAll() {
	for _, s := range c.slots {
		s.Invalidate()
	}
}

func (c *LeafContext) Time() float64 { return c.time }

func (c *LeafContext) SetTime(t float64) {
	c.time = t
	c.InvalidateAll()
}

// State returns a copy of the continuous state.
func (c *LeafContext) State() []float64 {
	return append([]float64(nil), c.state...)
}

// SetState replaces the continuous state. The length must match the
// context's state dimension.
func (c *LeafContext) SetState(x []float64) error {
	if len(x) != len(c.state) {
		return fmt.Errorf("%w: state has dimension %d, got %d values", ErrSizeMismatch, len(c.state), len(x))
	}
	copy(c.state, x)
	c.InvalidateAll()
	return nil
}

// Param returns a numeric parameter, or def when unset.
func (c *LeafContext) Param(name string, def float64) float64 {
	if v, ok := c.params[name]; ok {
		return v
	}
	return def
}

func (c *LeafContext) SetParam(name string, v float64) {
	c.params[name] = v
	c.InvalidateAll()
}
