// Package predictor provides the prediction structures of the simulator:
// a saturating-counter branch predictor and a two-level value predictor
// built from a Value History Table and a Classification Table.
package predictor

// SaturatingCounter is an unsigned counter bounded to [0, Max].
type SaturatingCounter struct {
	value uint32
	max   uint32
}

// NewSaturatingCounter creates a counter with the given maximum and
// initial value. The initial value is clamped to max.
func NewSaturatingCounter(max, initial uint32) SaturatingCounter {
	if initial > max {
		initial = max
	}
	return SaturatingCounter{value: initial, max: max}
}

// Value returns the current count.
func (c *SaturatingCounter) Value() uint32 {
	return c.value
}

// Max returns the saturation point.
func (c *SaturatingCounter) Max() uint32 {
	return c.max
}

// Set assigns v, clamped to Max.
func (c *SaturatingCounter) Set(v uint32) {
	if v > c.max {
		v = c.max
	}
	c.value = v
}

// Increment adds one unless the counter is saturated.
func (c *SaturatingCounter) Increment() {
	if c.value < c.max {
		c.value++
	}
}

// Decrement subtracts one unless the counter is zero.
func (c *SaturatingCounter) Decrement() {
	if c.value > 0 {
		c.value--
	}
}
