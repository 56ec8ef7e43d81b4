package blocks

import (
	"github.com/hwflow/axisim/stream"
)

// Counter is a free-running sample generator: it always offers the
// current count and increments whenever the downstream accepts. It
// never ends a packet and never runs dry.
type Counter struct {
	cfg   stream.Config
	value uint64

	// Out is the downstream interface.
	Out *stream.Wire
}

// NewCounter creates a counter that wraps at the configured data width.
func NewCounter(cfg stream.Config) (*Counter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Counter{cfg: cfg}, nil
}

// Forward offers the current count.
func (c *Counter) Forward() {
	c.Out.Valid = true
	c.Out.Beat = stream.Beat{Data: c.value}
}

// Backward does nothing: the counter has no upstream interface.
func (c *Counter) Backward() {}

// Posedge increments the count for every accepted beat.
func (c *Counter) Posedge() {
	if c.Out.Fire() {
		c.value = stream.MaskValue(c.value+1, c.cfg.DataWidth)
	}
}

// Reset restarts the count at zero.
func (c *Counter) Reset() {
	c.value = 0
}

// Value returns the count that will be offered next.
func (c *Counter) Value() uint64 {
	return c.value
}
