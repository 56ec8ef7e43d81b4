package stream

import (
	"github.com/pkg/errors"
)

// MaxWidth is the widest data or user signal a single Beat field can
// carry.
const MaxWidth = 64

// Config holds the width parameters of a stream interface. Widths are
// purely a sizing parameter: they bound the values a block delivers but
// have no effect on the handshake behavior.
type Config struct {
	// DataWidth is the width of the Data signal in bits, 1 to 64.
	DataWidth int

	// UserWidth is the width of the User sideband in bits, 0 to 64.
	// A zero width means the sideband is absent and always delivered
	// as zero.
	UserWidth int
}

// DefaultConfig returns the width configuration used by the example
// circuits: a 32-bit data path with no user sideband.
func DefaultConfig() Config {
	return Config{
		DataWidth: 32,
		UserWidth: 0,
	}
}

// Validate rejects width configurations that cannot be realized.
// Configuration errors are reported at construction time, before any
// simulation tick runs.
func (c Config) Validate() error {
	if c.DataWidth < 1 || c.DataWidth > MaxWidth {
		return errors.Errorf("stream: data width %d out of range 1..%d",
			c.DataWidth, MaxWidth)
	}
	if c.UserWidth < 0 || c.UserWidth > MaxWidth {
		return errors.Errorf("stream: user width %d out of range 0..%d",
			c.UserWidth, MaxWidth)
	}
	return nil
}

// Mask truncates a beat to the configured widths. Blocks apply it when
// capturing a beat so that a narrow instance observably delivers only
// the low bits, the same way a narrow hardware bus would.
func (c Config) Mask(b Beat) Beat {
	b.Data = MaskValue(b.Data, c.DataWidth)
	b.User = MaskValue(b.User, c.UserWidth)
	return b
}

// MaskValue truncates v to its low width bits.
func MaskValue(v uint64, width int) uint64 {
	if width <= 0 {
		return 0
	}
	if width >= MaxWidth {
		return v
	}
	return v & ((1 << uint(width)) - 1)
}
