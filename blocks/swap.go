package blocks

import (
	"github.com/pkg/errors"

	"github.com/hwflow/axisim/stream"
)

// Swap is a combinational word swap: it exchanges the upper and lower
// halves of the data value on every beat. It is stateless, adds no
// latency, and reset has no effect on it.
type Swap struct {
	cfg  stream.Config
	half int

	// In is the upstream interface; Out is the downstream interface.
	In  *stream.Wire
	Out *stream.Wire
}

// NewSwap creates a word swap. The data width must be even so the two
// halves line up.
func NewSwap(cfg stream.Config) (*Swap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DataWidth%2 != 0 {
		return nil, errors.Errorf("swap: data width %d is not even", cfg.DataWidth)
	}
	return &Swap{cfg: cfg, half: cfg.DataWidth / 2}, nil
}

// Forward passes the beat through with its data halves exchanged.
func (s *Swap) Forward() {
	s.Out.Valid = s.In.Valid
	beat := s.cfg.Mask(s.In.Beat)
	lo := stream.MaskValue(beat.Data, s.half)
	hi := beat.Data >> uint(s.half)
	beat.Data = lo<<uint(s.half) | hi
	s.Out.Beat = beat
}

// Backward passes the downstream readiness through.
func (s *Swap) Backward() {
	s.In.Ready = s.Out.Ready
}

// Posedge does nothing: the swap holds no registers.
func (s *Swap) Posedge() {}

// Reset does nothing.
func (s *Swap) Reset() {}
