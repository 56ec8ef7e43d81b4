// Package blocks provides the glue dataflow blocks that surround the
// timing primitives: a fixed-sequence source, a free-running counter, a
// pass-through monitor with side registers, and a combinational word
// swap. They present and consume the same valid/ready interface as the
// timing stages and carry no nontrivial state of their own.
package blocks

import (
	"github.com/hwflow/axisim/stream"
)

// Source plays a fixed finite sequence of beats, one per tick when the
// downstream accepts. The final beat is marked Last.
type Source struct {
	cfg stream.Config
	seq []stream.Beat
	pos int

	// Out is the downstream interface.
	Out *stream.Wire
}

// NewSource creates a source over the given sequence. The sequence is
// masked to the configured widths up front.
func NewSource(cfg stream.Config, seq []stream.Beat) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	masked := make([]stream.Beat, len(seq))
	for i, b := range seq {
		masked[i] = cfg.Mask(b)
	}
	return &Source{cfg: cfg, seq: masked}, nil
}

// NewDataSource creates a source over a sequence of plain data values.
func NewDataSource(cfg stream.Config, data []uint64) (*Source, error) {
	seq := make([]stream.Beat, len(data))
	for i, v := range data {
		seq[i] = stream.Beat{Data: v}
	}
	return NewSource(cfg, seq)
}

// Forward drives the current sequence element, marking the final beat.
func (s *Source) Forward() {
	if s.pos >= len(s.seq) {
		s.Out.Valid = false
		return
	}

	beat := s.seq[s.pos]
	beat.Last = beat.Last || s.pos == len(s.seq)-1
	s.Out.Valid = true
	s.Out.Beat = beat
}

// Backward does nothing: the source has no upstream interface.
func (s *Source) Backward() {}

// Posedge advances past the current beat once the downstream has
// accepted it.
func (s *Source) Posedge() {
	if s.pos < len(s.seq) && s.Out.Fire() {
		s.pos++
	}
}

// Reset rewinds the sequence to the beginning.
func (s *Source) Reset() {
	s.pos = 0
}

// Done reports whether the whole sequence has been delivered.
func (s *Source) Done() bool {
	return s.pos >= len(s.seq)
}
