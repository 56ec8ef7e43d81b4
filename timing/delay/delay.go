// Package delay implements the fixed-latency pipeline delay line for
// valid-flagged streams.
//
// A Line shifts beats and their validity flags through a configurable
// number of register stages: the output at tick n is exactly what was
// presented at the input at tick n-Stages. There is no backpressure —
// the consumer must always accept — so the line is used purely for
// deterministic latency alignment between independently timed stages.
package delay

import (
	"github.com/pkg/errors"

	"github.com/hwflow/axisim/stream"
)

type slot struct {
	beat  stream.Beat
	valid bool
}

// Line is a fixed-latency delay of Stages register stages. With zero
// stages the line is a pure wire: output equals input on the same tick
// and reset has no observable effect.
type Line struct {
	cfg    stream.Config
	stages int

	// In is the upstream interface. The line samples Valid and Beat
	// and always drives Ready.
	In *stream.Wire

	// Out is the downstream interface. The line drives Valid and Beat
	// and ignores Ready.
	Out *stream.Wire

	// slots[0] was loaded from the input one tick ago; the last slot
	// drives the output.
	slots []slot
}

// New creates a delay line of the given number of stages. A negative
// stage count is a configuration error and is rejected before the line
// can be instantiated.
func New(cfg stream.Config, stages int) (*Line, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if stages < 0 {
		return nil, errors.Errorf("delay: negative stage count %d", stages)
	}

	return &Line{
		cfg:    cfg,
		stages: stages,
		slots:  make([]slot, stages),
	}, nil
}

// Stages returns the configured delay in ticks.
func (l *Line) Stages() int {
	return l.stages
}

// Config returns the width configuration.
func (l *Line) Config() stream.Config {
	return l.cfg
}

// Forward drives the downstream outputs. The zero-stage line forwards
// the settled input combinationally; otherwise the last register stage
// drives the output.
func (l *Line) Forward() {
	if l.stages == 0 {
		l.Out.Valid = l.In.Valid
		l.Out.Beat = l.cfg.Mask(l.In.Beat)
		return
	}

	last := l.slots[l.stages-1]
	l.Out.Valid = last.valid
	l.Out.Beat = last.beat
}

// Backward asserts upstream Ready unconditionally: the line can never
// stall its producer.
func (l *Line) Backward() {
	l.In.Ready = true
}

// Posedge shifts every stage by one: each slot takes the previous
// slot's prior value and the first slot is loaded from the input.
func (l *Line) Posedge() {
	if l.stages == 0 {
		return
	}

	for i := l.stages - 1; i > 0; i-- {
		l.slots[i] = l.slots[i-1]
	}
	l.slots[0] = slot{
		beat:  l.cfg.Mask(l.In.Beat),
		valid: l.In.Valid,
	}
}

// Reset clears the validity flag of every stage, discarding beats in
// flight. The beat registers are deliberately left unreset: their
// contents are don't-care while the validity flag is false, and
// downstream consumers are required to ignore them.
func (l *Line) Reset() {
	for i := range l.slots {
		l.slots[i].valid = false
	}
}

// Occupancy returns how many stages currently hold a valid in-flight
// beat. It is a derived observability hook for verification; the value
// is always between 0 and Stages.
func (l *Line) Occupancy() int {
	n := 0
	for i := range l.slots {
		if l.slots[i].valid {
			n++
		}
	}
	return n
}
