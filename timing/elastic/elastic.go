// Package elastic implements the registered elastic buffer (skid
// buffer) stage for valid/ready streams.
//
// The buffer absorbs one beat of latency between an upstream producer
// and a downstream consumer while sustaining one accepted beat per tick
// in steady state. All observable outputs — the upstream Ready and the
// downstream Valid and Beat — are registered: they depend only on the
// previous tick's state, never combinationally on the current tick's
// inputs. Because Ready cannot react combinationally to a downstream
// stall, the buffer keeps a shadow register that absorbs the one extra
// beat that arrives in the cycle where the stall is first discovered.
package elastic

import (
	"github.com/hwflow/axisim/stream"
)

// Statistics holds transfer counts for an elastic buffer instance.
type Statistics struct {
	// Cycles is the number of clock edges applied since reset.
	Cycles uint64
	// Accepted is the number of beats taken from the upstream side.
	Accepted uint64
	// Delivered is the number of beats consumed on the downstream side.
	Delivered uint64
}

// Option is a functional option for configuring the Buffer.
type Option func(*Buffer)

// WithName sets the instance name reported by Name.
func WithName(name string) Option {
	return func(b *Buffer) {
		b.name = name
	}
}

// Buffer is a two-entry elastic buffer between one upstream and one
// downstream stream interface.
//
// The environment must honor the handshake preconditions: the upstream
// producer holds its beat stable while In.Valid is asserted and the
// beat has not been accepted, and the downstream consumer ignores
// Out.Beat while Out.Valid is false.
type Buffer struct {
	name string
	cfg  stream.Config

	// In is the upstream interface. The buffer samples Valid and Beat
	// and drives Ready.
	In *stream.Wire

	// Out is the downstream interface. The buffer drives Valid and
	// Beat and samples Ready.
	Out *stream.Wire

	// Registered state. ready and valid are never both false: the
	// reachable occupancy states are empty (ready, !valid), one beat
	// (ready, valid) and two beats (!ready, valid).
	ready  bool
	valid  bool
	out    stream.Beat
	shadow stream.Beat

	stats Statistics
}

// New creates an elastic buffer with the given width configuration.
// The In and Out wires must be attached before the first tick.
func New(cfg stream.Config, opts ...Option) (*Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Buffer{
		name:  "elastic",
		cfg:   cfg,
		ready: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Name returns the instance name.
func (b *Buffer) Name() string {
	return b.name
}

// Config returns the width configuration.
func (b *Buffer) Config() stream.Config {
	return b.cfg
}

// Stats returns the transfer counters.
func (b *Buffer) Stats() Statistics {
	return b.stats
}

// Forward drives the registered downstream outputs onto the Out wire.
func (b *Buffer) Forward() {
	b.Out.Valid = b.valid
	b.Out.Beat = b.out
}

// Backward drives the registered upstream Ready onto the In wire.
func (b *Buffer) Backward() {
	b.In.Ready = b.ready
}

// Posedge applies one clock edge: it samples the settled inputs and the
// current state, computes every next-state value, and commits them
// together.
func (b *Buffer) Posedge() {
	inValid := b.In.Valid
	inBeat := b.cfg.Mask(b.In.Beat)
	outReady := b.Out.Ready

	// The output slot is free this tick if it holds nothing or the
	// consumer is draining it.
	free := !b.valid || outReady

	if free {
		if b.ready {
			b.out = inBeat
		} else {
			b.out = b.shadow
		}
	}

	// The shadow register unconditionally tracks the most recently
	// accepted beat, so promotion never races with acceptance.
	if b.ready {
		b.shadow = inBeat
	}

	if inValid && b.ready {
		b.stats.Accepted++
	}
	if b.valid && outReady {
		b.stats.Delivered++
	}
	b.stats.Cycles++

	nextValid := (b.valid && !outReady) || !b.ready || inValid
	nextReady := free || (b.ready && !inValid)
	b.valid = nextValid
	b.ready = nextReady
}

// Reset synchronously forces the empty state: accepting upstream,
// nothing deliverable downstream. The data registers are left alone;
// their contents are meaningless while valid is false.
func (b *Buffer) Reset() {
	b.ready = true
	b.valid = false
	b.stats = Statistics{}
}

// Pending returns the number of beats currently held: 0 when empty, 1
// in steady-state single-beat flow, 2 when the shadow slot holds a
// second beat because the consumer has stalled. No other value is
// reachable.
func (b *Buffer) Pending() int {
	pending := 0
	if !b.ready {
		pending = 2
	} else if b.valid {
		pending = 1
	}
	return pending
}
