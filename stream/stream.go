// Package stream defines the signal-level data model shared by every
// dataflow block: the beat payload carried by a stream, the wires of a
// single valid/ready interface, and the width configuration applied at
// block boundaries.
//
// A transfer ("beat") happens on a wire at a clock tick if and only if
// Valid and Ready are both asserted during that tick. The producer side
// of a wire drives Valid and Beat, the consumer side drives Ready.
// Producers are required to hold Beat stable while Valid is asserted and
// the beat has not been accepted.
package stream

// Beat is the payload of one stream transfer: the data word plus the
// user sideband and the end-of-packet marker.
type Beat struct {
	// Data is the opaque data value. Blocks store and forward it but
	// never interpret it.
	Data uint64

	// User is the sideband value carried alongside Data.
	User uint64

	// Last marks the final beat of a packet.
	Last bool
}

// Wire models the signals of one valid/ready stream interface shared by
// exactly one producer and one consumer.
type Wire struct {
	// Valid is driven by the producer when Beat carries a deliverable
	// value.
	Valid bool

	// Ready is driven by the consumer when it can accept a beat this
	// tick.
	Ready bool

	// Beat is driven by the producer together with Valid.
	Beat Beat
}

// Fire reports whether a transfer occurs on this wire at the current
// tick.
func (w *Wire) Fire() bool {
	return w.Valid && w.Ready
}

// Idle deasserts both handshake signals. The harness drives every wire
// idle while reset is applied.
func (w *Wire) Idle() {
	w.Valid = false
	w.Ready = false
}
