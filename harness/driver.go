package harness

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/hwflow/axisim/stream"
)

// DefaultIdleBudget is the number of consecutive cycles without a
// transfer on any driver port after which Work returns.
const DefaultIdleBudget = 100

// DriverOption is a functional option for configuring the Driver.
type DriverOption func(*Driver)

// WithIdleBudget overrides the idle cycle budget.
func WithIdleBudget(cycles int) DriverOption {
	return func(d *Driver) {
		d.idleBudget = cycles
	}
}

type inputPort struct {
	wire    *stream.Wire
	pending sim.Buffer
}

type outputPort struct {
	wire     *stream.Wire
	captured sim.Buffer
}

// Driver pumps beat vectors through a circuit, playing the role of the
// external producer on its input wires and the external consumer on its
// output wires. It mirrors the work-loop discipline of a streaming
// runtime: per cycle it loads at most one pending beat onto each idle
// input wire, asserts ready on each output wire that still has capture
// capacity, and stops once no port has transferred anything for the
// idle budget.
type Driver struct {
	circuit    *Circuit
	inputs     []*inputPort
	outputs    []*outputPort
	idleBudget int
}

// NewDriver creates a driver for the given circuit.
func NewDriver(c *Circuit, opts ...DriverOption) *Driver {
	d := &Driver{
		circuit:    c,
		idleBudget: DefaultIdleBudget,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddInput attaches a circuit input wire with a bounded pending queue
// and returns the port index.
func (d *Driver) AddInput(w *stream.Wire, capacity int) int {
	p := &inputPort{
		wire:    w,
		pending: sim.NewBuffer(fmt.Sprintf("Driver.In%d", len(d.inputs)), capacity),
	}
	d.inputs = append(d.inputs, p)
	return len(d.inputs) - 1
}

// AddOutput attaches a circuit output wire with a bounded capture queue
// and returns the port index.
func (d *Driver) AddOutput(w *stream.Wire, capacity int) int {
	p := &outputPort{
		wire:     w,
		captured: sim.NewBuffer(fmt.Sprintf("Driver.Out%d", len(d.outputs)), capacity),
	}
	d.outputs = append(d.outputs, p)
	return len(d.outputs) - 1
}

// Push queues beats on an input port for the next Work call.
func (d *Driver) Push(port int, beats ...stream.Beat) error {
	if port < 0 || port >= len(d.inputs) {
		return errors.Errorf("harness: no input port %d", port)
	}
	pending := d.inputs[port].pending
	for i, b := range beats {
		if !pending.CanPush() {
			return errors.Errorf(
				"harness: input port %d full after %d of %d beats",
				port, i, len(beats))
		}
		pending.Push(b)
	}
	return nil
}

// PushData queues plain data values on an input port.
func (d *Driver) PushData(port int, values ...uint64) error {
	beats := make([]stream.Beat, len(values))
	for i, v := range values {
		beats[i] = stream.Beat{Data: v}
	}
	return d.Push(port, beats...)
}

// Drain removes and returns every beat captured on an output port.
func (d *Driver) Drain(port int) []stream.Beat {
	captured := d.outputs[port].captured
	beats := make([]stream.Beat, 0, captured.Size())
	for captured.Size() > 0 {
		beats = append(beats, captured.Pop().(stream.Beat))
	}
	return beats
}

// Reset resets the circuit and discards all pending and captured beats.
func (d *Driver) Reset() {
	d.circuit.Reset()
	for _, in := range d.inputs {
		in.pending.Clear()
	}
	for _, out := range d.outputs {
		out.captured.Clear()
	}
}

// ReadRegister reads a named side register through the circuit.
func (d *Driver) ReadRegister(name string) (uint64, error) {
	return d.circuit.ReadRegister(name)
}

// WriteRegister writes a named side register through the circuit.
func (d *Driver) WriteRegister(name string, value uint64) error {
	return d.circuit.WriteRegister(name, value)
}

// Work runs the circuit until every port has been idle for the idle
// budget. It returns the number of beats consumed per input port and
// produced per output port during this call. A beat is consumed once
// it leaves the pending queue for the wire, so a beat still held on a
// stalled input wire at return is already counted.
func (d *Driver) Work() (consumed, produced []int) {
	consumed = make([]int, len(d.inputs))
	produced = make([]int, len(d.outputs))
	fired := make([]bool, len(d.inputs))

	idle := 0
	for idle < d.idleBudget {
		idle++

		// Offer one pending beat per idle input wire. A beat stays on
		// the wire, stable, until the circuit accepts it.
		for i, in := range d.inputs {
			if !in.wire.Valid && in.pending.Size() > 0 {
				in.wire.Beat = in.pending.Pop().(stream.Beat)
				in.wire.Valid = true
				consumed[i]++
				idle = 0
			}
		}

		// Accept downstream beats only while capture capacity remains.
		for _, out := range d.outputs {
			out.wire.Ready = out.captured.CanPush()
		}

		d.circuit.Settle()

		for i, out := range d.outputs {
			if out.wire.Fire() {
				out.captured.Push(out.wire.Beat)
				produced[i]++
				idle = 0
			}
		}
		for i, in := range d.inputs {
			fired[i] = in.wire.Fire()
		}

		d.circuit.Posedge()

		for i, in := range d.inputs {
			if fired[i] {
				in.wire.Valid = false
			}
		}
	}
	return consumed, produced
}
