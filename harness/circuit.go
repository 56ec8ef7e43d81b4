// Package harness composes dataflow blocks into a clocked circuit and
// drives it.
//
// A Circuit owns its blocks in pipeline order together with the wires
// connecting them. Each cycle is evaluated in two phases: first every
// combinational output is settled from the current register state and
// the current inputs (a forward pass in block order for valid/data, a
// backward pass in reverse order for ready), then every register is
// latched from that settled snapshot on the clock edge. Registers
// therefore update together, and evaluation order within a tick cannot
// change the result.
//
// Circuits are assumed to be feed-forward: valid/data flow from earlier
// blocks to later ones and ready flows the other way. Combinational
// loops are not supported.
package harness

import (
	"github.com/pkg/errors"

	"github.com/hwflow/axisim/stream"
)

// Block is one clocked dataflow component. Forward drives the block's
// valid/data outputs, Backward drives its ready outputs, Posedge
// latches its registers from the settled wires, and Reset synchronously
// forces the initial state.
type Block interface {
	Forward()
	Backward()
	Posedge()
	Reset()
}

// RegisterProvider is implemented by blocks that expose side registers
// readable and writable by name.
type RegisterProvider interface {
	RegisterNames() []string
	ReadRegister(name string) (uint64, error)
	WriteRegister(name string, value uint64) error
}

// Circuit is an ordered collection of blocks sharing one clock and one
// reset.
type Circuit struct {
	blocks []Block
	wires  []*stream.Wire
	cycles uint64
}

// NewCircuit creates an empty circuit.
func NewCircuit() *Circuit {
	return &Circuit{}
}

// Add appends blocks in pipeline order.
func (c *Circuit) Add(blocks ...Block) {
	c.blocks = append(c.blocks, blocks...)
}

// Wire allocates a wire owned by the circuit. Owned wires are driven
// idle during reset.
func (c *Circuit) Wire() *stream.Wire {
	w := &stream.Wire{}
	c.wires = append(c.wires, w)
	return w
}

// Cycles returns the number of clock edges applied since reset.
func (c *Circuit) Cycles() uint64 {
	return c.cycles
}

// Settle evaluates the combinational phase: valid and data forward in
// block order, ready backward in reverse order.
func (c *Circuit) Settle() {
	for _, b := range c.blocks {
		b.Forward()
	}
	for i := len(c.blocks) - 1; i >= 0; i-- {
		c.blocks[i].Backward()
	}
}

// Posedge applies the clock edge to every block.
func (c *Circuit) Posedge() {
	for _, b := range c.blocks {
		b.Posedge()
	}
	c.cycles++
}

// Step runs one full cycle: settle, then clock edge.
func (c *Circuit) Step() {
	c.Settle()
	c.Posedge()
}

// Run executes the given number of cycles.
func (c *Circuit) Run(cycles int) {
	for i := 0; i < cycles; i++ {
		c.Step()
	}
}

// Reset drives every owned wire idle and synchronously resets every
// block, mirroring a reset applied with all stream interfaces disabled.
func (c *Circuit) Reset() {
	for _, w := range c.wires {
		w.Idle()
	}
	for _, b := range c.blocks {
		b.Reset()
	}
	c.cycles = 0
}

// ReadRegister reads a named side register from whichever block
// provides it.
func (c *Circuit) ReadRegister(name string) (uint64, error) {
	p, err := c.findRegister(name)
	if err != nil {
		return 0, err
	}
	return p.ReadRegister(name)
}

// WriteRegister writes a named side register on whichever block
// provides it.
func (c *Circuit) WriteRegister(name string, value uint64) error {
	p, err := c.findRegister(name)
	if err != nil {
		return err
	}
	return p.WriteRegister(name, value)
}

// RegisterNames lists every side register exposed by the circuit's
// blocks, in block order.
func (c *Circuit) RegisterNames() []string {
	var names []string
	for _, b := range c.blocks {
		if p, ok := b.(RegisterProvider); ok {
			names = append(names, p.RegisterNames()...)
		}
	}
	return names
}

func (c *Circuit) findRegister(name string) (RegisterProvider, error) {
	for _, b := range c.blocks {
		p, ok := b.(RegisterProvider)
		if !ok {
			continue
		}
		for _, n := range p.RegisterNames() {
			if n == name {
				return p, nil
			}
		}
	}
	return nil, errors.Errorf("harness: unknown register %q", name)
}
