package blocks

import (
	"github.com/pkg/errors"

	"github.com/hwflow/axisim/stream"
)

// MonitorConfig sizes the monitor's stream and side registers.
type MonitorConfig struct {
	// Stream is the pass-through width configuration.
	Stream stream.Config

	// CounterWidth is the width of the beat counter register in bits,
	// 1 to 64.
	CounterWidth int
}

// DefaultMonitorConfig returns a 32-bit stream with a 32-bit counter.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Stream:       stream.DefaultConfig(),
		CounterWidth: 32,
	}
}

// Validate rejects unrealizable register widths.
func (c MonitorConfig) Validate() error {
	if err := c.Stream.Validate(); err != nil {
		return err
	}
	if c.CounterWidth < 1 || c.CounterWidth > stream.MaxWidth {
		return errors.Errorf("monitor: counter width %d out of range 1..%d",
			c.CounterWidth, stream.MaxWidth)
	}
	return nil
}

// Monitor is a combinational pass-through that observes the beats
// flowing through it. Two side registers are exposed by name:
//
//	counter  number of beats accepted since reset (CounterWidth bits)
//	sample   data value of the most recently accepted beat
//
// The counter register is writable, which presets the count; the
// sample register is read-only.
type Monitor struct {
	cfg MonitorConfig

	// In is the upstream interface; Out is the downstream interface.
	// Valid and Beat pass through forward, Ready passes through
	// backward, with no added latency.
	In  *stream.Wire
	Out *stream.Wire

	counter uint64
	sample  uint64
}

// NewMonitor creates a monitor with the given configuration.
func NewMonitor(cfg MonitorConfig) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Monitor{cfg: cfg}, nil
}

// Forward passes the upstream beat through combinationally.
func (m *Monitor) Forward() {
	m.Out.Valid = m.In.Valid
	m.Out.Beat = m.In.Beat
}

// Backward passes the downstream readiness through combinationally.
func (m *Monitor) Backward() {
	m.In.Ready = m.Out.Ready
}

// Posedge records every accepted beat into the side registers.
func (m *Monitor) Posedge() {
	if m.In.Fire() {
		m.counter = stream.MaskValue(m.counter+1, m.cfg.CounterWidth)
		m.sample = stream.MaskValue(m.In.Beat.Data, m.cfg.Stream.DataWidth)
	}
}

// Reset clears both side registers.
func (m *Monitor) Reset() {
	m.counter = 0
	m.sample = 0
}

// RegisterNames lists the side registers in index order.
func (m *Monitor) RegisterNames() []string {
	return []string{"counter", "sample"}
}

// ReadRegister returns the current value of the named side register.
func (m *Monitor) ReadRegister(name string) (uint64, error) {
	switch name {
	case "counter":
		return m.counter, nil
	case "sample":
		return m.sample, nil
	default:
		return 0, errors.Errorf("monitor: unknown register %q", name)
	}
}

// WriteRegister presets a writable side register.
func (m *Monitor) WriteRegister(name string, value uint64) error {
	switch name {
	case "counter":
		m.counter = stream.MaskValue(value, m.cfg.CounterWidth)
		return nil
	case "sample":
		return errors.Errorf("monitor: register %q is read-only", name)
	default:
		return errors.Errorf("monitor: unknown register %q", name)
	}
}
