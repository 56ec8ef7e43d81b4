// Package main provides the axisim demo CLI. It wires an elastic
// buffer, a delay line and a monitor into one pipeline, pumps a numeric
// ramp through it and reports what came out.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hwflow/axisim/blocks"
	"github.com/hwflow/axisim/harness"
	"github.com/hwflow/axisim/stream"
	"github.com/hwflow/axisim/timing/delay"
	"github.com/hwflow/axisim/timing/elastic"
)

func main() {
	count := flag.Int("count", 16, "number of beats to send")
	width := flag.Int("width", 32, "data width in bits")
	stages := flag.Int("stages", 2, "delay line stages")
	verbose := flag.Bool("v", false, "print every delivered beat")
	flag.Parse()

	if err := run(*count, *width, *stages, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "axisim:", err)
		os.Exit(1)
	}
}

func run(count, width, stages int, verbose bool) error {
	cfg := stream.Config{DataWidth: width}

	buf, err := elastic.New(cfg)
	if err != nil {
		return err
	}
	line, err := delay.New(cfg, stages)
	if err != nil {
		return err
	}
	mon, err := blocks.NewMonitor(blocks.MonitorConfig{
		Stream:       cfg,
		CounterWidth: 32,
	})
	if err != nil {
		return err
	}

	circuit := harness.NewCircuit()
	in := circuit.Wire()
	buf.In = in
	buf.Out = circuit.Wire()
	line.In = buf.Out
	line.Out = circuit.Wire()
	mon.In = line.Out
	out := circuit.Wire()
	mon.Out = out
	circuit.Add(buf, line, mon)

	driver := harness.NewDriver(circuit)
	inPort := driver.AddInput(in, count)
	outPort := driver.AddOutput(out, count)

	driver.Reset()
	for i := 0; i < count; i++ {
		if err := driver.PushData(inPort, uint64(i+1)); err != nil {
			return err
		}
	}

	consumed, produced := driver.Work()

	fmt.Printf("cycles:   %d\n", circuit.Cycles())
	fmt.Printf("consumed: %d\n", consumed[inPort])
	fmt.Printf("produced: %d\n", produced[outPort])

	if verbose {
		for i, b := range driver.Drain(outPort) {
			fmt.Printf("  beat %3d: data=%#x last=%v\n", i, b.Data, b.Last)
		}
	}

	for _, name := range circuit.RegisterNames() {
		value, err := driver.ReadRegister(name)
		if err != nil {
			return err
		}
		fmt.Printf("reg %-8s %#x\n", name, value)
	}

	stats := buf.Stats()
	fmt.Printf("elastic:  accepted=%d delivered=%d pending=%d\n",
		stats.Accepted, stats.Delivered, buf.Pending())
	return nil
}
