package elastic_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwflow/axisim/stream"
	"github.com/hwflow/axisim/timing/elastic"
)

var _ = Describe("Buffer", func() {
	var (
		buf *elastic.Buffer
		in  *stream.Wire
		out *stream.Wire
	)

	BeforeEach(func() {
		var err error
		buf, err = elastic.New(stream.Config{DataWidth: 8})
		Expect(err).NotTo(HaveOccurred())
		in = &stream.Wire{}
		out = &stream.Wire{}
		buf.In = in
		buf.Out = out
		buf.Reset()
	})

	// settle exposes the registered outputs for the current tick.
	settle := func() {
		buf.Forward()
		buf.Backward()
	}

	// cycle drives the inputs for one tick, settles, and applies the
	// clock edge. The tick's settled outputs remain on the wires for
	// inspection.
	cycle := func(inValid bool, data uint64, outReady bool) {
		in.Valid = inValid
		in.Beat = stream.Beat{Data: data}
		out.Ready = outReady
		settle()
		buf.Posedge()
	}

	Describe("New", func() {
		It("should reject a zero data width", func() {
			_, err := elastic.New(stream.Config{DataWidth: 0})
			Expect(err).To(HaveOccurred())
		})

		It("should apply the instance name option", func() {
			b, err := elastic.New(stream.DefaultConfig(), elastic.WithName("skid0"))
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Name()).To(Equal("skid0"))
		})
	})

	Describe("reset state", func() {
		It("should start empty, accepting upstream, nothing deliverable", func() {
			settle()
			Expect(in.Ready).To(BeTrue())
			Expect(out.Valid).To(BeFalse())
			Expect(buf.Pending()).To(Equal(0))
		})

		It("should return to the empty state from any occupancy", func() {
			// Fill to two beats: accept one, then a second while the
			// consumer stalls.
			cycle(true, 0x11, false)
			cycle(true, 0x22, false)
			Expect(buf.Pending()).To(Equal(2))

			buf.Reset()
			settle()
			Expect(in.Ready).To(BeTrue())
			Expect(out.Valid).To(BeFalse())
			Expect(buf.Pending()).To(Equal(0))
		})
	})

	Describe("latency", func() {
		It("should deliver an accepted beat on the next tick", func() {
			cycle(true, 0x5A, true)
			settle()
			Expect(out.Valid).To(BeTrue())
			Expect(out.Beat.Data).To(Equal(uint64(0x5A)))
		})

		It("should mask the beat to the configured width", func() {
			cycle(true, 0x1AB, true)
			settle()
			Expect(out.Beat.Data).To(Equal(uint64(0xAB)))
		})
	})

	Describe("full throughput", func() {
		It("should sustain one transfer per tick once primed", func() {
			const n = 50

			// Prime: first beat accepted, nothing deliverable yet.
			cycle(true, 0, true)

			delivered := []uint64{}
			for i := 1; i <= n; i++ {
				in.Valid = true
				in.Beat = stream.Beat{Data: uint64(i)}
				out.Ready = true
				settle()
				Expect(out.Valid).To(BeTrue(), "stalled at tick %d", i)
				Expect(in.Ready).To(BeTrue(), "throttled at tick %d", i)
				delivered = append(delivered, out.Beat.Data)
				buf.Posedge()
			}

			Expect(delivered).To(HaveLen(n))
			for i, v := range delivered {
				Expect(v).To(Equal(uint64(i)))
			}
			Expect(buf.Stats().Delivered).To(Equal(uint64(n)))
		})
	})

	Describe("occupancy invariant", func() {
		It("should never report a pending count outside 0..2", func() {
			rnd := rand.New(rand.NewSource(7))
			for tick := 0; tick < 2000; tick++ {
				in.Valid = rnd.Intn(3) > 0
				in.Beat = stream.Beat{Data: uint64(rnd.Intn(256))}
				out.Ready = rnd.Intn(3) > 0
				settle()
				Expect(buf.Pending()).To(BeNumerically(">=", 0))
				Expect(buf.Pending()).To(BeNumerically("<=", 2))
				// The buffer is never simultaneously unable to accept
				// and unable to deliver.
				Expect(in.Ready || out.Valid).To(BeTrue())
				buf.Posedge()
			}
		})
	})

	Describe("no-loss FIFO ordering", func() {
		It("should deliver every accepted beat exactly once, in order", func() {
			const n = 100
			rnd := rand.New(rand.NewSource(42))

			next := 0
			got := []uint64{}
			for tick := 0; tick < 5000 && len(got) < n; tick++ {
				// The producer holds the current beat stable until it
				// is accepted, then presents the next one.
				in.Valid = next < n
				if next < n {
					in.Beat = stream.Beat{Data: uint64(next)}
				}
				out.Ready = rnd.Intn(2) == 0

				settle()
				if out.Fire() {
					got = append(got, out.Beat.Data)
				}
				if in.Fire() {
					next++
				}
				buf.Posedge()
			}

			Expect(got).To(HaveLen(n))
			for i, v := range got {
				Expect(v).To(Equal(uint64(i)), "reordered at position %d", i)
			}
			Expect(buf.Stats().Accepted).To(Equal(uint64(n)))
			Expect(buf.Stats().Delivered).To(Equal(uint64(n)))
		})
	})

	Describe("stall absorption", func() {
		It("should park a second beat in the shadow slot and drain in order", func() {
			// Tick 1: 0xAA offered, consumer stalled.
			cycle(true, 0xAA, false)
			settle()
			Expect(out.Valid).To(BeTrue())
			Expect(out.Beat.Data).To(Equal(uint64(0xAA)))
			Expect(buf.Pending()).To(Equal(1))

			// Tick 2: 0xBB offered while the output is still blocked.
			// It lands in the shadow register.
			cycle(true, 0xBB, false)
			Expect(buf.Pending()).To(Equal(2))
			settle()
			Expect(in.Ready).To(BeFalse())

			// Tick 3: still stalled, nothing more offered. State holds.
			cycle(false, 0, false)
			Expect(buf.Pending()).To(Equal(2))

			// Tick 4: consumer drains. 0xAA first.
			in.Valid = false
			out.Ready = true
			settle()
			Expect(out.Valid).To(BeTrue())
			Expect(out.Beat.Data).To(Equal(uint64(0xAA)))
			buf.Posedge()

			// Tick 5: the shadow beat is promoted. 0xBB next.
			settle()
			Expect(out.Valid).To(BeTrue())
			Expect(out.Beat.Data).To(Equal(uint64(0xBB)))
			Expect(buf.Pending()).To(Equal(1))
			buf.Posedge()

			// Tick 6: empty again.
			settle()
			Expect(out.Valid).To(BeFalse())
			Expect(buf.Pending()).To(Equal(0))
		})
	})

	Describe("Stats", func() {
		It("should count cycles, accepts and deliveries", func() {
			cycle(true, 1, true)
			cycle(false, 0, true)
			cycle(false, 0, true)

			stats := buf.Stats()
			Expect(stats.Cycles).To(Equal(uint64(3)))
			Expect(stats.Accepted).To(Equal(uint64(1)))
			Expect(stats.Delivered).To(Equal(uint64(1)))
		})
	})
})
