package systems_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynblocks/internal/systems"
)

type observation struct {
	Label string
	Sum   float64
}

// counter is a three-state block with one vector port mirroring its state
// and one abstract port summarizing it.
type counter struct {
	*systems.LeafBlock
	calls  int
	allocs int
}

func newCounter(opts ...systems.PortOption) *counter {
	c := &counter{}
	c.LeafBlock = systems.NewLeafBlock(c, "counter")
	c.DeclareStateDim(3)
	c.DeclareVectorOutputPort(3, func() systems.Value {
		c.allocs++
		return systems.NewNamedVector("CounterState", 3)
	}, c.calcState, opts...)
	c.DeclareAbstractOutputPort(func() systems.Value {
		return systems.NewAbstract(observation{})
	}, c.calcObservation)
	return c
}

func (c *counter) calcState(ctx systems.Context, out systems.Value) error {
	c.calls++
	lc := ctx.(*systems.LeafContext)
	return out.(*systems.BasicVector).SetFrom(lc.State())
}

func (c *counter) calcObservation(ctx systems.Context, out systems.Value) error {
	lc := ctx.(*systems.LeafContext)
	sum := 0.0
	for _, v := range lc.State() {
		sum += v
	}
	out.(*systems.Abstract[observation]).V = observation{Label: "sum", Sum: sum}
	return nil
}

func portWith(alloc systems.AllocFunc, dt systems.PortDataType, size int) *systems.OutputPort {
	b := systems.NewLeafBlock(&counter{}, "fixture")
	p, err := systems.NewOutputPort(b, 0, dt, size, alloc, func(systems.Context, systems.Value) error { return nil })
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("OutputPort", func() {
	var (
		blk *counter
		ctx *systems.LeafContext
	)

	BeforeEach(func() {
		blk = newCounter()
		ctx = blk.CreateDefaultContext()
		Expect(ctx.SetState([]float64{1, 2, 3})).To(Succeed())
	})

	Describe("Identification", func() {
		It("names the block type, path and index", func() {
			Expect(blk.OutputPort(0).PortID()).To(Equal("output port 0 of systems_test.counter System ::counter"))

			blk.SetParentPath("::arm")
			Expect(blk.OutputPort(1).PortID()).To(Equal("output port 1 of systems_test.counter System ::arm::counter"))
		})

		It("exposes an immutable descriptor", func() {
			d := blk.OutputPort(0).Descriptor()
			Expect(d).To(Equal(systems.PortDescriptor{Index: 0, DataType: systems.VectorValued, Size: 3}))

			d.Size = 99
			Expect(blk.OutputPort(0).Size()).To(Equal(3))
			Expect(blk.OutputPort(1).DataType()).To(Equal(systems.AbstractValued))
			Expect(blk.NumOutputPorts()).To(Equal(2))
			Expect(blk.OutputPort(2)).To(BeNil())
		})
	})

	Describe("NewOutputPort", func() {
		It("rejects invalid descriptors", func() {
			alloc := func() systems.Value { return systems.NewBasicVector(1) }
			calc := func(systems.Context, systems.Value) error { return nil }
			b := systems.NewLeafBlock(&counter{}, "bad")

			_, err := systems.NewOutputPort(b, -1, systems.VectorValued, 1, alloc, calc)
			Expect(err).To(MatchError(systems.ErrInvalidArgument))

			_, err = systems.NewOutputPort(b, 0, systems.VectorValued, -2, alloc, calc)
			Expect(err).To(MatchError(systems.ErrInvalidArgument))

			_, err = systems.NewOutputPort(b, 0, systems.VectorValued, 1, nil, calc)
			Expect(err).To(MatchError(systems.ErrInvalidArgument))
		})
	})

	Describe("Allocate", func() {
		It("returns a vector of exactly the declared size", func() {
			v, err := blk.OutputPort(0).Allocate()
			Expect(err).NotTo(HaveOccurred())
			vec, ok := v.(*systems.BasicVector)
			Expect(ok).To(BeTrue())
			Expect(vec.Size()).To(Equal(3))
			Expect(vec.TypeName()).To(Equal("CounterState"))
		})

		It("accepts any size on an auto-size port", func() {
			for _, n := range []int{0, 1, 7} {
				n := n
				p := portWith(func() systems.Value { return systems.NewBasicVector(n) }, systems.VectorValued, systems.AutoSize)
				v, err := p.Allocate()
				Expect(err).NotTo(HaveOccurred())
				Expect(v.(*systems.BasicVector).Size()).To(Equal(n))
			}
		})

		It("fails when the allocator returns nothing", func() {
			p := portWith(func() systems.Value { return nil }, systems.VectorValued, 1)
			_, err := p.Allocate()
			Expect(err).To(MatchError(systems.ErrAllocationFailure))
			Expect(err.Error()).To(ContainSubstring(p.PortID()))

			var typedNil *systems.BasicVector
			p = portWith(func() systems.Value { return typedNil }, systems.VectorValued, 1)
			_, err = p.Allocate()
			Expect(systems.IsPortError(err, systems.CodeAllocationFailure)).To(BeTrue())
		})

		It("rejects a non-vector value on a vector port", func() {
			p := portWith(func() systems.Value { return systems.NewAbstract(3.5) }, systems.VectorValued, 1)
			_, err := p.Allocate()
			Expect(err).To(MatchError(systems.ErrTypeMismatch))
			Expect(err.Error()).To(ContainSubstring("expected vector output type but got abstract float64"))
		})

		It("rejects a vector of the wrong size", func() {
			p := portWith(func() systems.Value { return systems.NewBasicVector(2) }, systems.VectorValued, 3)
			_, err := p.Allocate()
			Expect(err).To(MatchError(systems.ErrSizeMismatch))
			Expect(err.Error()).To(ContainSubstring("expected vector of size 3 but got vector of size 2"))
			Expect(err.Error()).To(ContainSubstring("output port 0 of systems_test.counter System ::fixture"))
		})

		It("does not check abstract ports", func() {
			p := portWith(func() systems.Value { return systems.NewBasicVector(2) }, systems.AbstractValued, 0)
			_, err := p.Allocate()
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Calc", func() {
		It("computes into caller-owned storage without touching the cache", func() {
			out := systems.NewNamedVector("CounterState", 3)
			Expect(blk.OutputPort(0).Calc(ctx, out)).To(Succeed())
			Expect(out.Values()).To(Equal([]float64{1, 2, 3}))

			_, ok := ctx.CacheSlot(0)
			Expect(ok).To(BeFalse())
		})

		It("fails with the expected and actual kinds and the port path", func() {
			err := blk.OutputPort(0).Calc(ctx, systems.NewAbstract(observation{}))
			Expect(err).To(MatchError(systems.ErrTypeMismatch))

			var pe *systems.PortError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Op).To(Equal("Calc"))
			Expect(pe.Expected).To(Equal("vector CounterState"))
			Expect(pe.Actual).To(Equal("abstract systems_test.observation"))
			Expect(pe.Port).To(Equal("output port 0 of systems_test.counter System ::counter"))
			Expect(blk.calls).To(BeZero())
		})

		It("distinguishes vector types by name", func() {
			err := blk.OutputPort(0).Calc(ctx, systems.NewBasicVector(3))
			Expect(err).To(MatchError(systems.ErrTypeMismatch))
			Expect(err.Error()).To(ContainSubstring("expected vector CounterState but got vector BasicVector"))
		})

		It("rejects a vector of the wrong size", func() {
			err := blk.OutputPort(0).Calc(ctx, systems.NewNamedVector("CounterState", 4))
			Expect(err).To(MatchError(systems.ErrSizeMismatch))
		})

		It("requires the exact runtime type on abstract ports", func() {
			err := blk.OutputPort(1).Calc(ctx, systems.NewAbstract("not an observation"))
			Expect(err).To(MatchError(systems.ErrTypeMismatch))

			err = blk.OutputPort(1).Calc(ctx, systems.NewBasicVector(3))
			Expect(err).To(MatchError(systems.ErrTypeMismatch))

			obs := systems.NewAbstract(observation{})
			Expect(blk.OutputPort(1).Calc(ctx, obs)).To(Succeed())
			Expect(obs.V).To(Equal(observation{Label: "sum", Sum: 6}))
		})

		It("ignores vector length on abstract ports holding vectors", func() {
			p := portWith(func() systems.Value { return systems.NewBasicVector(2) }, systems.AbstractValued, 0)
			Expect(p.Calc(p.Block().(*systems.LeafBlock).CreateDefaultContext(), systems.NewBasicVector(5))).To(Succeed())

			err := p.Calc(p.Block().(*systems.LeafBlock).CreateDefaultContext(), systems.NewNamedVector("Other", 2))
			Expect(err).To(MatchError(systems.ErrTypeMismatch))
		})

		It("rejects a nil target", func() {
			err := blk.OutputPort(0).Calc(ctx, nil)
			Expect(err).To(MatchError(systems.ErrInvalidArgument))
		})

		It("rejects a context from another block", func() {
			other := newCounter()
			err := blk.OutputPort(0).Calc(other.CreateDefaultContext(), systems.NewNamedVector("CounterState", 3))
			Expect(err).To(MatchError(systems.ErrContextIncompatible))
		})

		It("propagates block failures with the port path", func() {
			b := systems.NewLeafBlock(&counter{}, "failing")
			boom := errors.New("boom")
			p, err := systems.NewOutputPort(b, 0, systems.VectorValued, 1,
				func() systems.Value { return systems.NewBasicVector(1) },
				func(systems.Context, systems.Value) error { return boom })
			Expect(err).NotTo(HaveOccurred())

			err = p.Calc(b.CreateDefaultContext(), systems.NewBasicVector(1))
			Expect(err).To(MatchError(boom))
			Expect(err.Error()).To(HavePrefix(p.PortID()))
		})
	})

	Describe("Eval", func() {
		It("computes once and then returns the cached value", func() {
			port := blk.OutputPort(0)
			first, err := port.Eval(ctx)
			Expect(err).NotTo(HaveOccurred())
			second, err := port.Eval(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(blk.calls).To(Equal(1))
			Expect(second).To(BeIdenticalTo(first))
			Expect(first.(*systems.BasicVector).Values()).To(Equal([]float64{1, 2, 3}))
		})

		It("recomputes exactly once after invalidation, reusing the slot storage", func() {
			port := blk.OutputPort(0)
			first, err := port.Eval(ctx)
			Expect(err).NotTo(HaveOccurred())

			ctx.Invalidate(0)
			slot, ok := ctx.CacheSlot(0)
			Expect(ok).To(BeTrue())
			Expect(slot.Valid()).To(BeFalse())

			again, err := port.Eval(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = port.Eval(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(blk.calls).To(Equal(2))
			Expect(again).To(BeIdenticalTo(first))
			Expect(slot.Valid()).To(BeTrue())
		})

		It("sees new state after the context changes", func() {
			port := blk.OutputPort(1)
			v, err := port.Eval(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.(*systems.Abstract[observation]).V.Sum).To(Equal(6.0))

			Expect(ctx.SetState([]float64{0, 0, 1})).To(Succeed())
			v, err = port.Eval(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.(*systems.Abstract[observation]).V.Sum).To(Equal(1.0))
		})

		It("keeps distinct contexts independent", func() {
			other := blk.CreateDefaultContext()
			Expect(other.SetState([]float64{4, 5, 6})).To(Succeed())

			a, err := blk.OutputPort(0).Eval(ctx)
			Expect(err).NotTo(HaveOccurred())
			b, err := blk.OutputPort(0).Eval(other)
			Expect(err).NotTo(HaveOccurred())

			Expect(a).NotTo(BeIdenticalTo(b))
			Expect(b.(*systems.BasicVector).Values()).To(Equal([]float64{4, 5, 6}))
			Expect(blk.calls).To(Equal(2))
		})

		It("fails on an incompatible context without creating cache state", func() {
			foreign := newCounter().CreateDefaultContext()
			_, err := blk.OutputPort(0).Eval(foreign)
			Expect(err).To(MatchError(systems.ErrContextIncompatible))
			Expect(systems.IsPortError(err, systems.CodeContextIncompatible)).To(BeTrue())

			_, ok := foreign.CacheSlot(0)
			Expect(ok).To(BeFalse())
			Expect(blk.calls).To(BeZero())

			_, err = blk.OutputPort(0).Eval(nil)
			Expect(err).To(MatchError(systems.ErrContextIncompatible))
		})

		It("leaves no valid slot when the computation fails", func() {
			b := systems.NewLeafBlock(&counter{}, "failing")
			p, err := systems.NewOutputPort(b, 0, systems.VectorValued, 1,
				func() systems.Value { return systems.NewBasicVector(1) },
				func(systems.Context, systems.Value) error { return errors.New("boom") })
			Expect(err).NotTo(HaveOccurred())

			c := b.CreateDefaultContext()
			_, err = p.Eval(c)
			Expect(err).To(HaveOccurred())
			_, ok := c.CacheSlot(0)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("reference value for type checks", func() {
		It("is allocated on every Calc by default", func() {
			_, err := blk.OutputPort(0).Eval(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(blk.allocs).To(Equal(2))

			ctx.InvalidateAll()
			_, err = blk.OutputPort(0).Eval(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(blk.allocs).To(Equal(3))
		})

		It("is allocated once with WithReferenceCache, with the same failures", func() {
			cached := newCounter(systems.WithReferenceCache())
			c := cached.CreateDefaultContext()

			_, err := cached.OutputPort(0).Eval(c)
			Expect(err).NotTo(HaveOccurred())
			c.InvalidateAll()
			_, err = cached.OutputPort(0).Eval(c)
			Expect(err).NotTo(HaveOccurred())
			Expect(cached.allocs).To(Equal(2))

			err = cached.OutputPort(0).Calc(c, systems.NewBasicVector(3))
			Expect(err).To(MatchError(systems.ErrTypeMismatch))
			err = cached.OutputPort(0).Calc(c, systems.NewNamedVector("CounterState", 2))
			Expect(err).To(MatchError(systems.ErrSizeMismatch))
		})
	})
})
