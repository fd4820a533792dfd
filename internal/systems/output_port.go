package systems

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// PortDataType distinguishes numeric vector ports from opaque ones.
type PortDataType int

const (
	VectorValued PortDataType = iota
	AbstractValued
)

func (t PortDataType) String() string {
	if t == VectorValued {
		return "vector"
	}
	return "abstract"
}

// AutoSize declares a vector port that accepts any length.
const AutoSize = -1

// PortDescriptor identifies an output channel of a block.
type PortDescriptor struct {
	Index    int
	DataType PortDataType
	Size     int
}

// AllocFunc produces a default value for a port.
type AllocFunc func() Value

// CalcFunc computes fresh content into out, which has already been
// validated against the port's type.
type CalcFunc func(ctx Context, out Value) error

type PortOption func(*OutputPort)

// WithReferenceCache makes Calc allocate the reference value used for type
// checking once per port instead of on every call. The allocator must be
// deterministic for this to be unobservable.
func WithReferenceCache() PortOption {
	return func(p *OutputPort) { p.memoRef = true }
}

// WithName attaches a human-readable label used in listings.
func WithName(name string) PortOption {
	return func(p *OutputPort) { p.name = name }
}

// OutputPort is a block's cached, type-checked output.
type OutputPort struct {
	block Block
	desc  PortDescriptor
	name  string
	alloc AllocFunc
	calc  CalcFunc

	memoRef bool
	refOnce sync.Once
	ref     Value
	refErr  error
}

// NewOutputPort creates a port. Blocks normally go through
// LeafBlock.DeclareVectorOutputPort or DeclareAbstractOutputPort instead.
func NewOutputPort(block Block, index int, dataType PortDataType, size int, alloc AllocFunc, calc CalcFunc, opts ...PortOption) (*OutputPort, error) {
	switch {
	case block == nil:
		return nil, fmt.Errorf("%w: nil block", ErrInvalidArgument)
	case alloc == nil || calc == nil:
		return nil, fmt.Errorf("%w: port %d needs both an allocator and a calculator", ErrInvalidArgument, index)
	case index < 0:
		return nil, fmt.Errorf("%w: negative port index %d", ErrInvalidArgument, index)
	case dataType == VectorValued && size < 0 && size != AutoSize:
		return nil, fmt.Errorf("%w: invalid vector size %d", ErrInvalidArgument, size)
	case dataType == AbstractValued:
		size = 0
	}

	p := &OutputPort{
		block: block,
		desc:  PortDescriptor{Index: index, DataType: dataType, Size: size},
		alloc: alloc,
		calc:  calc,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *OutputPort) Descriptor() PortDescriptor { return p.desc }
func (p *OutputPort) Index() int                 { return p.desc.Index }
func (p *OutputPort) DataType() PortDataType     { return p.desc.DataType }
func (p *OutputPort) Size() int                  { return p.desc.Size }
func (p *OutputPort) Name() string               { return p.name }
func (p *OutputPort) Block() Block               { return p.block }

// PortID names the port for error messages.
func (p *OutputPort) PortID() string {
	return fmt.Sprintf("output port %d of %s System %s", p.desc.Index, p.block.TypeName(), p.block.Pathname())
}

// Allocate returns a freshly constructed default value for this port.
func (p *OutputPort) Allocate() (Value, error) {
	v := p.alloc()
	if isNil(v) {
		return nil, p.fail(CodeAllocationFailure, "Allocate", "", "", "allocator returned nil")
	}
	if err := p.checkValidAllocation(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *OutputPort) checkValidAllocation(v Value) error {
	if p.desc.DataType != VectorValued {
		return nil
	}
	vec, ok := v.(VectorValue)
	if !ok || v.Kind() != KindVector {
		return p.fail(CodeTypeMismatch, "Allocate", "vector output type", describe(v), "")
	}
	if p.desc.Size == AutoSize {
		return nil
	}
	if vec.Size() != p.desc.Size {
		return p.fail(CodeSizeMismatch, "Allocate",
			fmt.Sprintf("vector of size %d", p.desc.Size),
			fmt.Sprintf("vector of size %d", vec.Size()), "")
	}
	return nil
}

// Calc computes fresh content for this port into target, which the caller
// owns. It does not touch any cache slot.
func (p *OutputPort) Calc(ctx Context, target Value) error {
	if isNil(target) {
		return p.fail(CodeInvalidArgument, "Calc", "", "", "target value is nil")
	}
	if err := p.checkContext("Calc", ctx); err != nil {
		return err
	}
	if err := p.checkValidOutputType(target); err != nil {
		return err
	}
	if err := p.calc(ctx, target); err != nil {
		return fmt.Errorf("%s: %w", p.PortID(), err)
	}
	return nil
}

func (p *OutputPort) reference() (Value, error) {
	if !p.memoRef {
		return p.Allocate()
	}
	p.refOnce.Do(func() {
		p.ref, p.refErr = p.Allocate()
	})
	return p.ref, p.refErr
}

func (p *OutputPort) checkValidOutputType(target Value) error {
	good, err := p.reference()
	if err != nil {
		return err
	}

	goodVec, goodIsVec := good.(VectorValue)
	targetVec, targetIsVec := target.(VectorValue)
	if p.desc.DataType == VectorValued && goodIsVec && targetIsVec &&
		good.Kind() == KindVector && target.Kind() == KindVector {
		if good.TypeName() != target.TypeName() {
			return p.fail(CodeTypeMismatch, "Calc", describe(good), describe(target), "")
		}
		if p.desc.Size != AutoSize && targetVec.Size() != goodVec.Size() {
			return p.fail(CodeSizeMismatch, "Calc",
				fmt.Sprintf("vector of size %d", goodVec.Size()),
				fmt.Sprintf("vector of size %d", targetVec.Size()), "")
		}
		return nil
	}

	if good.Kind() != target.Kind() || good.TypeName() != target.TypeName() {
		return p.fail(CodeTypeMismatch, "Calc", describe(good), describe(target), "")
	}
	return nil
}

// Eval returns the up-to-date value of this port in ctx, computing it only
// when the context's cache slot is missing or stale. The returned value is
// owned by the context and must not be modified.
func (p *OutputPort) Eval(ctx Context) (Value, error) {
	if err := p.checkContext("Eval", ctx); err != nil {
		return nil, err
	}

	log := p.block.Logger()
	slot, ok := ctx.CacheSlot(p.desc.Index)
	if ok && slot.Valid() {
		if log != nil {
			log.Debug("output port cache hit", "port", p.PortID())
		}
		return slot.Value(), nil
	}

	var target Value
	reuse := ok && slot.Value() != nil
	if reuse {
		target = slot.Value()
	} else {
		v, err := p.Allocate()
		if err != nil {
			return nil, err
		}
		target = v
	}

	if log != nil {
		log.Debug("output port cache miss", "port", p.PortID(), "reuse", reuse)
	}
	if err := p.Calc(ctx, target); err != nil {
		return nil, err
	}

	if !ok {
		slot = ctx.NewCacheSlot(p.desc.Index)
	}
	if err := slot.store(target); err != nil {
		return nil, p.fail(CodeTypeMismatch, "Eval", "", "", err.Error())
	}
	return target, nil
}

func (p *OutputPort) checkContext(op string, ctx Context) error {
	if p.block.CompatibleWith(ctx) {
		return nil
	}
	actual := "nil context"
	if ctx != nil {
		actual = fmt.Sprintf("context owned by %s", ctx.OwnerID())
	}
	expected := "context of this block"
	if ider, ok := p.block.(interface{ ID() uuid.UUID }); ok {
		expected = fmt.Sprintf("context owned by %s", ider.ID())
	}
	return p.fail(CodeContextIncompatible, op, expected, actual, "")
}

func (p *OutputPort) fail(code ErrorCode, op, expected, actual, msg string) error {
	return &PortError{
		Code:     code,
		Op:       op,
		Port:     p.PortID(),
		Expected: expected,
		Actual:   actual,
		Message:  msg,
	}
}
