package systems

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Block is the owner of output ports as seen by the ports themselves.
type Block interface {
	TypeName() string
	// Pathname locates the block inside any enclosing composition,
	// e.g. "::arm::elbow".
	Pathname() string
	CompatibleWith(ctx Context) bool
	Logger() *slog.Logger
}

// LeafBlock is embedded by concrete blocks. It owns the block identity,
// its position in a composition, and its declared output ports.
type LeafBlock struct {
	id       uuid.UUID
	typeName string
	name     string
	parent   string
	stateDim int
	ports    []*OutputPort
	logger   *slog.Logger
}

// NewLeafBlock creates the shared block state for owner, which is only
// used for its type name.
func NewLeafBlock(owner any, name string) *LeafBlock {
	return &LeafBlock{
		id:       uuid.New(),
		typeName: TypeName(owner),
		name:     name,
		logger:   slog.New(slog.DiscardHandler),
	}
}

func (b *LeafBlock) ID() uuid.UUID    { return b.id }
func (b *LeafBlock) Name() string     { return b.name }
func (b *LeafBlock) TypeName() string { return b.typeName }

// SetParentPath records the pathname of the enclosing composition.
func (b *LeafBlock) SetParentPath(path string) { b.parent = path }

func (b *LeafBlock) Pathname() string {
	name := b.name
	if name == "" {
		name = "_"
	}
	return b.parent + "::" + name
}

func (b *LeafBlock) Logger() *slog.Logger { return b.logger }

func (b *LeafBlock) SetLogger(l *slog.Logger) {
	if l != nil {
		b.logger = l
	}
}

func (b *LeafBlock) StateDim() int         { return b.stateDim }
func (b *LeafBlock) DeclareStateDim(n int) { b.stateDim = n }

// CompatibleWith reports whether ctx was created for this block.
func (b *LeafBlock) CompatibleWith(ctx Context) bool {
	return ctx != nil && ctx.OwnerID() == b.id
}

// CreateDefaultContext returns a fresh context with a zero state.
func (b *LeafBlock) CreateDefaultContext() *LeafContext {
	return NewLeafContext(b.id, b.stateDim)
}

// DeclareVectorOutputPort adds a vector-valued port of the given size (or
// AutoSize) and returns it. Ports are numbered in declaration order.
func (b *LeafBlock) DeclareVectorOutputPort(size int, alloc AllocFunc, calc CalcFunc, opts ...PortOption) *OutputPort {
	return b.declare(VectorValued, size, alloc, calc, opts)
}

// DeclareAbstractOutputPort adds an abstract-valued port.
func (b *LeafBlock) DeclareAbstractOutputPort(alloc AllocFunc, calc CalcFunc, opts ...PortOption) *OutputPort {
	return b.declare(AbstractValued, 0, alloc, calc, opts)
}

func (b *LeafBlock) declare(dt PortDataType, size int, alloc AllocFunc, calc CalcFunc, opts []PortOption) *OutputPort {
	p, err := NewOutputPort(b, len(b.ports), dt, size, alloc, calc, opts...)
	if err != nil {
		panic(fmt.Sprintf("%s: declaring output port: %v", b.Pathname(), err))
	}
	b.ports = append(b.ports, p)
	return p
}

func (b *LeafBlock) NumOutputPorts() int { return len(b.ports) }

// OutputPort returns port i, or nil if there is no such port.
func (b *LeafBlock) OutputPort(i int) *OutputPort {
	if i < 0 || i >= len(b.ports) {
		return nil
	}
	return b.ports[i]
}
