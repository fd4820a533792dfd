package systems

import (
	"fmt"
	"reflect"

	"gonum.org/v1/gonum/floats"
)

// Kind is the coarse data kind of a port value.
type Kind int

const (
	KindVector Kind = iota
	KindAbstract
)

func (k Kind) String() string {
	switch k {
	case KindVector:
		return "vector"
	case KindAbstract:
		return "abstract"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is anything that can cross a port boundary.
type Value interface {
	Kind() Kind
	// TypeName identifies the concrete value type. Two values have the
	// same type exactly when their kinds and type names are equal.
	TypeName() string
}

// VectorValue is a Value of KindVector.
type VectorValue interface {
	Value
	Size() int
}

// DefaultVectorType is the type name of vectors built by NewBasicVector.
const DefaultVectorType = "BasicVector"

// BasicVector is a named, fixed-length vector of float64.
type BasicVector struct {
	typeName string
	data     []float64
}

// NewBasicVector returns a zero vector of length n.
func NewBasicVector(n int) *BasicVector {
	return NewNamedVector(DefaultVectorType, n)
}

// NewNamedVector returns a zero vector of length n whose type name is name.
// Vectors with different names are different types to a port.
func NewNamedVector(name string, n int) *BasicVector {
	return &BasicVector{typeName: name, data: make([]float64, n)}
}

// VectorFrom returns a vector holding a copy of data.
func VectorFrom(name string, data []float64) *BasicVector {
	return &BasicVector{typeName: name, data: append([]float64(nil), data...)}
}

func (v *BasicVector) Kind() Kind       { return KindVector }
func (v *BasicVector) TypeName() string { return v.typeName }
func (v *BasicVector) Size() int        { return len(v.data) }

func (v *BasicVector) At(i int) float64       { return v.data[i] }
func (v *BasicVector) SetAt(i int, x float64) { v.data[i] = x }

// Values returns a copy of the contents.
func (v *BasicVector) Values() []float64 {
	return append([]float64(nil), v.data...)
}

// SetFrom overwrites the contents with x, which must have the same length.
func (v *BasicVector) SetFrom(x []float64) error {
	if len(x) != len(v.data) {
		return fmt.Errorf("%w: vector of size %d cannot hold %d values", ErrSizeMismatch, len(v.data), len(x))
	}
	copy(v.data, x)
	return nil
}

// Norm returns the Euclidean norm.
func (v *BasicVector) Norm() float64 {
	if len(v.data) == 0 {
		return 0
	}
	return floats.Norm(v.data, 2)
}

// Abstract wraps an arbitrary Go value.
type Abstract[V any] struct {
	V V
}

// NewAbstract wraps v.
func NewAbstract[V any](v V) *Abstract[V] {
	return &Abstract[V]{V: v}
}

func (a *Abstract[V]) Kind() Kind { return KindAbstract }

func (a *Abstract[V]) TypeName() string {
	return reflect.TypeFor[V]().String()
}

// TypeName returns a readable name for v's dynamic type, without any
// leading pointer indirection.
func TypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

func describe(v Value) string {
	return fmt.Sprintf("%s %s", v.Kind(), v.TypeName())
}

func isNil(v Value) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}
