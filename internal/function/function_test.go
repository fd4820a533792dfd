package function

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dynblocks/internal/autodiff"
	"github.com/san-kum/dynblocks/internal/relation"
)

// polar maps (r, θ) to (r cos θ, r sin θ).
func polar[T autodiff.Scalar[T]](x []T) []T {
	return []T{x[0].Mul(x[1].Cos()), x[0].Mul(x[1].Sin())}
}

func TestTemplatedSharesBody(t *testing.T) {
	f := New(polar[autodiff.Real], polar[autodiff.Dual])
	assert.Equal(t, relation.Differentiable, f.Relation())

	x := []float64{2, math.Pi / 6}
	y := f.Eval(x)
	require.Len(t, y, 2)
	assert.InDelta(t, 2*math.Cos(math.Pi/6), y[0], 1e-12)
	assert.InDelta(t, 1.0, y[1], 1e-12)

	yd := f.EvalDual(autodiff.Seed(x, nil))
	assert.InDeltaSlice(t, y, autodiff.Values(yd), 1e-12)
}

func TestJacobianPolar(t *testing.T) {
	f := New(polar[autodiff.Real], polar[autodiff.Dual])
	r, th := 2.0, 0.3
	jac := Jacobian(f, []float64{r, th})

	want := [][]float64{
		{math.Cos(th), -r * math.Sin(th)},
		{math.Sin(th), r * math.Cos(th)},
	}
	require.Len(t, jac, 2)
	for i := range want {
		assert.InDeltaSlice(t, want[i], jac[i], 1e-12)
	}
}

func TestJacobianOfLinearIsMatrix(t *testing.T) {
	a := [][]float64{{1, 2, 3}, {-1, 0, 4}}
	f := Linear(a)
	assert.Equal(t, relation.Linear, f.Relation())

	jac := Jacobian(f, []float64{0.5, -2, 7})
	assert.Equal(t, a, jac)
	assert.Equal(t, []float64{1*0.5 - 4 + 21, -0.5 + 28}, f.Eval([]float64{0.5, -2, 7}))
}

func TestDirectional(t *testing.T) {
	f := Affine([][]float64{{2, 0}, {0, 3}}, []float64{1, 1})
	y, dy := Directional(f, []float64{1, 1}, []float64{1, -1})
	assert.Equal(t, []float64{3, 4}, y)
	assert.Equal(t, []float64{2, -3}, dy)
}

func TestLibraryRelations(t *testing.T) {
	tests := []struct {
		name string
		f    Function
		want relation.Tag
		x    []float64
		y    []float64
	}{
		{"zero", Zero(2), relation.Zero, []float64{5}, []float64{0, 0}},
		{"constant", Constant([]float64{1, 2}), relation.Constant, []float64{9, 9}, []float64{1, 2}},
		{"linear", Linear([][]float64{{2}}), relation.Linear, []float64{3}, []float64{6}},
		{"affine", Affine([][]float64{{2}}, []float64{1}), relation.Affine, []float64{3}, []float64{7}},
		{"plain", FromFunc(relation.Arbitrary, func(x []float64) []float64 { return []float64{math.Abs(x[0])} }), relation.Arbitrary, []float64{-3}, []float64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Relation())
			assert.Equal(t, tt.y, tt.f.Eval(tt.x))
		})
	}
}

func TestConstantJacobianIsZero(t *testing.T) {
	jac := Jacobian(Constant([]float64{4}), []float64{1, 2})
	assert.Equal(t, [][]float64{{0, 0}}, jac)
}

func TestCompose(t *testing.T) {
	g := Affine([][]float64{{1, 1}}, []float64{10})
	f := Linear([][]float64{{2, 0}, {0, 3}})

	h := Compose(g, f)
	assert.Equal(t, relation.Affine, h.Relation())
	assert.Equal(t, []float64{10 + 2 + 3}, h.Eval([]float64{1, 1}))

	d, ok := h.(Differentiable)
	require.True(t, ok)
	assert.Equal(t, [][]float64{{2, 3}}, Jacobian(d, []float64{1, 1}))

	ll := Compose(f, f)
	assert.Equal(t, relation.Linear, ll.Relation())

	opaque := FromFunc(relation.Arbitrary, func(x []float64) []float64 { return x })
	mixed := Compose(opaque, f)
	assert.Equal(t, relation.Arbitrary, mixed.Relation())
	_, ok = mixed.(Differentiable)
	assert.False(t, ok)
}

func TestStack(t *testing.T) {
	s, err := Stack(Zero(1), Constant([]float64{5}), Linear([][]float64{{1, 1}}))
	require.NoError(t, err)
	assert.Equal(t, relation.Affine, s.Relation())
	assert.Equal(t, []float64{0, 5, 3}, s.Eval([]float64{1, 2}))

	d, ok := s.(Differentiable)
	require.True(t, ok)
	assert.Equal(t, [][]float64{{0, 0}, {0, 0}, {1, 1}}, Jacobian(d, []float64{1, 2}))

	single, err := Stack(Linear([][]float64{{1}}))
	require.NoError(t, err)
	assert.Equal(t, relation.Linear, single.Relation())

	_, err = Stack()
	assert.ErrorIs(t, err, relation.ErrInvalidArgument)
}
