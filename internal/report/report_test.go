package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dynblocks/internal/experiment"
	"github.com/san-kum/dynblocks/internal/models"
	"github.com/san-kum/dynblocks/internal/relation"
	"github.com/san-kum/dynblocks/internal/systems"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWriteLattice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLattice(&buf))
	newGoldie(t).Assert(t, "lattice", buf.Bytes())
}

func TestWriteMatrix(t *testing.T) {
	var buf bytes.Buffer
	jac := [][]float64{{0, 1, 0}, {-10, -0.5, 1}}
	require.NoError(t, WriteMatrix(&buf, []string{"dpos", "dvel"}, []string{"pos", "vel", "force"}, jac))
	newGoldie(t).Assert(t, "spring_mass_jacobian", buf.Bytes())
}

func TestWritePorts(t *testing.T) {
	results := []experiment.PortResult{
		{Index: 0, Name: "state", Value: systems.VectorFrom("SpringMassState", []float64{1, 0})},
		{Index: 1, Name: "derivative", Value: systems.VectorFrom("SpringMassDerivative", []float64{0, -10})},
		{Index: 2, Name: "linearization", Value: systems.NewAbstract(models.Linearization{
			A:        [][]float64{{0, 1}, {-10, -0.5}},
			B:        [][]float64{{0}, {1}},
			Relation: relation.Linear,
		})},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePorts(&buf, results))
	newGoldie(t).Assert(t, "ports", buf.Bytes())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "<nil>", FormatValue(nil))
	assert.Equal(t, "[]", FormatValue(systems.NewBasicVector(0)))
	assert.Equal(t, "string", FormatValue(systems.NewAbstract("x")))
}

func TestRenderJacobianLabels(t *testing.T) {
	m := models.NewSpringMass("spring")
	out := RenderJacobian(m, [][]float64{{0, 1, 0}, {-10, -0.5, 1}})

	for _, want := range []string{"jacobian", "dpos", "force", "LINEAR"} {
		assert.Contains(t, out, want)
	}
}

func TestSweepPlot(t *testing.T) {
	assert.Empty(t, SweepPlot(nil, "empty"))

	samples := make([]experiment.Sample, 0, 20)
	for i := 0; i < 20; i++ {
		u := float64(i) / 4
		samples = append(samples, experiment.Sample{Input: u, Output: u * u})
	}
	out := SweepPlot(samples, "x^2")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "x^2"), "caption missing:\n%s", out)

	samples[3].Slope = 1.5
	assert.NotEmpty(t, SweepPlot(samples, "with slope"))
}

func TestWritePoles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePoles(&buf, []complex128{complex(-1, 2), complex(-1, -2)}))
	newGoldie(t).Assert(t, "poles", buf.Bytes())

	buf.Reset()
	require.NoError(t, WritePoles(&buf, []complex128{complex(0.5, 0)}))
	assert.True(t, strings.HasSuffix(buf.String(), "unstable\n"))
}
