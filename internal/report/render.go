package report

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dynblocks/internal/experiment"
	"github.com/san-kum/dynblocks/internal/models"
	"github.com/san-kum/dynblocks/internal/relation"
)

func RenderLattice() string {
	var b strings.Builder
	_ = WriteLattice(&b)
	return panel("relation lattice", strings.TrimRight(b.String(), "\n"))
}

// RenderPorts shows the evaluated ports of m, with its relation tag.
func RenderPorts(m models.Model, results []experiment.PortResult) string {
	var b strings.Builder
	_ = WritePorts(&b, results)
	body := strings.TrimRight(b.String(), "\n")
	return panel(m.Pathname(), relationLine(m.Function().Relation())+"\n"+body)
}

func RenderJacobian(m models.Model, jac [][]float64) string {
	cols := append(append([]string(nil), m.StateNames()...), m.InputNames()...)
	var rows []string
	for _, s := range m.StateNames() {
		rows = append(rows, "d"+s)
	}
	var b strings.Builder
	_ = WriteMatrix(&b, rows, cols, jac)
	return panel("jacobian "+m.Pathname(), relationLine(m.Function().Relation())+"\n"+strings.TrimRight(b.String(), "\n"))
}

func relationLine(t relation.Tag) string {
	status := Approx.Render("local")
	if relation.IsA(t, relation.Affine) {
		status = Exact.Render("exact")
	}
	return Label.Render("relation ") + Value.Render(t.String()) + Subtle.Render(" linearization ") + status
}

// SweepPlot draws the swept output, and its slope when one was recorded.
func SweepPlot(samples []experiment.Sample, caption string) string {
	if len(samples) == 0 {
		return ""
	}
	out := make([]float64, len(samples))
	slope := make([]float64, len(samples))
	hasSlope := false
	for i, s := range samples {
		out[i] = s.Output
		slope[i] = s.Slope
		if s.Slope != 0 {
			hasSlope = true
		}
	}

	opts := []asciigraph.Option{
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	}
	if !hasSlope {
		return asciigraph.Plot(out, opts...)
	}
	opts = append(opts, asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Goldenrod))
	return asciigraph.PlotMany([][]float64{out, slope}, opts...)
}

// RenderClosedLoop shows the closed-loop jacobian of m under feedback and
// its poles.
func RenderClosedLoop(m models.Model, feedback, closed relation.Tag, jac [][]float64, poles []complex128) string {
	var b strings.Builder
	_ = WriteMatrix(&b, m.StateNames(), m.StateNames(), jac)
	b.WriteString("\n")
	_ = WritePoles(&b, poles)

	head := Label.Render("feedback ") + Value.Render(feedback.String()) + "\n" + relationLine(closed)
	return panel("closed loop "+m.Pathname(), head+"\n"+strings.TrimRight(b.String(), "\n"))
}
