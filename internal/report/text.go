package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/dynblocks/internal/experiment"
	"github.com/san-kum/dynblocks/internal/models"
	"github.com/san-kum/dynblocks/internal/relation"
	"github.com/san-kum/dynblocks/internal/systems"
)

// WriteLattice writes one row per tag with its parent and full ancestry.
func WriteLattice(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%-15s %-15s %s\n", "TAG", "PARENT", "ANCESTORS"); err != nil {
		return err
	}
	for _, t := range relation.All {
		parent, ancestors := "-", "-"
		if t != relation.Arbitrary {
			parent = relation.Parent(t).String()
			ancestors = joinTags(relation.Ancestors(t)[1:])
		}
		if _, err := fmt.Fprintf(w, "%-15s %-15s %s\n", t, parent, ancestors); err != nil {
			return err
		}
	}
	return nil
}

// WritePorts writes one row per evaluated port.
func WritePorts(w io.Writer, results []experiment.PortResult) error {
	if _, err := fmt.Fprintf(w, "%-4s %-14s %-28s %s\n", "PORT", "NAME", "TYPE", "VALUE"); err != nil {
		return err
	}
	for _, r := range results {
		typ := "-"
		if r.Value != nil {
			typ = r.Value.TypeName()
		}
		if _, err := fmt.Fprintf(w, "%-4d %-14s %-28s %s\n", r.Index, r.Name, typ, FormatValue(r.Value)); err != nil {
			return err
		}
	}
	return nil
}

// WriteMatrix writes m with labelled rows and columns.
func WriteMatrix(w io.Writer, rows, cols []string, m [][]float64) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s", "")
	for _, c := range cols {
		fmt.Fprintf(&b, " %10s", c)
	}
	b.WriteByte('\n')
	for i, row := range m {
		name := fmt.Sprintf("y%d", i)
		if i < len(rows) {
			name = rows[i]
		}
		fmt.Fprintf(&b, "%-10s", name)
		for _, v := range row {
			fmt.Fprintf(&b, " %10.4f", v)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WritePoles writes one pole per line followed by a stability verdict.
func WritePoles(w io.Writer, poles []complex128) error {
	stable := true
	for _, p := range poles {
		if _, err := fmt.Fprintf(w, "pole %10.4f %+10.4fi\n", real(p), imag(p)); err != nil {
			return err
		}
		if real(p) >= 0 {
			stable = false
		}
	}
	verdict := "unstable"
	if stable {
		verdict = "stable"
	}
	_, err := fmt.Fprintln(w, verdict)
	return err
}

// FormatValue renders a port value on one line.
func FormatValue(v systems.Value) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case *systems.BasicVector:
		return formatVector(val.Values())
	case *systems.Abstract[models.Linearization]:
		lin := val.V
		return fmt.Sprintf("relation=%s exact=%t A=%s B=%s",
			lin.Relation, lin.Exact(), shape(lin.A), shape(lin.B))
	default:
		return v.TypeName()
	}
}

func formatVector(x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func shape(m [][]float64) string {
	if len(m) == 0 {
		return "0x0"
	}
	return fmt.Sprintf("%dx%d", len(m), len(m[0]))
}

func joinTags(tags []relation.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}
	return strings.Join(names, " ")
}
