// Package report renders lattice tables, port values, Jacobians and sweep
// plots for the command line. The Write* functions produce plain text; the
// Render* functions wrap the same text in lipgloss panels.
package report
