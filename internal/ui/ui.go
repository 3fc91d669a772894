// Package ui provides terminal render helpers for the qd CLI.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// colorEnabled is false when the terminal reports no color support.
var colorEnabled = termenv.DefaultOutput().Profile != termenv.Ascii

func render(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// RenderAccent highlights s in the accent color.
func RenderAccent(s string) string { return render(accentStyle, s) }

// RenderPass renders s as a success marker.
func RenderPass(s string) string { return render(passStyle, s) }

// RenderWarn renders s as a warning marker.
func RenderWarn(s string) string { return render(warnStyle, s) }

// RenderFail renders s as a failure marker.
func RenderFail(s string) string { return render(failStyle, s) }

// RenderDim renders s de-emphasized.
func RenderDim(s string) string { return render(dimStyle, s) }
