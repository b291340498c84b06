// Package ui prints the human progress lines of the memo CLI. Colors are
// dropped automatically when the writer is not a terminal.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorRed    = lipgloss.Color("#FF5F5F")
	ColorGreen  = lipgloss.Color("#5FD75F")
	ColorYellow = lipgloss.Color("#FFD75F")
	ColorBlue   = lipgloss.Color("#5F87FF")
	ColorGray   = lipgloss.Color("#808080")
)

type Printer struct {
	w io.Writer

	info  lipgloss.Style
	warn  lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	faint lipgloss.Style
	bold  lipgloss.Style
}

// New returns a Printer on w; a nil w means stderr.
func New(w io.Writer) *Printer {
	if w == nil {
		w = os.Stderr
	}
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		info:  r.NewStyle().Foreground(ColorBlue),
		warn:  r.NewStyle().Foreground(ColorYellow),
		ok:    r.NewStyle().Foreground(ColorGreen),
		fail:  r.NewStyle().Foreground(ColorRed).Bold(true),
		faint: r.NewStyle().Foreground(ColorGray),
		bold:  r.NewStyle().Bold(true),
	}
}

func (p *Printer) line(style lipgloss.Style, tag, msg string, a ...any) {
	fmt.Fprintf(p.w, "%s %s\n", style.Render(tag), fmt.Sprintf(msg, a...))
}

func (p *Printer) Info(msg string, a ...any) { p.line(p.info, "[info]", msg, a...) }
func (p *Printer) Warn(msg string, a ...any) { p.line(p.warn, "[warn]", msg, a...) }
func (p *Printer) OK(msg string, a ...any)   { p.line(p.ok, "[ok]", msg, a...) }
func (p *Printer) Fail(msg string, a ...any) { p.line(p.fail, "[error]", msg, a...) }

// Check prints one checklist row: "  + name" or "  - name: hint".
func (p *Printer) Check(ok bool, name, hint string) {
	if ok {
		fmt.Fprintf(p.w, "  %s %s\n", p.ok.Render("+"), name)
		return
	}
	fmt.Fprintf(p.w, "  %s %s %s\n", p.fail.Render("-"), name, p.faint.Render("("+hint+")"))
}

// Heading prints a bold line.
func (p *Printer) Heading(msg string, a ...any) {
	fmt.Fprintln(p.w, p.bold.Render(fmt.Sprintf(msg, a...)))
}

// Row prints an indented detail line in a muted color.
func (p *Printer) Row(msg string, a ...any) {
	fmt.Fprintln(p.w, "    "+p.faint.Render(fmt.Sprintf(msg, a...)))
}
