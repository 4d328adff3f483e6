package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/imamik/kpkg/internal/manifest"
)

// Printer writes human readable output.
type Printer struct {
	out    io.Writer
	styled bool
}

// NewPrinter returns a printer for out. Styling is enabled when out is a
// terminal.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, styled: IsTerminal(out)}
}

// NewPlainPrinter returns a printer that never styles.
func NewPlainPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// Title prints a heading.
func (p *Printer) Title(s string) {
	fmt.Fprintln(p.out, p.render(titleStyle, s))
}

// Success prints a completed step.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.render(okStyle, checkMark), fmt.Sprintf(format, args...))
}

// Failure prints a failed step.
func (p *Printer) Failure(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.render(failedStyle, crossMark), fmt.Sprintf(format, args...))
}

// Warning prints something the user should look at.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.render(warningStyle, warnMark), fmt.Sprintf(format, args...))
}

// Info prints a dimmed note.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(dimStyle, fmt.Sprintf(format, args...)))
}

// Resources prints seq as a table under title.
func (p *Printer) Resources(title string, seq manifest.Sequence) {
	fmt.Fprintln(p.out, p.render(sectionStyle, fmt.Sprintf("%s (%d)", title, len(seq))))
	if len(seq) == 0 {
		fmt.Fprintln(p.out, p.render(dimStyle, "  none"))
		return
	}
	fmt.Fprintln(p.out, p.ResourceTable(seq))
}

// ResourceTable renders seq with one row per resource.
func (p *Printer) ResourceTable(seq manifest.Sequence) string {
	rows := make([][]string, 0, len(seq))
	for _, obj := range seq {
		ns := obj.GetNamespace()
		if ns == "" {
			ns = "-"
		}
		rows = append(rows, []string{obj.GetKind(), ns, obj.GetName(), obj.GetAPIVersion()})
	}
	return p.Table([]string{"KIND", "NAMESPACE", "NAME", "API VERSION"}, rows)
}

// Table renders rows under headers. Without styling the table has no
// borders so the output stays easy to grep.
func (p *Printer) Table(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...)
	if p.styled {
		t = t.Border(lipgloss.RoundedBorder()).
			BorderStyle(dimStyle).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
	} else {
		t = t.Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderHeader(false).
			BorderColumn(false).
			StyleFunc(func(_, _ int) lipgloss.Style {
				return lipgloss.NewStyle().PaddingRight(2)
			})
	}
	return t.Render()
}

// Println writes s unstyled.
func (p *Printer) Println(s string) {
	fmt.Fprintln(p.out, s)
}
