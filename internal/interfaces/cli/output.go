package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// printer escribe la salida de los comandos: texto con estilo o JSON con --json.
type printer struct {
	out  io.Writer
	json bool
}

func (p printer) success(format string, args ...any) {
	if p.json {
		return
	}
	fmt.Fprint(p.out, successStyle.Render("✓ "))
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p printer) warning(format string, args ...any) {
	if p.json {
		return
	}
	fmt.Fprint(p.out, warningStyle.Render("⚠ "))
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p printer) muted(format string, args ...any) {
	if p.json {
		return
	}
	fmt.Fprintln(p.out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// value imprime v como JSON indentado; solo con --json.
func (p printer) value(v any) error {
	if !p.json {
		return nil
	}
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table imprime filas con encabezado; con --json no hace nada (el llamador usa value).
func (p printer) table(headers []string, rows [][]string) {
	if p.json {
		return
	}
	if len(rows) == 0 {
		p.muted("(sin resultados)")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(p.out, t.Render())
}

// renderError formatea un error para stderr.
func renderError(err error) string {
	return errorStyle.Render("✗ ") + err.Error()
}
