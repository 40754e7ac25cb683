package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const maxDividerWidth = 60

// PrettyStyles are the lipgloss styles used by PrettyLogger.
type PrettyStyles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Path    lipgloss.Style
}

func DefaultPrettyStyles() PrettyStyles {
	return PrettyStyles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Italic(true),
	}
}

// PrettyLogger writes human-oriented command results. Unlike component
// loggers it is never suppressed, so it carries the output a user asked for.
type PrettyLogger struct {
	w      io.Writer
	styles PrettyStyles
}

func NewPrettyLogger() *PrettyLogger {
	return &PrettyLogger{w: os.Stderr, styles: DefaultPrettyStyles()}
}

func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.w = w
	return p
}

func (p *PrettyLogger) Success(message string) {
	fmt.Fprintln(p.w, p.styles.Success.Render("✓ "+message))
}

func (p *PrettyLogger) Warn(message string) {
	fmt.Fprintln(p.w, p.styles.Warning.Render("⚠ "+message))
}

// Error prints message, followed by err when it is non-nil.
func (p *PrettyLogger) Error(message string, err error) {
	if err != nil {
		message += ": " + err.Error()
	}
	fmt.Fprintln(p.w, p.styles.Error.Render("✗ "+message))
}

func (p *PrettyLogger) Field(key string, value interface{}) {
	fmt.Fprintf(p.w, "%s: %s\n", p.styles.Key.Render(key), p.styles.Value.Render(fmt.Sprint(value)))
}

func (p *PrettyLogger) Path(label, path string) {
	fmt.Fprintf(p.w, "%s: %s\n", p.styles.Key.Render(label), p.styles.Path.Render(path))
}

// Divider draws a rule no wider than the terminal it writes to.
func (p *PrettyLogger) Divider() {
	width := maxDividerWidth
	if f, ok := p.w.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && w < width {
			width = w
		}
	}
	fmt.Fprintln(p.w, p.styles.Key.Render(strings.Repeat("─", width)))
}
