package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Palette holds the colors and styles shared by help, tables and errors.
type Palette struct {
	Blue   lipgloss.Color
	Cyan   lipgloss.Color
	Violet lipgloss.Color
	Orange lipgloss.Color
	Red    lipgloss.Color
	Muted  lipgloss.Style
	Italic lipgloss.Style
}

var DefaultPalette = &Palette{
	Blue:   lipgloss.Color("12"),
	Cyan:   lipgloss.Color("14"),
	Violet: lipgloss.Color("13"),
	Orange: lipgloss.Color("214"),
	Red:    lipgloss.Color("9"),
	Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	Italic: lipgloss.NewStyle().Italic(true),
}

// HelpExtrasFunc renders an extra section at the end of a command's help.
type HelpExtrasFunc func(w io.Writer, p *Palette)

var (
	helpExtras   = make(map[*cobra.Command]HelpExtrasFunc)
	helpExtrasMu sync.RWMutex
)

const (
	maxWidth = 60
	minWidth = 40
)

var exampleMarkers = []string{"\nExamples:\n", "\nExample:\n"}

// SetStyledHelp installs the styled help renderer on cmd.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(renderHelp)
}

// SetStyledHelpWithExtras installs the styled help renderer and registers
// extras to run after the examples.
func SetStyledHelpWithExtras(cmd *cobra.Command, extras HelpExtrasFunc) {
	helpExtrasMu.Lock()
	helpExtras[cmd] = extras
	helpExtrasMu.Unlock()
	cmd.SetHelpFunc(renderHelp)
}

// ApplyStyledHelpRecursive installs styled help on cmd and every
// subcommand. Usage output is suppressed since the ErrorHandler reports
// failures. Call it once the command tree is complete.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(renderHelp)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	switch {
	case err != nil, width < minWidth, width > maxWidth:
		return maxWidth
	default:
		return width
	}
}

// wrapText greedily wraps each paragraph of text to width columns.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if len(para) <= width {
			lines = append(lines, para)
			continue
		}
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// helpPage renders one command's help with a fixed palette and width.
type helpPage struct {
	w       io.Writer
	p       *Palette
	width   int
	section lipgloss.Style
}

func renderHelp(cmd *cobra.Command, _ []string) {
	p := DefaultPalette
	h := &helpPage{
		w:       cmd.OutOrStdout(),
		p:       p,
		width:   terminalWidth() - 2,
		section: lipgloss.NewStyle().Italic(true).Foreground(p.Orange),
	}

	description, examples := splitExamples(cmd.Long)
	if cmd.Example != "" {
		examples = cmd.Example
	}

	h.header(cmd, description)
	h.usage(cmd)
	h.commands(cmd)
	h.flags(cmd)
	h.examples(cmd, examples)

	helpExtrasMu.RLock()
	extras := helpExtras[cmd]
	helpExtrasMu.RUnlock()
	if extras != nil {
		extras(h.w, p)
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(h.w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// splitExamples separates an "Examples:" block from a long description.
func splitExamples(long string) (string, string) {
	for _, marker := range exampleMarkers {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

func (h *helpPage) lines(text string, style *lipgloss.Style) {
	for _, line := range strings.Split(wrapText(text, h.width), "\n") {
		if style != nil {
			line = style.Render(line)
		}
		fmt.Fprintln(h.w, " "+line)
	}
}

func (h *helpPage) heading(name string) {
	fmt.Fprintln(h.w, "\n "+h.section.Render(name))
}

func (h *helpPage) header(cmd *cobra.Command, description string) {
	title := lipgloss.NewStyle().Bold(true).Foreground(h.p.Orange)
	fmt.Fprintln(h.w, " "+title.Render(strings.ToUpper(cmd.CommandPath())))

	if cmd.Short != "" {
		h.lines(cmd.Short, &h.p.Italic)
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(h.w)
		h.lines(description, nil)
	}
}

func (h *helpPage) usage(cmd *cobra.Command) {
	if !cmd.Runnable() && !cmd.HasSubCommands() {
		return
	}
	h.heading("USAGE")
	if cmd.Runnable() {
		fmt.Fprintf(h.w, " %s\n", cmd.UseLine())
	}
	if cmd.HasSubCommands() {
		fmt.Fprintf(h.w, " %s [command]\n", cmd.CommandPath())
	}
}

func (h *helpPage) commands(cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	var subs []*cobra.Command
	width := 0
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			subs = append(subs, sub)
			width = max(width, len(sub.Name()))
		}
	}

	name := lipgloss.NewStyle().Bold(true).Foreground(h.p.Blue)
	h.heading("COMMANDS")
	for _, sub := range subs {
		pad := strings.Repeat(" ", width-len(sub.Name()))
		fmt.Fprintf(h.w, " %s%s  %s\n", name.Render(sub.Name()), pad, sub.Short)
	}
}

// flags lists local flags in detail for leaf commands and as a single
// muted line for commands with subcommands.
func (h *helpPage) flags(cmd *cobra.Command) {
	var flags []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			flags = append(flags, f)
		}
	})
	if len(flags) == 0 {
		return
	}

	if cmd.HasAvailableSubCommands() {
		names := make([]string, len(flags))
		for i, f := range flags {
			names[i] = "--" + f.Name
			if f.Shorthand != "" {
				names[i] = "-" + f.Shorthand + "/" + names[i]
			}
		}
		fmt.Fprintln(h.w, "\n "+h.p.Muted.Render("Flags: "+strings.Join(names, ", ")))
		return
	}

	width := 0
	for _, f := range flags {
		width = max(width, len(flagName(f)))
	}

	violet := lipgloss.NewStyle().Foreground(h.p.Violet)
	indent := strings.Repeat(" ", width+3)
	h.heading("FLAGS")
	for _, f := range flags {
		name := flagName(f)
		usage, choices := parseChoices(f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" && f.DefValue != "0" {
			usage += h.p.Muted.Render(" (default: " + f.DefValue + ")")
		}
		fmt.Fprintf(h.w, " %s%s  %s\n", violet.Render(name), strings.Repeat(" ", width-len(name)), usage)
		for _, choice := range choices {
			fmt.Fprintf(h.w, " %s  %s\n", indent, h.p.Muted.Render("• "+choice))
		}
	}
}

// examples renders comment lines muted and colors the binary name, the
// subcommand and flags of command lines.
func (h *helpPage) examples(cmd *cobra.Command, text string) {
	if text == "" {
		return
	}
	binary := strings.Fields(cmd.CommandPath())[0]
	bin := lipgloss.NewStyle().Foreground(h.p.Cyan)
	sub := lipgloss.NewStyle().Foreground(h.p.Blue)
	flag := lipgloss.NewStyle().Foreground(h.p.Violet)

	h.heading("EXAMPLES")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			fmt.Fprintln(h.w)
		case strings.HasPrefix(line, "#"):
			fmt.Fprintln(h.w, " "+h.p.Muted.Render(line))
		default:
			words := strings.Fields(line)
			for i, word := range words {
				switch {
				case i == 0 && word == binary:
					words[i] = bin.Render(word)
				case strings.HasPrefix(word, "-"):
					words[i] = flag.Render(word)
				case i == 1:
					words[i] = sub.Render(word)
				}
			}
			fmt.Fprintln(h.w, "   "+strings.Join(words, " "))
		}
	}
}

func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}

// parseChoices splits "Output format: yaml, json, toml" into its lead-in
// and the listed choices. Lists shorter than three stay inline.
func parseChoices(usage string) (string, []string) {
	colon := strings.Index(usage, ": ")
	if colon == -1 {
		return usage, nil
	}
	rest := usage[colon+2:]
	suffix := ""
	if paren := strings.Index(rest, " ("); paren != -1 {
		rest, suffix = rest[:paren], rest[paren:]
	}

	parts := strings.Split(rest, ", ")
	if len(parts) < 3 {
		return usage, nil
	}
	for i, part := range parts {
		parts[i] = strings.TrimSpace(strings.TrimPrefix(part, "or "))
	}
	return usage[:colon+1] + suffix, parts
}
