package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("39")
	colorSuccess = lipgloss.Color("42")
	colorWarning = lipgloss.Color("220")
	colorError   = lipgloss.Color("196")
	colorDim     = lipgloss.Color("241")
)

type styles struct {
	header lipgloss.Style
	pass   lipgloss.Style
	fail   lipgloss.Style
	warn   lipgloss.Style
	dim    lipgloss.Style
	key    lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{header: plain, pass: plain, fail: plain, warn: plain, dim: plain, key: plain.Width(24)}
	}
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		pass:   lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
		fail:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
		warn:   lipgloss.NewStyle().Foreground(colorWarning),
		dim:    lipgloss.NewStyle().Foreground(colorDim),
		key:    lipgloss.NewStyle().Width(24),
	}
}

func (s styles) verdict(passed bool) string {
	if passed {
		return s.pass.Render("PASS")
	}
	return s.fail.Render("FAIL")
}

// counts prints a map as aligned "key  value" lines, sorted by key.
func (s styles) counts(w io.Writer, title string, m map[string]int) {
	if len(m) == 0 {
		return
	}
	fmt.Fprintln(w, s.header.Render(title))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s %d\n", s.key.Render(k), m[k])
	}
}
