package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/weiihann/kernbench/harness"
)

// Console prints progress lines as benchmarks run.
type Console struct {
	w io.Writer

	bold  *color.Color
	green *color.Color
	red   *color.Color
}

var _ harness.Observer = (*Console)(nil)

// NewConsole creates a Console writing to w. Color is used only when w is
// a terminal.
func NewConsole(w io.Writer) *Console {
	c := &Console{
		w:     w,
		bold:  color.New(color.Bold),
		green: color.New(color.FgGreen),
		red:   color.New(color.FgRed),
	}

	if isTerminal(w) {
		c.bold.EnableColor()
		c.green.EnableColor()
		c.red.EnableColor()
	} else {
		c.bold.DisableColor()
		c.green.DisableColor()
		c.red.DisableColor()
	}

	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Console) Trial(_, backend string, _ int, cost float64) {
	fmt.Fprintf(c.w, "@time of %s run:  [%.3f] ms\n", backend, cost)
}

func (c *Console) Backend(benchmark string, r harness.Result) {
	line := fmt.Sprintf("[%s %s]:  [%.3f] ms", benchmark, r.Backend, r.Cost)
	if r.Detail != "" {
		line += fmt.Sprintf(" (%s)", r.Detail)
	}

	c.bold.Fprintln(c.w, line)
}

func (c *Console) Image(_, _, path string) {
	fmt.Fprintf(c.w, "Wrote image file %s\n", path)
}

func (c *Console) Compared(cmp *harness.Comparison) {
	if len(cmp.Speedups) > 0 {
		c.green.Fprintln(c.w, "("+FormatSpeedups(cmp.Speedups)+")")
	}

	if len(cmp.Mismatches) == 0 {
		return
	}

	base, _ := cmp.Baseline()
	for _, m := range cmp.Mismatches {
		c.red.Fprintf(c.w, "%s output differs from %s: %s\n", m.Backend, base.Backend, m.Reason)
	}
}

// FormatSpeedups renders speedups as "<r>x speedup from <backend>" items,
// with "n/a" for ratios that could not be computed.
func FormatSpeedups(speedups []harness.Speedup) string {
	parts := make([]string, 0, len(speedups))

	for _, s := range speedups {
		ratio := "n/a"
		if s.Computable {
			ratio = fmt.Sprintf("%.2fx", s.Ratio)
		}

		parts = append(parts, fmt.Sprintf("%s speedup from %s", ratio, s.Backend))
	}

	return strings.Join(parts, ", ")
}
