// Package report renders scan results as plain console tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"fdscan/internal/model"
)

const (
	wideRule   = "\t=============================================\n"
	narrowRule = "\t====================================\n"
)

// Printer writes the console views to w. Headers are bold when w is a
// terminal and plain otherwise.
type Printer struct {
	w      io.Writer
	header lipgloss.Style
	styled bool
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		header: r.NewStyle().Bold(true).TabWidth(lipgloss.NoTabConversion),
		styled: r.ColorProfile() != termenv.Ascii,
	}
}

func (p *Printer) heading(line string) {
	if p.styled {
		line = p.header.Render(line)
	}
	fmt.Fprintln(p.w, line)
}

func (p *Printer) rule(rule string) {
	io.WriteString(p.w, rule)
}

func name(r model.Record) string {
	return SanitizeTerminal(r.Name)
}

// Target prints the banner shown when the scan was limited to one pid.
func (p *Printer) Target(pid int) {
	fmt.Fprintf(p.w, ">>> Target PID: %d\n", pid)
}

// Composite prints index, pid, fd, name and inode for every record.
func (p *Printer) Composite(c *model.Collection) {
	p.heading("\t PID\tFD\tFilename\tInode")
	p.rule(wideRule)
	for i, r := range c.All() {
		fmt.Fprintf(p.w, " %d\t%d\t%d\t%s\t%d\n", i, r.PID, r.FD.Or(-1), name(r), r.Inode.Or(0))
	}
	p.rule(wideRule)
	fmt.Fprintln(p.w)
}

// PerProcess prints pid and fd for every record.
func (p *Printer) PerProcess(c *model.Collection) {
	p.heading("\t PID\tFD")
	p.rule("\t ============\n")
	for _, r := range c.All() {
		fmt.Fprintf(p.w, "\t %-7d%-7d\n", r.PID, r.FD.Or(-1))
	}
	p.rule("\t============\n")
	fmt.Fprintln(p.w)
}

// SystemWide prints pid, fd and name for every record.
func (p *Printer) SystemWide(c *model.Collection) {
	p.heading("\t PID\tFD\tFilename")
	p.rule(narrowRule)
	for _, r := range c.All() {
		fmt.Fprintf(p.w, "\t %d\t%d\t%s\n", r.PID, r.FD.Or(-1), name(r))
	}
	p.rule(narrowRule)
	fmt.Fprintln(p.w)
}

// Vnodes prints fd and inode for every record.
func (p *Printer) Vnodes(c *model.Collection) {
	p.heading("\t FD\tInode")
	p.rule(narrowRule)
	for _, r := range c.All() {
		fmt.Fprintf(p.w, "\t %d\t%d\n", r.FD.Or(-1), r.Inode.Or(0))
	}
	p.rule(narrowRule)
}

// Offenders prints the summary records as a comma separated "pid (count)" list.
func (p *Printer) Offenders(c *model.Collection) {
	p.heading("## Offending processes:")
	parts := make([]string, 0, c.Len())
	for _, r := range c.All() {
		parts = append(parts, fmt.Sprintf("%d (%d)", r.PID, r.Count.Or(0)))
	}
	fmt.Fprintln(p.w, strings.Join(parts, ", "))
}
