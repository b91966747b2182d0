package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fdscan/internal/model"
	"fdscan/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	offenderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

const helpText = `fdscan keys

  ↑/k ↓/j     move
  pgup/pgdn   move 10 rows
  g/G         first / last row
  /           filter by name or pid (Enter keeps, Esc clears)
  o           toggle offenders panel
  r           rescan
  ?           toggle this help
  q           quit

Icons
  ≈ socket   | pipe   ◆ anon_inode   ¤ device   ? other
  ✗ process over the threshold`

// View renders the model.
func (m AppModel) View() string {
	if m.Loading {
		return "\n  Scanning open descriptors... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	netWidth := m.WindowSize.Width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth * 3 / 5
	rightWidth := netWidth - leftWidth

	boxHeight := m.WindowSize.Height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(m.renderList(leftWidth, interiorHeight))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.renderDetails(rightWidth, interiorHeight))

	help := "↑/↓: Navigate • /: Filter • o: Offenders • r: Rescan • ?: Help • q: Quit"
	footer := "\n\n" + help
	if m.InputMode {
		footer = fmt.Sprintf("\n\nFilter: %s", m.InputBuffer.View())
	} else if m.FilterActive {
		footer = fmt.Sprintf("\n\nFilter %q: %d of %d • Esc: Clear • %s", m.InputBuffer.Value(), len(m.FilteredIndices), len(m.Records), help)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

func (m AppModel) renderList(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Open Descriptors (%d)", len(m.Records))))
	b.WriteString("\n\n")

	// Windowing: 2 header lines
	visible := height - 2
	if visible < 1 {
		visible = 1
	}
	start, end := 0, len(m.FilteredIndices)
	if end > visible {
		if m.SelectedIdx >= visible/2 {
			start = m.SelectedIdx - visible/2
		}
		if start+visible > len(m.FilteredIndices) {
			start = len(m.FilteredIndices) - visible
		}
		end = start + visible
	}

	if len(m.FilteredIndices) == 0 {
		b.WriteString(dimStyle.Render("No descriptors."))
	}
	for i := start; i < end; i++ {
		idx := m.FilteredIndices[i]
		r := m.Records[idx]
		line := fmt.Sprintf("%5d %7d %5d %s %s", idx, r.PID, r.FD.Or(-1), r.Kind().Icon(), report.SanitizeTerminal(r.Name))
		if len(line) > width-2 && width > 5 {
			line = line[:width-5] + "..."
		}

		style := normalStyle
		switch {
		case i == m.SelectedIdx:
			style = selectedStyle
		case m.isOffender(r.PID):
			style = offenderStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m AppModel) renderDetails(width, height int) string {
	var b strings.Builder
	if m.ShowOffenders {
		b.WriteString(titleStyle.Render("Offending Processes"))
		b.WriteString("\n\n")
		threshold, ok := m.Scanner.Threshold.Get()
		if !ok {
			b.WriteString(dimStyle.Render("No threshold set. Run with --threshold=N."))
		} else {
			b.WriteString(fmt.Sprintf("Threshold: more than %d descriptors\n\n", threshold))
			if len(m.Offenders) == 0 {
				b.WriteString("None.")
			}
			for _, r := range m.Offenders {
				b.WriteString(fmt.Sprintf("%s %d (%d)\n", model.IconOffender, r.PID, r.Count.Or(0)))
			}
		}
	} else {
		b.WriteString(titleStyle.Render("Details"))
		b.WriteString("\n\n")
		if len(m.FilteredIndices) > 0 && m.SelectedIdx < len(m.FilteredIndices) {
			idx := m.FilteredIndices[m.SelectedIdx]
			r := m.Records[idx]
			b.WriteString(fmt.Sprintf("Index:      %d\n", idx))
			b.WriteString(fmt.Sprintf("PID:        %d\n", r.PID))
			b.WriteString(fmt.Sprintf("FD:         %d\n", r.FD.Or(-1)))
			b.WriteString(fmt.Sprintf("Kind:       %s %s\n", r.Kind().Icon(), r.Kind()))
			b.WriteString(fmt.Sprintf("Inode:      %d\n", r.Inode.Or(0)))
			b.WriteString(fmt.Sprintf("Target:     %s\n", report.SanitizeTerminal(r.Name)))
			b.WriteString(fmt.Sprintf("\nProcess has %d open descriptors", m.countFor(r.PID)))
			if m.isOffender(r.PID) {
				b.WriteString(offenderStyle.Render(fmt.Sprintf("\n%s over the threshold", model.IconOffender)))
			}
		} else {
			b.WriteString("No entries found.")
		}
	}

	b.WriteString(fmt.Sprintf("\n\n%s", dimStyle.Render(fmt.Sprintf(
		"Scanned %d processes, %d yours, %d descriptors",
		m.Stats.Listed, m.Stats.Admitted, m.Stats.Descriptors))))

	vp := m.DetailsViewport
	vp.Width = width
	vp.Height = height
	vp.SetContent(b.String())
	return vp.View()
}

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return helpText
	}

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(helpText)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}
