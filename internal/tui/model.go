package tui

import (
	"fdscan/internal/model"
	"fdscan/internal/procfs"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Scanner   *procfs.Scanner
	Records   []model.Record
	Offenders []model.Record
	Stats     procfs.Stats
	Loading   bool
	Err       error

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// View Modes
	ShowOffenders bool
	ShowHelp      bool

	// Filter State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of Records to show
	FilterActive    bool

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state. The scan starts in Init.
func InitialModel(s *procfs.Scanner) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Filename, socket:, pipe:..."
	ti.CharLimit = 128
	ti.Width = 30

	return AppModel{
		Scanner:     s,
		Loading:     true,
		InputBuffer: ti,
		SelectedIdx: 0,
	}
}

// countFor returns how many records belong to pid.
func (m AppModel) countFor(pid int) int {
	n := 0
	for _, r := range m.Records {
		if r.PID == pid {
			n++
		}
	}
	return n
}

// isOffender reports whether pid is in the offenders list.
func (m AppModel) isOffender(pid int) bool {
	for _, r := range m.Offenders {
		if r.PID == pid {
			return true
		}
	}
	return false
}
