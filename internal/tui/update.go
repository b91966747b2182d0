package tui

import (
	"strconv"
	"strings"

	"fdscan/internal/procfs"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgScanReady carries a finished scan.
type MsgScanReady struct {
	Result *procfs.Result
}

// MsgError indicates the scan failed.
type MsgError error

// Init starts the scan.
func (m AppModel) Init() tea.Cmd {
	return InitScanCmd(m.Scanner)
}

// InitScanCmd runs the scan in the background.
func InitScanCmd(s *procfs.Scanner) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Run()
		if err != nil {
			return MsgError(err)
		}
		return MsgScanReady{Result: res}
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 4 // minus footer/header
		return m, nil

	case MsgScanReady:
		m.Loading = false
		m.Records = msg.Result.Records.Records()
		m.Offenders = msg.Result.Offenders.Records()
		m.Stats = msg.Result.Stats
		m.applyFilter()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.applyFilter()
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.applyFilter()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.ShowHelp {
				m.ShowHelp = false
				return m, nil
			}
			if m.FilterActive {
				m.InputBuffer.SetValue("")
				m.applyFilter()
				return m, nil
			}
			if m.ShowOffenders {
				m.ShowOffenders = false
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
			}
		case "pgup":
			m.SelectedIdx -= 10
			if m.SelectedIdx < 0 {
				m.SelectedIdx = 0
			}
		case "pgdown":
			m.SelectedIdx += 10
			if m.SelectedIdx > len(m.FilteredIndices)-1 {
				m.SelectedIdx = max(len(m.FilteredIndices)-1, 0)
			}
		case "home", "g":
			m.SelectedIdx = 0
		case "end", "G":
			m.SelectedIdx = max(len(m.FilteredIndices)-1, 0)
		case "o":
			m.ShowOffenders = !m.ShowOffenders
		case "?":
			m.ShowHelp = !m.ShowHelp
		case "r":
			m.Loading = true
			return m, InitScanCmd(m.Scanner)
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// applyFilter rebuilds FilteredIndices from the filter text. A term matches
// a record's name, or its pid when the term is numeric.
func (m *AppModel) applyFilter() {
	term := strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))
	m.FilterActive = term != ""
	pid, numeric := -1, false
	if n, err := strconv.Atoi(term); err == nil {
		pid, numeric = n, true
	}

	filtered := make([]int, 0, len(m.Records))
	for i, r := range m.Records {
		if !m.FilterActive ||
			strings.Contains(strings.ToLower(r.Name), term) ||
			(numeric && r.PID == pid) {
			filtered = append(filtered, i)
		}
	}
	m.FilteredIndices = filtered

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}
