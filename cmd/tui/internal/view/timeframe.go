package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Period is a predefined or custom range of transaction dates. Dividends and
// fees are usually reviewed per year, so years are offered alongside months.
type Period int

const (
	PeriodThisMonth Period = iota
	PeriodLastMonth
	PeriodThisYear
	PeriodLastYear
	PeriodAll
	PeriodCustom
)

func (p Period) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodThisYear:
		return "This Year"
	case PeriodLastYear:
		return "Last Year"
	case PeriodAll:
		return "All Time"
	case PeriodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the first and last day covered by p relative to now. The
// result is meaningless for PeriodAll and PeriodCustom.
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	y, mo, _ := now.Date()

	var start, end time.Time

	switch p {
	case PeriodThisMonth:
		start = time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case PeriodLastMonth:
		start = time.Date(y, mo-1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case PeriodThisYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	case PeriodLastYear:
		start = time.Date(y-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(y-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	return start, end
}

// PeriodSelectedMsg is emitted once the user picked a range.
// Start and End are zero values when All is true.
type PeriodSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

type PeriodPicker struct {
	state    periodState
	selected Period

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	now func() time.Time
	err error
}

func NewPeriodPicker() PeriodPicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "From: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "To:   "

	return PeriodPicker{
		selected:   PeriodThisMonth,
		startInput: si,
		endInput:   ei,
		now:        time.Now,
	}
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.state == periodStateSelect {
			return m.updateSelect(key)
		}

		return m.updateCustom(key)
	}

	if m.state == periodStateCustom {
		var c1, c2 tea.Cmd

		m.startInput, c1 = m.startInput.Update(msg)
		m.endInput, c2 = m.endInput.Update(msg)

		return m, tea.Batch(c1, c2)
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PeriodThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		switch m.selected {
		case PeriodCustom:
			m.state = periodStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		case PeriodAll:
			return m, func() tea.Msg { return PeriodSelectedMsg{All: true} }
		}

		start, end := m.selected.Range(m.now())

		return m, func() tea.Msg { return PeriodSelectedMsg{Start: start, End: end} }
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = 1 - m.focusIndex
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink

	case "enter":
		start, err := time.Parse("2006-01-02", m.startInput.Value())
		if err != nil {
			m.err = errors.New("invalid start date (YYYY-MM-DD)")
			return m, nil
		}

		end, err := time.Parse("2006-01-02", m.endInput.Value())
		if err != nil {
			m.err = errors.New("invalid end date (YYYY-MM-DD)")
			return m, nil
		}

		if end.Before(start) {
			m.err = errors.New("end date is before start date")
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg { return PeriodSelectedMsg{Start: start, End: end} }

	case "esc":
		m.state = periodStateSelect
		m.err = nil

		return m, nil
	}

	var c1, c2 tea.Cmd

	m.startInput, c1 = m.startInput.Update(msg)
	m.endInput, c2 = m.endInput.Update(msg)

	return m, tea.Batch(c1, c2)
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	s := "Select Period:\n\n"

	for p := PeriodThisMonth; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, p)
	}

	return s + "\n(Enter to select, Esc to back)" + errStr
}

// IsSelecting reports whether the picker shows the preset list rather than
// the custom range inputs.
func (m PeriodPicker) IsSelecting() bool {
	return m.state == periodStateSelect
}
