package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// OpenStatementMsg asks the menu to show one member's statement.
type OpenStatementMsg struct {
	MemberID int64
	Label    string
}

// OpenRecordMsg asks the menu to open the record form for a member.
type OpenRecordMsg struct {
	MemberID int64
}
