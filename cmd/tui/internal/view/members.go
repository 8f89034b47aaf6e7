package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/coopledger/internal/member"
)

type MembersModel struct {
	CommonModel
	memberService *member.Service

	table   table.Model
	members []*member.Member
	stats   *member.Stats

	loading bool
	err     error
}

func NewMembersModel(memberSvc *member.Service) MembersModel {
	columns := []table.Column{
		{Title: "No", Width: 8},
		{Title: "Name", Width: 28},
		{Title: "Status", Width: 10},
		{Title: "Joined", Width: 12},
		{Title: "Share", Width: 14},
		{Title: "Bonus", Width: 14},
		{Title: "Total", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return MembersModel{
		memberService: memberSvc,
		table:         t,
		loading:       true,
	}
}

func (m MembersModel) Title() string { return "Members" }

func (m MembersModel) ShortHelp() string {
	return "Esc: back | Enter: statement | n: record transaction | r: refresh"
}

func (m MembersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m MembersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadMembersMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.members = msg.members
			m.stats = msg.stats
			m.refreshTable()
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "enter":
			if mem := m.selected(); mem != nil {
				return m, func() tea.Msg {
					return OpenStatementMsg{MemberID: mem.ID, Label: mem.MemberNo + " " + mem.FullName}
				}
			}

			return m, nil
		case "n":
			if mem := m.selected(); mem != nil {
				return m, func() tea.Msg { return OpenRecordMsg{MemberID: mem.ID} }
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m MembersModel) selected() *member.Member {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.members) {
		return nil
	}

	return m.members[idx]
}

func (m MembersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading members...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to back)", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(m.statsLine()),
			tableView,
		),
	)
}

func (m MembersModel) statsLine() string {
	if m.stats == nil {
		return ""
	}

	parts := []string{fmt.Sprintf("Members: %s", activeStyle(fmt.Sprint(m.stats.Total)))}

	for _, st := range []member.Status{member.StatusActive, member.StatusResigned, member.StatusDeceased} {
		parts = append(parts, fmt.Sprintf("%s: %d", st, m.stats.ByStatus[st]))
	}

	parts = append(parts, "Holdings: "+activeStyle(FormatAmount(m.stats.TotalBalance)))

	return strings.Join(parts, " | ")
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *MembersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.members))

	for _, mem := range m.members {
		rows = append(rows, table.Row{
			mem.MemberNo,
			mem.FullName,
			string(mem.Status),
			formatOptionalDate(mem.JoinDate),
			FormatAmount(mem.Balances.Share),
			FormatAmount(mem.Balances.Bonus),
			FormatAmount(mem.Balances.Total),
		})
	}

	m.table.SetRows(rows)
}

type loadMembersMsg struct {
	members []*member.Member
	stats   *member.Stats
	err     error
}

func (m MembersModel) loadCmd() tea.Cmd {
	svc := m.memberService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		members, err := svc.List(ctx)
		if err != nil {
			return loadMembersMsg{err: err}
		}

		stats, err := svc.Stats(ctx)

		return loadMembersMsg{members: members, stats: stats, err: err}
	}
}
