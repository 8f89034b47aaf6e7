package view

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/benefit"
)

// ClaimModel walks the available benefits one at a time, oldest grant last.
type ClaimModel struct {
	CommonModel
	benefitService *benefit.Service

	queue   []*benefit.Benefit
	current *benefit.Benefit

	loading    bool
	status     string
	totalCount int
	claimed    int
}

func NewClaimModel(benefitSvc *benefit.Service) ClaimModel {
	return ClaimModel{
		benefitService: benefitSvc,
		loading:        true,
	}
}

func (m ClaimModel) Title() string { return "Benefit Claims" }

func (m ClaimModel) ShortHelp() string {
	return "Enter: mark claimed | s: skip | Esc: back"
}

func (m ClaimModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ClaimModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			if m.current != nil {
				return m, m.claimCmd(m.current)
			}
		case "s":
			if m.current != nil {
				m.status = ""
				m.next()
			}
		}

	case loadBenefitsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.queue = msg.benefits
		m.totalCount = len(m.queue)
		m.next()

	case claimResultMsg:
		var already *apperr.AlreadyClaimedError

		switch {
		case errors.As(msg.err, &already):
			m.status = "Already claimed, skipped."
			if already.ClaimedAt != nil {
				m.status = fmt.Sprintf("Already claimed at %s, skipped.", already.ClaimedAt.Format("2006-01-02 15:04"))
			}
		case msg.err != nil:
			m.status = fmt.Sprintf("Error claiming: %v", msg.err)
			return m, nil
		default:
			m.claimed++
			m.status = fmt.Sprintf("Claimed %s.", msg.benefit.BenefitType)
		}

		m.next()
	}

	return m, nil
}

func (m *ClaimModel) next() {
	if len(m.queue) == 0 {
		m.current = nil
		return
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]
}

func (m ClaimModel) View() string {
	if m.loading {
		return "Loading available benefits..."
	}

	style := lipgloss.NewStyle().Padding(2)

	if m.current == nil {
		if m.totalCount == 0 {
			return style.Render("No available benefits.\n\n(Esc to back)")
		}

		return style.Render(fmt.Sprintf("%s\nDone: %d of %d claimed.\n\n(Esc to back)", m.status, m.claimed, m.totalCount))
	}

	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Benefit: %s\nMember:  %d\nAmount:  %s\nGranted: %s",
			m.current.BenefitType,
			m.current.MemberID,
			FormatAmount(m.current.Amount),
			FormatDate(m.current.CreatedAt),
		))

	status := ""
	if m.status != "" {
		status = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n\n"
	}

	return style.Render(fmt.Sprintf("%sAvailable Benefit (%d remaining)\n\n%s\n\n(Enter to mark claimed, 's' to skip, Esc to back)",
		status, len(m.queue)+1, card))
}

type loadBenefitsMsg struct {
	benefits []*benefit.Benefit
	err      error
}

func (m ClaimModel) loadCmd() tea.Cmd {
	svc := m.benefitService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		benefits, err := svc.ListAvailable(ctx)

		return loadBenefitsMsg{benefits: benefits, err: err}
	}
}

type claimResultMsg struct {
	benefit *benefit.Benefit
	err     error
}

func (m ClaimModel) claimCmd(b *benefit.Benefit) tea.Cmd {
	svc := m.benefitService
	id := b.ID.String()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		claimed, err := svc.Claim(ctx, id)

		return claimResultMsg{benefit: claimed, err: err}
	}
}
