package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/coopledger/internal/dividend"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

type dividendState int

const (
	dividendStateForm dividendState = iota
	dividendStatePreview
)

type dividendForm struct {
	Rate string
	Date string
	Year string
}

type DividendModel struct {
	CommonModel
	dividendService *dividend.Service

	state dividendState
	form  *huh.Form

	fields *dividendForm

	busy bool
	plan *dividend.Plan
	err  error
}

func NewDividendModel(dividendSvc *dividend.Service) DividendModel {
	now := time.Now()

	fields := &dividendForm{
		Rate: "3.00",
		Date: FormatDate(now),
		Year: strconv.Itoa(now.Year() - 1),
	}

	return DividendModel{
		dividendService: dividendSvc,
		fields:          fields,
		form:            newDividendHuhForm(fields),
	}
}

func newDividendHuhForm(f *dividendForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("rate").Title("Dividend Rate (%)").Value(&f.Rate).Validate(notBlank("rate")),
			huh.NewInput().Key("year").Title("Financial Year").Value(&f.Year).Validate(notBlank("year")),
			huh.NewInput().Key("date").Title("Distribution Date").Placeholder("YYYY-MM-DD").Value(&f.Date).Validate(notBlank("date")),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (f dividendForm) values() validation.Values {
	return validation.Values{
		"rate": strings.TrimSpace(f.Rate),
		"date": strings.TrimSpace(f.Date),
		"year": strings.TrimSpace(f.Year),
	}
}

func (m DividendModel) Title() string { return "Dividends" }

func (m DividendModel) ShortHelp() string {
	if m.state == dividendStatePreview {
		return "e: edit | Esc: back"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m DividendModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m DividendModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dividendPlanMsg:
		m.busy = false
		m.plan, m.err = msg.plan, msg.err
		m.state = dividendStatePreview

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.busy {
			return m, nil
		}

		if m.state == dividendStatePreview {
			if msg.String() == "e" {
				m.state = dividendStateForm
				m.plan, m.err = nil, nil
				m.form = newDividendHuhForm(m.fields)

				return m, m.form.Init()
			}

			return m, nil
		}
	}

	if m.state != dividendStateForm || m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true

	return m, m.previewCmd()
}

func (m DividendModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.busy {
		return style.Render("Working...")
	}

	if m.err != nil {
		return style.Render(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(describeError(m.err)) + "\n\n(e to edit, Esc to back)")
	}

	if m.state == dividendStatePreview {
		return style.Render(planView(m.plan) + "\n\n(e to edit, Esc to back)")
	}

	return style.Render(m.form.View())
}

func planView(p *dividend.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Year %s at %s%% on %s\n", p.Year, p.Rate.StringFixed(2), FormatDate(p.Date))
	fmt.Fprintf(&b, "Total share value: %s\n", FormatAmount(p.ShareBase))
	fmt.Fprintf(&b, "Total dividend:    %s\n\n", activeStyle(FormatAmount(p.Total)))

	for _, l := range p.Lines {
		fmt.Fprintf(&b, "  %-8s %-28s %14s  ->  %12s\n", l.Holder.MemberNo, l.Holder.FullName, FormatAmount(l.Holder.Share), FormatAmount(l.Amount))
	}

	if len(p.Lines) == 0 {
		b.WriteString("  Nothing to pay.\n")
	}

	if len(p.AlreadyPaid) > 0 {
		fmt.Fprintf(&b, "\n%d member(s) already hold a dividend entry for %s.", len(p.AlreadyPaid), p.Year)
	}

	if len(p.Lines) > 0 {
		fmt.Fprintf(&b, "\n\nRecord payouts as dividend transactions described %q.", p.Description)
	}

	return strings.TrimRight(b.String(), "\n")
}

type dividendPlanMsg struct {
	plan *dividend.Plan
	err  error
}

func (m DividendModel) previewCmd() tea.Cmd {
	svc := m.dividendService
	raw := m.fields.values()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		plan, err := svc.Preview(ctx, raw)

		return dividendPlanMsg{plan: plan, err: err}
	}
}
