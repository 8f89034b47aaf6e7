package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/coopledger/internal/apperr"
	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

// recordForm holds the values bound to the huh fields.
type recordForm struct {
	MemberID    string
	Date        string
	Type        string
	Amount      string
	Description string
	ReceiptNo   string
	Year        string
	Remarks     string
}

func (f recordForm) values() validation.Values {
	return validation.Values{
		"memberId":        strings.TrimSpace(f.MemberID),
		"transactionDate": strings.TrimSpace(f.Date),
		"transactionType": f.Type,
		"amount":          strings.TrimSpace(f.Amount),
		"description":     strings.TrimSpace(f.Description),
		"receiptNo":       strings.TrimSpace(f.ReceiptNo),
		"year":            strings.TrimSpace(f.Year),
		"remarks":         strings.TrimSpace(f.Remarks),
	}
}

type RecordModel struct {
	CommonModel
	ledgerService *ledger.Service

	form   *huh.Form
	fields *recordForm

	saving bool
	result *ledger.Transaction
	err    error
}

func NewRecordModel(ledgerSvc *ledger.Service, memberID int64) RecordModel {
	fields := &recordForm{
		Date: FormatDate(time.Now()),
		Type: string(ledger.TypeDeposit),
	}

	if memberID > 0 {
		fields.MemberID = strconv.FormatInt(memberID, 10)
	}

	return RecordModel{
		ledgerService: ledgerSvc,
		form:          newRecordHuhForm(fields),
		fields:        fields,
	}
}

func notBlank(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}

		return nil
	}
}

func newRecordHuhForm(f *recordForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("memberId").
				Title("Member ID").
				Value(&f.MemberID).
				Validate(notBlank("member")),

			huh.NewSelect[string]().
				Key("transactionType").
				Title("Type").
				Options(
					huh.NewOption("Deposit (share in)", string(ledger.TypeDeposit)),
					huh.NewOption("Withdrawal (share out)", string(ledger.TypeWithdrawal)),
					huh.NewOption("Dividend (bonus in)", string(ledger.TypeDividend)),
					huh.NewOption("Fee (share out)", string(ledger.TypeFee)),
				).
				Value(&f.Type),

			huh.NewInput().
				Key("transactionDate").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(notBlank("date")),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&f.Amount).
				Validate(notBlank("amount")),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description (optional)").
				Value(&f.Description),

			huh.NewInput().
				Key("receiptNo").
				Title("Receipt No (optional)").
				Value(&f.ReceiptNo),

			huh.NewInput().
				Key("year").
				Title("Year (optional)").
				Value(&f.Year),

			huh.NewText().
				Key("remarks").
				Title("Remarks (optional)").
				Lines(2).
				Value(&f.Remarks),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m RecordModel) Title() string { return "Record Transaction" }

func (m RecordModel) ShortHelp() string {
	if m.result != nil || m.err != nil {
		return "Enter: record another | Esc: back"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m RecordModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m RecordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordResultMsg:
		m.saving = false
		m.result = msg.tx
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.result != nil || m.err != nil {
			if msg.Type == tea.KeyEnter {
				return m.restart()
			}

			return m, nil
		}
	}

	if m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.saving = true

	return m, m.saveCmd()
}

// restart keeps the member and date so several entries for one member can be
// keyed in a row.
func (m RecordModel) restart() (tea.Model, tea.Cmd) {
	fields := &recordForm{
		MemberID: m.fields.MemberID,
		Date:     m.fields.Date,
		Type:     m.fields.Type,
	}

	m.fields = fields
	m.form = newRecordHuhForm(fields)
	m.result = nil
	m.err = nil

	return m, m.form.Init()
}

func (m RecordModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch {
	case m.saving:
		return style.Render("Recording transaction...")
	case m.err != nil:
		return style.Render(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(describeError(m.err)) +
			"\n\n(Enter to try again, Esc to back)")
	case m.result != nil:
		return style.Render(receipt(m.result) + "\n\n(Enter to record another, Esc to back)")
	}

	return style.Render(m.form.View())
}

func receipt(tx *ledger.Transaction) string {
	amount := tx.AmountIn
	direction := "in"

	if tx.AmountOut.IsPositive() {
		amount = tx.AmountOut
		direction = "out"
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Recorded #%d on %s\n%s: %s %s\n\nShare: %s\nBonus: %s\nTotal: %s",
			tx.ID,
			FormatDate(tx.Date),
			tx.Description,
			FormatAmount(amount),
			direction,
			FormatAmount(tx.Balances.Share),
			FormatAmount(tx.Balances.Bonus),
			FormatAmount(tx.Balances.Total),
		))
}

// describeError turns a service error into something a clerk can act on.
func describeError(err error) string {
	var (
		verr *apperr.ValidationError
		ierr *apperr.InsufficientBalanceError
	)

	switch {
	case errors.As(err, &verr):
		lines := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			lines[i] = "- " + f.String()
		}

		return "Please fix:\n" + strings.Join(lines, "\n")
	case errors.As(err, &ierr):
		return fmt.Sprintf("Insufficient balance: %s available, %s requested",
			FormatAmount(ierr.Available), FormatAmount(ierr.Requested))
	case apperr.IsNotFound(err):
		return "Not found: " + err.Error()
	}

	return "Error: " + err.Error()
}

type recordResultMsg struct {
	tx  *ledger.Transaction
	err error
}

func (m RecordModel) saveCmd() tea.Cmd {
	svc := m.ledgerService
	raw := m.fields.values()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := svc.RecordTransaction(ctx, raw)

		return recordResultMsg{tx: tx, err: err}
	}
}
