package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
)

type txState int

const (
	txStatePeriod txState = iota
	txStateList
)

// txItem wraps a ledger entry to implement list.Item.
type txItem struct {
	tx *ledger.Transaction
}

func (i txItem) Title() string {
	movement := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("+" + FormatAmount(i.tx.AmountIn))
	if i.tx.AmountOut.IsPositive() {
		movement = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("-" + FormatAmount(i.tx.AmountOut))
	}

	return fmt.Sprintf("%s  %-14s  %s", FormatDate(i.tx.Date), movement, i.tx.Description)
}

func (i txItem) Description() string {
	who := ""
	if i.tx.Member != nil {
		who = i.tx.Member.MemberNo + " " + i.tx.Member.FullName + "  |  "
	}

	s := fmt.Sprintf("%sShare %s  Bonus %s  Total %s",
		who,
		FormatAmount(i.tx.Balances.Share),
		FormatAmount(i.tx.Balances.Bonus),
		FormatAmount(i.tx.Balances.Total),
	)

	if i.tx.ReceiptNo != "" {
		s += "  |  Receipt " + i.tx.ReceiptNo
	}

	return s
}

func (i txItem) FilterValue() string {
	if i.tx.Member != nil {
		return i.tx.Description + " " + i.tx.Member.MemberNo + " " + i.tx.Member.FullName
	}

	return i.tx.Description
}

// TransactionsModel browses ledger entries, either across all members for a
// period or as a single member's statement.
type TransactionsModel struct {
	CommonModel
	ledgerService *ledger.Service

	state  txState
	picker PeriodPicker
	list   list.Model

	filter  ledger.ListFilter
	loading bool
	status  string
}

func newTxList(title string) list.Model {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return l
}

func NewTransactionsModel(ledgerSvc *ledger.Service) TransactionsModel {
	return TransactionsModel{
		ledgerService: ledgerSvc,
		picker:        NewPeriodPicker(),
		list:          newTxList("Transactions"),
	}
}

// NewStatementModel shows every entry of one member in chronological order.
func NewStatementModel(ledgerSvc *ledger.Service, memberID int64, label string) TransactionsModel {
	return TransactionsModel{
		ledgerService: ledgerSvc,
		state:         txStateList,
		picker:        NewPeriodPicker(),
		list:          newTxList("Statement: " + label),
		filter:        ledger.ListFilter{MemberID: &memberID},
		loading:       true,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == txStatePeriod {
		return "Esc: back | Enter: select"
	}

	return "Esc: back | /: filter"
}

func (m TransactionsModel) Init() tea.Cmd {
	if m.state == txStateList {
		return m.loadCmd()
	}

	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.filter.StartDate, m.filter.EndDate = nil, nil

		if !msg.All {
			start, end := msg.Start, msg.End
			m.filter.StartDate = &start
			m.filter.EndDate = &end
		}

		m.loading = true
		m.state = txStateList

		return m, m.loadCmd()

	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.txs))
		for i, tx := range msg.txs {
			items[i] = txItem{tx: tx}
		}

		m.list.SetItems(items)

		m.status = ""
		if len(msg.txs) == 0 {
			m.status = "No transactions found."
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	if m.state == txStatePeriod {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.list.FilterState() != list.Filtering {
		return m, Back
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) View() string {
	if m.state == txStatePeriod {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	statusLine := ""
	if m.status != "" {
		statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
}

type loadTxsMsg struct {
	txs []*ledger.Transaction
	err error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	svc := m.ledgerService
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if filter.MemberID != nil && filter.StartDate == nil && filter.EndDate == nil {
			txs, err := svc.Statement(ctx, *filter.MemberID)
			return loadTxsMsg{txs: txs, err: err}
		}

		txs, err := svc.List(ctx, filter)

		return loadTxsMsg{txs: txs, err: err}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
