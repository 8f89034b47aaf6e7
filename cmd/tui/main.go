package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/coopledger/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/coopledger/internal/benefit"
	benefitStore "github.com/MrJamesThe3rd/coopledger/internal/benefit/store"
	"github.com/MrJamesThe3rd/coopledger/internal/config"
	"github.com/MrJamesThe3rd/coopledger/internal/database"
	"github.com/MrJamesThe3rd/coopledger/internal/dividend"
	dividendStore "github.com/MrJamesThe3rd/coopledger/internal/dividend/store"
	"github.com/MrJamesThe3rd/coopledger/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/coopledger/internal/ledger/store"
	"github.com/MrJamesThe3rd/coopledger/internal/logging"
	"github.com/MrJamesThe3rd/coopledger/internal/member"
	memberStore "github.com/MrJamesThe3rd/coopledger/internal/member/store"
	"github.com/MrJamesThe3rd/coopledger/internal/viewcache"
	"github.com/MrJamesThe3rd/coopledger/internal/views"
)

type model struct {
	memberService   *member.Service
	ledgerService   *ledger.Service
	benefitService  *benefit.Service
	dividendService *dividend.Service

	// current is nil while the menu is shown.
	current view.View
	size    tea.WindowSizeMsg
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to bubbletea; only warnings go to stderr.
	slog.SetDefault(logging.New(os.Stderr, "warn", cfg.Log.Format))

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Views cached by the API in Redis go stale when the TUI writes.
	notifier := views.Nop

	if cfg.Redis.Addr != "" {
		ctx, cancel := view.DbCtx()
		defer cancel()

		cache, err := viewcache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			slog.Warn("view cache unavailable, API views may be stale", "error", err)
		} else {
			notifier = viewcache.NewInvalidator(cache)
		}
	}

	// The TUI shares the database with the API, so ledger writes take the
	// same advisory lock regardless of LEDGER_LOCK.
	locker := ledgerStore.NewAdvisoryLocker(db)
	ledgerSvc := ledger.NewService(ledgerStore.New(db), locker, notifier)

	return model{
		memberService:   member.NewService(memberStore.New(db), notifier),
		ledgerService:   ledgerSvc,
		benefitService:  benefit.NewService(benefitStore.New(db), notifier),
		dividendService: dividend.NewService(dividendStore.New(db)),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) open(v view.View) (tea.Model, tea.Cmd) {
	m.current = v

	cmd := v.Init()
	if m.size.Width > 0 {
		next, sizeCmd := v.Update(m.size)
		m.current = next.(view.View)
		cmd = tea.Batch(cmd, sizeCmd)
	}

	return m, cmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case view.BackMsg:
		m.current = nil
		return m, nil
	case view.OpenStatementMsg:
		return m.open(view.NewStatementModel(m.ledgerService, msg.MemberID, msg.Label))
	case view.OpenRecordMsg:
		return m.open(view.NewRecordModel(m.ledgerService, msg.MemberID))
	case tea.KeyMsg:
		if m.current == nil {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				return m.open(view.NewMembersModel(m.memberService))
			case "2":
				return m.open(view.NewRecordModel(m.ledgerService, 0))
			case "3":
				return m.open(view.NewTransactionsModel(m.ledgerService))
			case "4":
				return m.open(view.NewClaimModel(m.benefitService))
			case "5":
				return m.open(view.NewDividendModel(m.dividendService))
			}
		} else if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	m.current = next.(view.View)

	return m, cmd
}

var helpStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(1)

func (m model) View() string {
	if m.current == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			"CoopLedger\n\n" +
				"1. Members\n" +
				"2. Record Transaction\n" +
				"3. Transactions\n" +
				"4. Benefit Claims\n" +
				"5. Dividends\n\n" +
				"q. Quit",
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(m.current.Title()),
		m.current.View(),
		helpStyle.Render(m.current.ShortHelp()),
	)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
