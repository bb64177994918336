// Package tui renders a read-only terminal dashboard over the ledger:
// headline balances, the current monthly summary, the per-account
// distribution, and the most recent transactions.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/peadra/peadra/internal/ledger"
	"github.com/peadra/peadra/internal/service"
)

const recentLimit = 10

// dashboardData is everything one refresh pulls from storage.
type dashboardData struct {
	monthly      *service.MonthlySummary
	distribution []service.AccountBalance
	entries      []ledger.Entry
	balance      float64
	savings      float64
	patrimony    float64
}

type dataMsg struct {
	data *dashboardData
	err  error
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	store   service.Storage
	ctx     context.Context
	data    *dashboardData
	err     error
	loading bool
	width   int
}

// NewModel creates a dashboard model bound to a storage backend.
func NewModel(ctx context.Context, store service.Storage) Model {
	return Model{
		store:   store,
		ctx:     ctx,
		loading: true,
	}
}

// Init starts the first data load.
func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		data, err := loadDashboard(m.ctx, m.store)
		return dataMsg{data: data, err: err}
	}
}

// Update handles key presses and refresh results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.refresh()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case dataMsg:
		m.loading = false
		m.data = msg.data
		m.err = msg.err
	}
	return m, nil
}

// loadDashboard runs every query the dashboard shows. Queries are cheap
// aggregations; they run sequentially on the single connection.
func loadDashboard(ctx context.Context, store service.Storage) (*dashboardData, error) {
	balance, err := store.GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	savings, err := store.GetSavingsTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings: %w", err)
	}
	patrimony, err := store.GetTotalPatrimony(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load patrimony: %w", err)
	}

	now := time.Now()
	monthly, err := store.GetMonthlySummary(ctx, now.Year(), now.Month())
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly summary: %w", err)
	}

	distribution, err := store.GetAccountsDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution: %w", err)
	}

	rows, err := store.GetTransactions(ctx, service.TransactionFilter{Limit: recentLimit * 2})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	entries := ledger.GroupTransfers(rows)
	if len(entries) > recentLimit {
		entries = entries[:recentLimit]
	}

	return &dashboardData{
		balance:      balance,
		savings:      savings,
		patrimony:    patrimony,
		monthly:      monthly,
		distribution: distribution,
		entries:      entries,
	}, nil
}

// Run starts the dashboard program and blocks until the user quits.
func Run(ctx context.Context, store service.Storage) error {
	p := tea.NewProgram(NewModel(ctx, store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
