package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/peadra/peadra/internal/ledger"
	"github.com/peadra/peadra/internal/model"
)

var (
	appNameStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1976D2")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(2)

	labelStyle = lipgloss.NewStyle().Faint(true)

	incomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	expenseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336"))
	transferStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336")).Bold(true)

	helpStyle = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(appNameStyle.Render("Peadra") + "  " + labelStyle.Render("personal finance dashboard") + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	case m.loading || m.data == nil:
		b.WriteString(labelStyle.Render("Loading…") + "\n")
	default:
		b.WriteString(m.renderCards())
		b.WriteString(m.renderMonthly())
		b.WriteString(m.renderDistribution())
		b.WriteString(m.renderRecent())
	}

	b.WriteString(helpStyle.Render("r refresh · q quit"))
	return b.String()
}

func (m Model) renderCards() string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Balance", m.data.balance),
		card("Savings", m.data.savings),
		card("Patrimony", m.data.patrimony),
	)
	return cards + "\n\n"
}

func card(label string, amount float64) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + fmt.Sprintf("€%.2f", amount))
}

func (m Model) renderMonthly() string {
	s := m.data.monthly
	line := fmt.Sprintf("%s  %s   %s  %s   %s  %s",
		labelStyle.Render("income"), incomeStyle.Render(fmt.Sprintf("+€%.2f", s.Income)),
		labelStyle.Render("expenses"), expenseStyle.Render(fmt.Sprintf("-€%.2f", s.Expenses)),
		labelStyle.Render("net"), fmt.Sprintf("€%.2f", s.Balance),
	)
	return headerStyle.Render("This month") + "\n" + line + "\n\n"
}

func (m Model) renderDistribution() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Accounts") + "\n")
	for _, acc := range m.data.distribution {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(acc.Color)).Render("●")
		b.WriteString(fmt.Sprintf("%s %-20s €%.2f\n", dot, acc.Name, acc.Balance))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRecent() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent transactions") + "\n")
	if len(m.data.entries) == 0 {
		b.WriteString(labelStyle.Render("No recent transactions") + "\n")
	}
	for _, entry := range m.data.entries {
		b.WriteString(renderEntry(entry) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func renderEntry(entry ledger.Entry) string {
	if entry.Transfer != nil {
		g := entry.Transfer
		return fmt.Sprintf("%s  %-40s %s",
			g.Date.Format(model.DateLayout),
			transferStyle.Render(g.Description),
			transferStyle.Render(fmt.Sprintf("€%.2f", g.Amount)),
		)
	}

	txn := entry.Transaction
	amount := expenseStyle.Render(fmt.Sprintf("-€%.2f", txn.Amount))
	if txn.Type == model.TypeIncome {
		amount = incomeStyle.Render(fmt.Sprintf("+€%.2f", txn.Amount))
	}
	return fmt.Sprintf("%s  %-40s %s", txn.Date.Format(model.DateLayout), txn.Description, amount)
}
