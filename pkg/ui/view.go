package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"jupiter-swap/pkg/wallet"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.walletView()),
		panelStyle.Render(m.swapView()),
	))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("Error: " + m.err.Error()))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab/↑↓: move • ←→: change token • r: refresh • ctrl+o: connect • ctrl+x: disconnect • q: quit"))
	return b.String()
}

func (m Model) walletView() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Network: "))
	b.WriteString(valueStyle.Render(m.deps.Env))
	b.WriteString("\n")

	if pk, ok := m.deps.Adapter.PublicKey(); ok {
		b.WriteString(labelStyle.Render("Your address: "))
		b.WriteString(valueStyle.Render(pk.String()))
		return b.String()
	}

	b.WriteString(warnStyle.Render("Wallet not connected!"))
	b.WriteString("\n")
	b.WriteString(activeButtonStyle.Render("ctrl+o " + wallet.ConnectLabel))
	return b.String()
}

func (m Model) swapView() string {
	cat := m.form.Catalog()
	if !cat.Loaded() {
		return m.spin.View() + " Loading Jupiter route map..."
	}

	var b strings.Builder

	b.WriteString(m.selector(fieldInput, "From:", cat.Name(m.form.Input())))
	b.WriteString("\n")
	b.WriteString(m.selector(fieldOutput, "Output token", cat.Name(m.form.Output())))
	b.WriteString("\n")

	b.WriteString(m.label(fieldAmount, fmt.Sprintf("Input Amount (%s)", m.form.InputSymbol())))
	b.WriteString(" ")
	b.WriteString(m.amount.View())
	b.WriteString("\n")

	refresh := m.button(fieldRefresh, "Refresh rate", !m.form.Loading())
	if m.form.Loading() {
		refresh = lipgloss.JoinHorizontal(lipgloss.Center, refresh, " ", m.spin.View())
	}
	b.WriteString(refresh)
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Total routes: %d\n", len(m.form.Routes())))

	if summary, ok := m.form.Summary(); ok {
		b.WriteString(labelStyle.Render("Best route info : "))
		b.WriteString(valueStyle.Render(strings.Join(summary.Labels, " ")))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Output: "))
		b.WriteString(valueStyle.Render(summary.Output()))
		b.WriteString("\n")
	}

	swapLabel := "Swap Best Route"
	if m.form.Submitting() {
		swapLabel = "Swapping.."
	}
	b.WriteString(m.button(fieldSwap, swapLabel, !m.form.Submitting()))

	return b.String()
}

func (m Model) label(f field, text string) string {
	if m.focus == f {
		return focusedStyle.Render("> " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m Model) selector(f field, label, value string) string {
	return m.label(f, label) + " " + valueStyle.Render("‹ "+value+" ›")
}

func (m Model) button(f field, text string, enabled bool) string {
	switch {
	case !enabled:
		return disabledButtonStyle.Render(text)
	case m.focus == f:
		return activeButtonStyle.Render(text)
	default:
		return buttonStyle.Render(text)
	}
}
