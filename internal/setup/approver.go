package setup

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/vadiminshakov/duster/internal/domain"
)

// Approver asks the user to confirm each batch of orders before it is sent.
type Approver struct {
	// confirm replaced in tests.
	confirm func(ctx context.Context, title, description string) (bool, error)
}

// NewApprover creates an Approver prompting on the terminal.
func NewApprover() *Approver {
	return &Approver{confirm: promptConfirm}
}

// Approve lists orders and waits for a yes/no answer.
func (a *Approver) Approve(ctx context.Context, orders []domain.Order) (bool, error) {
	if len(orders) == 0 {
		return true, nil
	}
	title := fmt.Sprintf("Execute %d order(s)?", len(orders))
	return a.confirm(ctx, title, describeOrders(orders))
}

func describeOrders(orders []domain.Order) string {
	lines := make([]string, len(orders))
	for i, o := range orders {
		lines[i] = fmt.Sprintf("%-4s %-12s %s", o.Side(), o.TradingSymbol, o.Amount.Abs().String())
	}
	return strings.Join(lines, "\n")
}

func promptConfirm(ctx context.Context, title, description string) (bool, error) {
	var ok bool

	fmt.Println(stepStyle.Render("ORDERS"))
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Render(description))

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes, execute").
				Negative("No, skip").
				Value(&ok),
		),
	).RunWithContext(ctx)
	if err != nil {
		return false, err
	}
	return ok, nil
}
