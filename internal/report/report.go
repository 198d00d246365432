// Package report renders the outcome of a sweep run.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/sweeper"
	"go.uber.org/zap"
)

const (
	transferAmountPlaces = 6
	orderAmountPlaces    = 9
)

var (
	success = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	failure = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F87"}
	subtle  = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(subtle).Width(10)
	okStyle    = lipgloss.NewStyle().Foreground(success).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(failure).Bold(true)
	blockStyle = lipgloss.NewStyle().PaddingLeft(2).MarginBottom(1)
)

// Summary counts attempts by outcome.
type Summary struct {
	TransfersSucceeded int
	TransfersFailed    int
	OrdersSucceeded    int
	OrdersFailed       int
}

// Summarize counts the attempts of r.
func Summarize(r sweeper.Report) Summary {
	var s Summary
	for _, t := range r.Transfers {
		if t.Success {
			s.TransfersSucceeded++
		} else {
			s.TransfersFailed++
		}
	}
	for _, o := range r.Orders {
		if o.Success {
			s.OrdersSucceeded++
		} else {
			s.OrdersFailed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("transfers: %d ok, %d failed; orders: %d ok, %d failed",
		s.TransfersSucceeded, s.TransfersFailed, s.OrdersSucceeded, s.OrdersFailed)
}

// Render writes one block per attempt followed by a summary line.
func Render(w io.Writer, r sweeper.Report) error {
	var b strings.Builder

	for _, t := range r.Transfers {
		b.WriteString(renderTransfer(t))
		b.WriteString("\n")
	}
	for _, o := range r.Orders {
		b.WriteString(renderOrder(o))
		b.WriteString("\n")
	}
	if len(r.Transfers) == 0 && len(r.Orders) == 0 {
		b.WriteString(labelStyle.UnsetWidth().Render("Nothing to sweep."))
		b.WriteString("\n")
	}
	b.WriteString(titleStyle.Render(Summarize(r).String()))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func renderTransfer(t domain.Attempt[domain.Transfer]) string {
	in := t.Intent
	lines := []string{
		titleStyle.Render("Wallet transfer"),
		fmt.Sprintf("%s %s -> %s %s", in.WalletFrom, in.CurrencyFrom, in.WalletTo, in.CurrencyTo),
		field("Amount", in.Amount.StringFixed(transferAmountPlaces)),
		field("Result", result(t.Success, t.Result())),
		field("Message", t.Message),
	}
	return blockStyle.Render(strings.Join(lines, "\n"))
}

func renderOrder(o domain.Attempt[domain.Order]) string {
	in := o.Intent
	lines := []string{
		titleStyle.Render("Order"),
		field("Type", in.Type.String()),
		field("Symbol", in.TradingSymbol),
		field("Amount", in.Amount.StringFixed(orderAmountPlaces)),
		field("Side", in.Side().String()),
		field("Result", result(o.Success, o.Result())),
		field("Message", o.Message),
	}
	return blockStyle.Render(strings.Join(lines, "\n"))
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func result(ok bool, text string) string {
	if ok {
		return okStyle.Render(text)
	}
	return errStyle.Render(text)
}

// Log emits one structured line per attempt.
func Log(l *zap.Logger, r sweeper.Report) {
	if l == nil {
		return
	}
	l = l.With(zap.String("run_id", r.RunID))

	for _, t := range r.Transfers {
		l.Info("transfer",
			zap.Stringer("from", t.Intent.WalletFrom),
			zap.Stringer("to", t.Intent.WalletTo),
			zap.Stringer("currency", t.Intent.CurrencyFrom),
			zap.Stringer("currency_to", t.Intent.CurrencyTo),
			zap.String("amount", t.Intent.Amount.StringFixed(transferAmountPlaces)),
			zap.String("result", t.Result()),
			zap.String("message", t.Message))
	}
	for _, o := range r.Orders {
		l.Info("transaction",
			zap.String("symbol", o.Intent.TradingSymbol),
			zap.Stringer("side", o.Intent.Side()),
			zap.String("amount", o.Intent.Amount.StringFixed(orderAmountPlaces)),
			zap.String("result", o.Result()),
			zap.String("message", o.Message))
	}

	l.Info("sweep finished", zap.Stringer("summary", Summarize(r)))
}
