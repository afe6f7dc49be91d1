package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_till/internal/catalog"
	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/session"
	"github.com/shopspring/decimal"
)

// Prompter asks for one order at a time on a Terminal.
type Prompter struct {
	t *Terminal
}

var _ session.Prompter = (*Prompter)(nil)

func NewPrompter(t *Terminal) *Prompter {
	return &Prompter{t: t}
}

func (p *Prompter) ItemSelection(ctx context.Context, view catalog.Snapshot, lines []domain.Line) (session.Selection, error) {
	if len(lines) == 0 {
		p.t.renderMenu(view)
	}
	for {
		answer, err := p.t.ask(ctx, "\tEnter product name to order ('done' to finish, 'cancel' to abandon): ")
		if err != nil {
			return session.Selection{}, err
		}
		switch {
		case answer == "":
			continue
		case isWord(answer, wordDone):
			if len(lines) > 0 {
				p.t.renderOrder(lines)
			}
			return session.Finish(), nil
		case isWord(answer, wordCancel):
			return session.Cancel(), nil
		default:
			return session.Continue(answer), nil
		}
	}
}

func (p *Prompter) Quantity(ctx context.Context, item domain.Item, max int) (int, error) {
	prompt := fmt.Sprintf("\tEnter quantity for %s (Max: %d): ", item.Name, max)
	return p.t.askInt(ctx, prompt, func(n int) string {
		switch {
		case n <= 0:
			return "Quantity must be positive."
		case n > max:
			return fmt.Sprintf("\tInsufficient stock! Only %d of %s available.", max, item.Name)
		}
		return ""
	})
}

func (p *Prompter) CustomerName(ctx context.Context) (string, error) {
	return p.t.ask(ctx, "\tCustomer name (blank for "+domain.DefaultCustomer+"): ")
}

func (p *Prompter) PaymentMethod(ctx context.Context, total decimal.Decimal) (domain.PaymentMethod, error) {
	p.t.println("\n--- PAYMENT METHOD ---")
	for {
		answer, err := p.t.ask(ctx, fmt.Sprintf("Choose payment method for %s (1: Cash, 2: GCash): ", p.t.money(total)))
		if err != nil {
			return "", err
		}
		switch {
		case answer == "1" || isWord(answer, "cash"):
			return domain.PaymentCash, nil
		case answer == "2" || isWord(answer, "gcash"):
			return domain.PaymentGCash, nil
		case isWord(answer, wordCancel):
			return "", domain.ErrCancelled
		}
		p.t.println("Invalid selection. Please choose '1' or '2'.")
	}
}

func (p *Prompter) CashTendered(ctx context.Context, total decimal.Decimal) (decimal.Decimal, error) {
	prompt := fmt.Sprintf("Enter CASH TENDERED for %s: %s", p.t.money(total), p.t.shop.CurrencySymbol)
	return p.t.askDecimal(ctx, prompt, func(d decimal.Decimal) string {
		if d.IsNegative() {
			return "Amount cannot be negative."
		}
		return ""
	})
}

func (p *Prompter) GCashConfirmation(ctx context.Context, total decimal.Decimal) (bool, error) {
	p.t.println("\nGCash Payment Selected.")
	if p.t.shop.GCashAccount != "" {
		p.t.printf("Scan QR or send %s to %s.\n", p.t.money(total), p.t.shop.GCashAccount)
	} else {
		p.t.printf("Scan QR to send %s.\n", p.t.money(total))
	}
	return p.t.confirm(ctx, "Has the payment been received?")
}

// Rejected explains a refused input in the shop's words.
func (p *Prompter) Rejected(err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownItem):
		p.t.println("\tSorry, we don't have that. Please order from the menu.")
	case errors.Is(err, domain.ErrInsufficientStock):
		p.t.println("\tSorry, that item is OUT OF STOCK or fully reserved in this order.")
	case errors.Is(err, domain.ErrInsufficientPayment):
		p.t.println("Insufficient amount. Please enter more or pay the exact amount.")
	default:
		p.t.printf("\t%v\n", err)
	}
}
