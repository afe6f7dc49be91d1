package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/session"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Shell is the till's main menu.
type Shell struct {
	c      *session.Controller
	t      *Terminal
	p      *Prompter
	logger *zap.Logger
}

func NewShell(c *session.Controller, t *Terminal, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{c: c, t: t, p: NewPrompter(t), logger: logger}
}

// Run serves the menu until the operator ends the session or closes the
// input, and returns the end-of-session report.
func (s *Shell) Run(ctx context.Context) (session.Report, error) {
	if s.t.shop.Name != "" {
		s.t.printf("Welcome to %s\n", s.t.shop.Name)
	}

	if s.c.CurrentStock().Len() == 0 {
		s.t.println("\nNo products found. Let's set up the catalog.")
		if err := s.addProducts(ctx); err != nil && !isEndOfInput(err) {
			return session.Report{}, err
		}
	}
	s.t.renderInventory(s.c.CurrentStock())

	for {
		s.t.println("\nOptions:")
		s.t.println("1. Take a New Order")
		s.t.println("2. Update Products/Stock")
		s.t.println("3. List Transactions")
		s.t.println("4. Remove a Transaction")
		s.t.println("5. End Session")

		choice, err := s.t.ask(ctx, "Choose an option (1-5): ")
		if isEndOfInput(err) {
			return s.end(ctx)
		}
		if err != nil {
			return session.Report{}, err
		}

		switch choice {
		case "1":
			err = s.takeOrder(ctx)
		case "2":
			err = s.manage(ctx)
		case "3":
			s.t.renderTransactions(s.c)
		case "4":
			err = s.removeTransaction(ctx)
		case "5":
			return s.end(ctx)
		default:
			s.t.println("Invalid choice. Please select 1-5.")
		}

		if isEndOfInput(err) {
			return s.end(ctx)
		}
		if err != nil {
			return session.Report{}, err
		}
	}
}

func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF)
}

// report shows a controller error to the operator. Only errors that end the
// shell are returned.
func (s *Shell) report(err error) error {
	switch {
	case err == nil:
		return nil
	case isEndOfInput(err), errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, domain.ErrPersistence):
		s.logger.Warn("change kept in memory only", zap.Error(err))
		s.t.printf("WARNING: the change could not be saved (%v). It stays in effect for this session.\n", err)
		return nil
	default:
		s.t.printf("%v\n", err)
		return nil
	}
}

func (s *Shell) takeOrder(ctx context.Context) error {
	s.t.println("\nTAKE CUSTOMER ORDER. TYPE 'DONE' WHEN FINISHED")
	receipt, err := s.c.TakeOrder(ctx, s.p)
	if !receipt.Placed {
		if err == nil {
			s.t.println("No items ordered.")
		}
		return s.report(err)
	}
	s.t.renderReceipt(receipt)
	return s.report(err)
}

func (s *Shell) removeTransaction(ctx context.Context) error {
	s.t.renderTransactions(s.c)
	if s.c.TransactionCount() == 0 {
		return nil
	}
	n, err := s.t.askInt(ctx, "Transaction number to remove ('cancel' to go back): ", func(n int) string {
		if n < 1 || n > s.c.TransactionCount() {
			return fmt.Sprintf("Please choose 1-%d.", s.c.TransactionCount())
		}
		return ""
	})
	if errors.Is(err, domain.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	ok, err := s.t.confirm(ctx, fmt.Sprintf("Remove transaction %d?", n))
	if err != nil || !ok {
		return err
	}

	rev, err := s.c.RemoveTransaction(ctx, n-1)
	if rev.Transaction.ID != "" {
		s.t.printf("Removed %s's transaction of %s.", rev.Transaction.Customer, s.t.money(rev.Transaction.Total))
		if !rev.RevenueDelta.IsZero() {
			s.t.printf(" Revenue adjusted by %s.", s.t.money(rev.RevenueDelta))
		}
		if len(rev.Restocked) > 0 {
			s.t.printf(" %d item(s) returned to stock.", len(rev.Restocked))
		}
		s.t.println()
	}
	return s.report(err)
}

func (s *Shell) end(ctx context.Context) (session.Report, error) {
	r, err := s.c.EndSession(context.WithoutCancel(ctx))
	s.t.renderReport(r)
	if err := s.report(err); err != nil {
		return r, err
	}
	s.t.println("Exiting POS. Goodbye!")
	return r, nil
}

func (s *Shell) manage(ctx context.Context) error {
	s.t.println("\n--- UPDATE PRODUCTS & STOCK ---")
	for {
		s.t.renderInventory(s.c.CurrentStock())
		s.t.println("\nOptions:")
		s.t.println("1. Update Price")
		s.t.println("2. Add Stock")
		s.t.println("3. Add New Product")
		s.t.println("4. Remove Product")
		s.t.println("5. Return to Main Menu")

		choice, err := s.t.ask(ctx, "Select an option (1-5): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.updatePrice(ctx)
		case "2":
			err = s.restock(ctx)
		case "3":
			err = s.addProduct(ctx)
		case "4":
			err = s.removeProduct(ctx)
		case "5":
			s.t.println("Returning to main menu...")
			return nil
		default:
			s.t.println("Invalid choice. Please choose 1-5.")
		}

		if errors.Is(err, domain.ErrCancelled) {
			continue
		}
		if err := s.report(err); err != nil {
			return err
		}
	}
}

// lookup asks for an existing product name
func (s *Shell) lookup(ctx context.Context, prompt string) (domain.Item, error) {
	name, err := s.t.ask(ctx, prompt)
	if err != nil {
		return domain.Item{}, err
	}
	item, ok := s.c.CurrentStock().Get(name)
	if !ok {
		s.t.println("Product not found.")
		return domain.Item{}, domain.ErrCancelled
	}
	return item, nil
}

func positivePrice(d decimal.Decimal) string {
	if !d.IsPositive() {
		return "Price must be positive."
	}
	return ""
}

func (s *Shell) updatePrice(ctx context.Context) error {
	item, err := s.lookup(ctx, "Enter product name to update price: ")
	if err != nil {
		return err
	}
	price, err := s.t.askDecimal(ctx, fmt.Sprintf("Enter new price for %s: %s", item.Name, s.t.shop.CurrencySymbol), positivePrice)
	if err != nil {
		return err
	}
	err = s.c.UpdatePrice(ctx, item.Key, price)
	if err == nil || errors.Is(err, domain.ErrPersistence) {
		s.t.printf("Price for %s updated to %s\n", item.Name, s.t.money(price))
	}
	return err
}

func (s *Shell) restock(ctx context.Context) error {
	item, err := s.lookup(ctx, "Enter product name to add stock: ")
	if err != nil {
		return err
	}
	qty, err := s.t.askInt(ctx, fmt.Sprintf("Enter quantity to add for %s: ", item.Name), func(n int) string {
		if n <= 0 {
			return "Quantity must be positive."
		}
		return ""
	})
	if err != nil {
		return err
	}
	stock, err := s.c.Restock(ctx, item.Key, qty)
	if err == nil || errors.Is(err, domain.ErrPersistence) {
		s.t.printf("Added %d units to %s. New stock: %d\n", qty, item.Name, stock)
	}
	return err
}

func (s *Shell) addProduct(ctx context.Context) error {
	name, err := s.t.ask(ctx, "Enter NEW PRODUCT NAME: ")
	if err != nil {
		return err
	}
	if domain.NormalizeKey(name) == "" {
		s.t.println("Product name cannot be empty.")
		return domain.ErrCancelled
	}
	if _, exists := s.c.CurrentStock().Get(name); exists {
		s.t.println("Product already exists. Use Update instead.")
		return domain.ErrCancelled
	}
	price, err := s.t.askDecimal(ctx, fmt.Sprintf("Enter price for %s: %s", name, s.t.shop.CurrencySymbol), positivePrice)
	if err != nil {
		return err
	}
	stock, err := s.t.askInt(ctx, fmt.Sprintf("Enter stock for %s: ", name), func(n int) string {
		if n < 0 {
			return "Stock quantity cannot be negative."
		}
		return ""
	})
	if err != nil {
		return err
	}

	item, err := s.c.AddItem(ctx, name, price, stock)
	if err == nil || errors.Is(err, domain.ErrPersistence) {
		s.t.printf("Added new product: %s (%s, %d in stock)\n", item.Name, s.t.money(item.Price), item.Stock)
	}
	return err
}

func (s *Shell) removeProduct(ctx context.Context) error {
	item, err := s.lookup(ctx, "Enter product name to remove: ")
	if err != nil {
		return err
	}
	ok, err := s.t.confirm(ctx, fmt.Sprintf("Are you sure you want to remove %s?", item.Name))
	if err != nil {
		return err
	}
	if !ok {
		s.t.println("Removal canceled.")
		return nil
	}
	_, err = s.c.RemoveItem(ctx, item.Key)
	if err == nil || errors.Is(err, domain.ErrPersistence) {
		s.t.printf("%s removed from the menu.\n", item.Name)
	}
	return err
}

// addProducts fills an empty catalog until the operator types done.
func (s *Shell) addProducts(ctx context.Context) error {
	s.t.println("Enter available products. Type 'done' when finished.")
	for {
		name, err := s.t.ask(ctx, "\tEnter PRODUCT NAME (or 'done' if finished): ")
		if err != nil {
			return err
		}
		if isWord(name, wordDone) {
			return nil
		}
		if domain.NormalizeKey(name) == "" {
			s.t.println("Product name cannot be empty. Try again.")
			continue
		}
		price, err := s.t.askDecimal(ctx, fmt.Sprintf("\tEnter PRICE for %s: %s", name, s.t.shop.CurrencySymbol), positivePrice)
		if errors.Is(err, domain.ErrCancelled) {
			continue
		}
		if err != nil {
			return err
		}
		stock, err := s.t.askInt(ctx, fmt.Sprintf("\tEnter initial STOCK for %s: ", name), func(n int) string {
			if n < 0 {
				return "Stock quantity cannot be negative. Try again."
			}
			return ""
		})
		if errors.Is(err, domain.ErrCancelled) {
			continue
		}
		if err != nil {
			return err
		}
		if _, err := s.c.AddItem(ctx, name, price, stock); err != nil {
			if err := s.report(err); err != nil {
				return err
			}
		}
	}
}
