package console

import (
	"fmt"
	"strings"

	"github.com/fjod/go_till/internal/catalog"
	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/session"
)

func rule(ch string, n int) string {
	return strings.Repeat(ch, n)
}

func (t *Terminal) renderMenu(view catalog.Snapshot) {
	if t.shop.Name != "" {
		t.printf("\n\t\t%s\n", strings.ToUpper(t.shop.Name))
	}
	t.println("\t\t--- Available Products ---")
	for _, item := range view.Items() {
		status := fmt.Sprintf("(%d in stock)", item.Stock)
		if !item.InStock() {
			status = "(OUT OF STOCK)"
		}
		t.printf("  \t%-15s %s %s\n", item.Name, t.money(item.Price), status)
	}
	t.println("\t" + rule("-", 34))
}

func (t *Terminal) renderInventory(view catalog.Snapshot) {
	t.println("\nCurrent Products:")
	if view.Len() == 0 {
		t.println("  (none)")
		return
	}
	for _, item := range view.Items() {
		t.printf("  %-15s %-10s (%d in stock)\n", item.Name, t.money(item.Price), item.Stock)
	}
}

func (t *Terminal) renderOrder(lines []domain.Line) {
	order := domain.Order{Lines: lines}
	t.println("\n" + rule("=", 30))
	t.println("       ORDER RECEIPT")
	t.println(rule("=", 30))
	for _, line := range lines {
		t.printf("%-15s x%-3d %s\n", line.Name, line.Quantity, t.money(line.Subtotal()))
	}
	t.println(rule("-", 30))
	t.printf("%-20s %s\n", "TOTAL", t.money(order.Total()))
	t.println(rule("=", 30))
}

func (t *Terminal) renderReceipt(r session.Receipt) {
	tx := r.Transaction
	switch {
	case tx.Status == domain.StatusUnpaidPending:
		t.printf("\nPayment not confirmed. Order for %s recorded as %s (%s due).\n",
			tx.Customer, tx.Status, t.money(tx.Total))
	case tx.Method == domain.PaymentCash:
		t.println("\nTransaction Successful (Cash)")
		t.printf("CHANGE: %s\n", t.money(r.Settlement.Change))
	default:
		t.printf("\nTransaction Successful (%s)\n", tx.Method)
		t.println("No change needed.")
	}
	t.println("\n" + rule("=", 30))
	t.println("Thank you for ordering with us!")
	t.println(rule("=", 30))
}

func (t *Terminal) renderTransactions(c *session.Controller) {
	if c.TransactionCount() == 0 {
		t.println("\nNo transactions recorded.")
		return
	}
	t.println("\n--- Transactions ---")
	for i, tx := range c.Transactions() {
		t.printf("%3d. %s  %-12s %-6s %-15s %s\n",
			i+1, tx.CreatedAt.Local().Format("2006-01-02 15:04"), tx.Customer, tx.Method, tx.Status, t.money(tx.Total))
	}
}

func (t *Terminal) renderReport(r session.Report) {
	t.println("\n" + rule("=", 40))
	t.println("        END OF SESSION REPORT")
	t.println(rule("=", 40))
	t.printf("Total Revenue from all orders: %s\n", t.money(r.Revenue))
	t.printf("Transactions: %d (%d paid)\n", r.TransactionCount, r.PaidCount)
	if r.BestSeller.Quantity > 0 {
		t.printf("Best seller: %s (%d sold)\n", r.BestSeller.Name, r.BestSeller.Quantity)
	}
	t.println("\n--- Remaining Inventory ---")
	for _, item := range r.Stock {
		t.printf("  %-15s: %d units\n", item.Name, item.Stock)
	}
	if len(r.Pending) > 0 {
		t.println("\n--- Awaiting Payment ---")
		for _, tx := range r.Pending {
			t.printf("  %-15s %s (%s)\n", tx.Customer, t.money(tx.Total), tx.ID)
		}
	}
	t.println(rule("=", 40))
}
