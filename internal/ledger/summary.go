package ledger

import (
	"cmp"
	"slices"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

// BestSeller is the item with the most units sold in paid transactions.
type BestSeller struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity_sold"`
}

// Summary is the revenue report over a set of transactions.
type Summary struct {
	Revenue          decimal.Decimal      `json:"total_revenue"`
	TransactionCount int                  `json:"total_transactions"`
	PaidCount        int                  `json:"paid_transactions"`
	Pending          []domain.Transaction `json:"pending_transactions"`
	BestSeller       BestSeller           `json:"best_seller"`
}

// Summarize builds a Summary. Best seller ties go to the alphabetically
// first name; with no paid sales BestSeller is empty.
func Summarize(txs []domain.Transaction) Summary {
	s := Summary{
		Revenue:          decimal.Zero,
		TransactionCount: len(txs),
		Pending:          []domain.Transaction{},
	}

	sold := make(map[string]*BestSeller)
	for _, tx := range txs {
		if !tx.Status.IsPaid() {
			s.Pending = append(s.Pending, tx.Clone())
			continue
		}
		s.PaidCount++
		s.Revenue = s.Revenue.Add(tx.Total)
		for _, line := range tx.Items {
			if b, ok := sold[line.Key]; ok {
				b.Quantity += line.Quantity
				continue
			}
			sold[line.Key] = &BestSeller{Name: line.Name, Quantity: line.Quantity}
		}
	}

	ranked := make([]BestSeller, 0, len(sold))
	for _, b := range sold {
		ranked = append(ranked, *b)
	}
	slices.SortFunc(ranked, func(a, b BestSeller) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(ranked) > 0 {
		s.BestSeller = ranked[0]
	}
	return s
}

// Summary reports over the whole ledger.
func (l *Ledger) Summary() Summary {
	return Summarize(l.txs)
}
