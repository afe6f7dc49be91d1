package csvstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) LoadCatalog(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.readRecords(CatalogFile, catalogHeader)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(records))
	for i, rec := range records {
		price, err := decimal.NewFromString(rec["Price"])
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: price %q", ErrMalformed, CatalogFile, i+1, rec["Price"])
		}
		stock, err := strconv.Atoi(rec["Stock"])
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: stock %q", ErrMalformed, CatalogFile, i+1, rec["Stock"])
		}
		items = append(items, domain.Item{
			Key:   domain.NormalizeKey(rec["Product"]),
			Name:  domain.CleanName(rec["Product"]),
			Price: price,
			Stock: stock,
		})
	}
	return items, nil
}

func (s *Store) SaveCatalog(ctx context.Context, items []domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Name, item.Price.String(), strconv.Itoa(item.Stock)})
	}
	return s.writeAtomic(CatalogFile, catalogHeader, rows)
}
