package session

import (
	"context"
	"fmt"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddItem adds a product to the catalog and saves it.
func (c *Controller) AddItem(ctx context.Context, name string, price decimal.Decimal, stock int) (domain.Item, error) {
	item, err := c.catalog.AddItem(name, price, stock)
	if err != nil {
		return domain.Item{}, err
	}
	c.logger.Info("item added", zap.String("item", item.Key), zap.Int("stock", item.Stock))
	return item, c.saveCatalog(ctx)
}

func (c *Controller) UpdatePrice(ctx context.Context, name string, price decimal.Decimal) error {
	if err := c.catalog.UpdatePrice(name, price); err != nil {
		return err
	}
	c.logger.Info("price updated", zap.String("item", domain.NormalizeKey(name)), zap.String("price", price.StringFixed(2)))
	return c.saveCatalog(ctx)
}

// Restock adds qty units to an item and returns the new stock level. Stock
// can only be taken out of the catalog by selling it.
func (c *Controller) Restock(ctx context.Context, name string, qty int) (int, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("%w: restock quantity must be greater than 0", domain.ErrInvalidValue)
	}
	stock, err := c.catalog.AdjustStock(name, qty)
	if err != nil {
		return 0, err
	}
	c.logger.Info("item restocked", zap.String("item", domain.NormalizeKey(name)), zap.Int("added", qty), zap.Int("stock", stock))
	return stock, c.saveCatalog(ctx)
}

// RemoveItem deletes a product. Lines already in an open order for it will
// fail at commit.
func (c *Controller) RemoveItem(ctx context.Context, name string) (domain.Item, error) {
	item, err := c.catalog.RemoveItem(name)
	if err != nil {
		return domain.Item{}, err
	}
	c.logger.Info("item removed", zap.String("item", item.Key))
	return item, c.saveCatalog(ctx)
}
