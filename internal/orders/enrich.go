package orders

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sneaker_store_echo/internal/backend"
)

const enrichConcurrency = 4

// Lookup resolves the variant and product behind an order line.
type Lookup interface {
	Variant(ctx context.Context, id int64) (*backend.Variant, error)
	Product(ctx context.Context, id int64) (*backend.Product, error)
}

// Line is an order item with what the detail pages show about it. Product
// is nil when the lookup failed.
type Line struct {
	backend.OrderItem
	Color   string
	Size    string
	Product *backend.Product
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Enrich looks up every item concurrently. A failed lookup leaves the line
// without colour, size or product.
func Enrich(ctx context.Context, lookup Lookup, items []backend.OrderItem, logger *zap.Logger) []Line {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]Line, len(items))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(enrichConcurrency)
	for i, it := range items {
		out[i] = Line{OrderItem: it}
		eg.Go(func() error {
			v, err := lookup.Variant(egCtx, it.VariantID)
			if err != nil {
				logger.Debug("variant lookup failed", zap.Int64("variant_id", it.VariantID), zap.Error(err))
				return nil
			}
			out[i].Color = v.Color.String()
			out[i].Size = v.Size.String()
			if v.ProductID == 0 {
				return nil
			}
			p, err := lookup.Product(egCtx, v.ProductID)
			if err != nil {
				logger.Debug("product lookup failed", zap.Int64("product_id", v.ProductID), zap.Error(err))
				return nil
			}
			out[i].Product = p
			return nil
		})
	}
	_ = eg.Wait()
	return out
}
