package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sneaker_store_echo/internal/backend"
)

const enrichConcurrency = 4

// Lookup resolves variants and products for display.
type Lookup interface {
	Variant(ctx context.Context, id int64) (*backend.Variant, error)
	Product(ctx context.Context, id int64) (*backend.Product, error)
}

// Enricher fills in the details the cart pages need. A failed lookup leaves
// the affected item as it was.
type Enricher struct {
	lookup Lookup
	logger *zap.Logger
}

func NewEnricher(lookup Lookup, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{lookup: lookup, logger: logger}
}

// Attributes sets colour and size on server cart lines from their variants.
func (e *Enricher) Attributes(ctx context.Context, items []Item) []Item {
	out := append([]Item(nil), items...)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(enrichConcurrency)
	for i := range out {
		eg.Go(func() error {
			v, err := e.lookup.Variant(egCtx, out[i].VariantID)
			if err != nil {
				e.logger.Debug("variant lookup failed", zap.Int64("variant_id", out[i].VariantID), zap.Error(err))
				return nil
			}
			out[i].Color = v.Color.String()
			out[i].Size = v.Size.String()
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

// Details completes guest items that only carry a variant id and quantity.
// changed reports whether any item was filled in.
func (e *Enricher) Details(ctx context.Context, items []Item) (out []Item, changed bool) {
	out = append([]Item(nil), items...)

	var (
		mu       sync.Mutex
		products = make(map[int64]*backend.Product)
	)
	product := func(ctx context.Context, id int64) (*backend.Product, error) {
		mu.Lock()
		p, ok := products[id]
		mu.Unlock()
		if ok {
			return p, nil
		}
		p, err := e.lookup.Product(ctx, id)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		products[id] = p
		mu.Unlock()
		return p, nil
	}

	filled := make([]bool, len(out))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(enrichConcurrency)
	for i := range out {
		if out[i].Enriched() {
			continue
		}
		eg.Go(func() error {
			v, err := e.lookup.Variant(egCtx, out[i].VariantID)
			if err != nil {
				e.logger.Debug("variant lookup failed", zap.Int64("variant_id", out[i].VariantID), zap.Error(err))
				return nil
			}
			p, err := product(egCtx, v.ProductID)
			if err != nil {
				e.logger.Debug("product lookup failed", zap.Int64("product_id", v.ProductID), zap.Error(err))
				return nil
			}
			out[i].ProductID = p.ID
			out[i].ProductName = p.Name
			out[i].ProductImageURL = p.ImageURL
			out[i].Price = p.Price
			out[i].Discount = p.Discount
			if out[i].Color == "" {
				out[i].Color = v.Color.String()
			}
			if out[i].Size == "" {
				out[i].Size = v.Size.String()
			}
			filled[i] = true
			return nil
		})
	}
	_ = eg.Wait()

	for _, f := range filled {
		if f {
			return out, true
		}
	}
	return out, false
}
