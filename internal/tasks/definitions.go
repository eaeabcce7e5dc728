package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	LogInfo          = "log_info"
	WarmCatalogCache = "warm_catalog_cache"
	PurgeGuestCarts  = "purge_guest_carts"
)

// CatalogWarmer refills the cached category tree and home products.
type CatalogWarmer interface {
	Warm(ctx context.Context) error
}

// GuestCartPurger drops guest carts untouched since cutoff.
type GuestCartPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Deps struct {
	Catalog      CatalogWarmer
	GuestCarts   GuestCartPurger
	GuestCartTTL time.Duration
	Logger       *zap.Logger
	Now          func() time.Time
}

// DefineTasks registers every maintenance task on r. Tasks whose dependency
// is missing are left out.
func DefineTasks(r *Registry, d Deps) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	r.Register(LogInfo, logInfoTask(d.Logger))
	if d.Catalog != nil {
		r.Register(WarmCatalogCache, warmCatalogTask(d.Catalog))
	}
	if d.GuestCarts != nil && d.GuestCartTTL > 0 {
		r.Register(PurgeGuestCarts, purgeGuestCartsTask(d.GuestCarts, d.GuestCartTTL, d.Now))
	}
}
