package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sneaker_store_echo/internal/models"
	"sneaker_store_echo/internal/services"
)

// GuestStore keeps guest carts between requests. Load of an unknown cart
// returns an empty cart, not an error.
type GuestStore interface {
	Load(ctx context.Context, cartID string) ([]Item, error)
	Save(ctx context.Context, cartID string, items []Item) error
	Delete(ctx context.Context, cartID string) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// GormGuestStore persists guest carts in the application database.
type GormGuestStore struct {
	db *gorm.DB
}

func NewGormGuestStore(db *gorm.DB) *GormGuestStore {
	return &GormGuestStore{db: db}
}

func (s *GormGuestStore) Load(ctx context.Context, cartID string) ([]Item, error) {
	var rows []models.GuestCartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load guest cart %s: %w", cartID, err)
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item{
			VariantID:       r.VariantID,
			Quantity:        r.Quantity,
			ProductID:       r.ProductID,
			ProductName:     r.ProductName,
			ProductImageURL: r.ProductImageURL,
			Price:           r.Price,
			Discount:        r.Discount,
			Color:           r.Color,
			Size:            r.Size,
		})
	}
	return items, nil
}

// Save replaces the cart contents. The cart row is created on first save.
func (s *GormGuestStore) Save(ctx context.Context, cartID string, items []Item) error {
	items = Merge(nil, items)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		cart := models.GuestCart{ID: cartID, CreatedAt: now, UpdatedAt: now}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": now}),
		}).Create(&cart).Error
		if err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&models.GuestCartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		rows := make([]models.GuestCartItem, 0, len(items))
		for i, it := range items {
			rows = append(rows, models.GuestCartItem{
				CartID:          cartID,
				Position:        i,
				VariantID:       it.VariantID,
				Quantity:        it.Quantity,
				ProductID:       it.ProductID,
				ProductName:     it.ProductName,
				ProductImageURL: it.ProductImageURL,
				Price:           it.Price,
				Discount:        it.Discount,
				Color:           it.Color,
				Size:            it.Size,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("save guest cart %s: %w", cartID, err)
	}
	return nil
}

func (s *GormGuestStore) Delete(ctx context.Context, cartID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.GuestCartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", cartID).Delete(&models.GuestCart{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete guest cart %s: %w", cartID, err)
	}
	return nil
}

// PurgeOlderThan removes carts untouched since cutoff and returns how many.
func (s *GormGuestStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.GuestCart{}).Where("updated_at < ?", cutoff).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("cart_id IN ?", ids).Delete(&models.GuestCartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.GuestCart{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purge guest carts: %w", err)
	}
	return purged, nil
}

// MemoryGuestStore is the GuestStore used when no database is configured.
type MemoryGuestStore struct {
	mu    sync.Mutex
	carts map[string]memoryCart
	now   func() time.Time
}

type memoryCart struct {
	items     []Item
	updatedAt time.Time
}

func NewMemoryGuestStore() *MemoryGuestStore {
	return &MemoryGuestStore{carts: make(map[string]memoryCart), now: time.Now}
}

func (s *MemoryGuestStore) Load(_ context.Context, cartID string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return []Item{}, nil
	}
	return append([]Item(nil), c.items...), nil
}

func (s *MemoryGuestStore) Save(_ context.Context, cartID string, items []Item) error {
	if cartID == "" {
		return errors.New("save guest cart: empty cart id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cartID] = memoryCart{items: Merge(nil, items), updatedAt: s.now()}
	return nil
}

func (s *MemoryGuestStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

func (s *MemoryGuestStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.carts {
		if c.updatedAt.Before(cutoff) {
			delete(s.carts, id)
			n++
		}
	}
	return n, nil
}

// CacheGuestStore keeps guest carts in the shared cache (Redis when
// configured). Entries expire after ttl, so PurgeOlderThan has nothing to do.
type CacheGuestStore struct {
	cache services.Cache
	ttl   time.Duration
}

func NewCacheGuestStore(cache services.Cache, ttl time.Duration) *CacheGuestStore {
	return &CacheGuestStore{cache: cache, ttl: ttl}
}

func guestCartKey(cartID string) string {
	return "guest_cart:" + cartID
}

func (s *CacheGuestStore) Load(ctx context.Context, cartID string) ([]Item, error) {
	var items []Item
	err := s.cache.Get(ctx, guestCartKey(cartID), &items)
	if errors.Is(err, services.ErrCacheMiss) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load guest cart %s: %w", cartID, err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *CacheGuestStore) Save(ctx context.Context, cartID string, items []Item) error {
	if cartID == "" {
		return errors.New("save guest cart: empty cart id")
	}
	if err := s.cache.Set(ctx, guestCartKey(cartID), Merge(nil, items), s.ttl); err != nil {
		return fmt.Errorf("save guest cart %s: %w", cartID, err)
	}
	return nil
}

func (s *CacheGuestStore) Delete(ctx context.Context, cartID string) error {
	return s.cache.Delete(ctx, guestCartKey(cartID))
}

func (s *CacheGuestStore) PurgeOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}
