package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/services"
)

const (
	TreeCacheKey     = "catalog:category_tree"
	homeCacheKey     = "catalog:home_products"
	HomeCategoryID   = 2
	HomeProductCount = 8
)

// Backend is the part of the REST client the catalog needs.
type Backend interface {
	CategoryTree(ctx context.Context) ([]backend.Category, error)
	AddCategory(ctx context.Context, name string, parentID *int64) error
	Products(ctx context.Context, q backend.ProductQuery) (*backend.ProductPage, error)
}

type Service struct {
	backend Backend
	cache   services.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

func NewService(b Backend, cache services.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: b, cache: cache, ttl: ttl, logger: logger}
}

// Tree returns the category tree, served from cache when possible.
func (s *Service) Tree(ctx context.Context) ([]backend.Category, error) {
	tree, err := services.GetOrSet(s.cache, ctx, TreeCacheKey, s.ttl, func() ([]backend.Category, error) {
		return s.backend.CategoryTree(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("load category tree: %w", err)
	}
	return tree, nil
}

// HomeProducts returns the products featured on the home page.
func (s *Service) HomeProducts(ctx context.Context) ([]backend.Product, error) {
	products, err := services.GetOrSet(s.cache, ctx, homeCacheKey, s.ttl, func() ([]backend.Product, error) {
		page, err := s.backend.Products(ctx, backend.ProductQuery{CategoryID: HomeCategoryID})
		if err != nil {
			return nil, err
		}
		return page.Content, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load home products: %w", err)
	}
	if len(products) > HomeProductCount {
		products = products[:HomeProductCount]
	}
	return products, nil
}

// AddCategory creates a category under parentID (nil for a root) and drops
// the cached tree.
func (s *Service) AddCategory(ctx context.Context, name string, parentID *int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.InvalidErr("Tên danh mục không được để trống", map[string]string{"name": "Tên danh mục không được để trống"})
	}
	if err := s.backend.AddCategory(ctx, name, parentID); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	s.Invalidate(ctx)
	return nil
}

func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, TreeCacheKey); err != nil {
		s.logger.Warn("drop category tree cache", zap.Error(err))
	}
}

// Warm refreshes the cached tree and home products.
func (s *Service) Warm(ctx context.Context) error {
	tree, err := s.backend.CategoryTree(ctx)
	if err != nil {
		return fmt.Errorf("warm category tree: %w", err)
	}
	if err := s.cache.Set(ctx, TreeCacheKey, tree, s.ttl); err != nil {
		return fmt.Errorf("cache category tree: %w", err)
	}

	page, err := s.backend.Products(ctx, backend.ProductQuery{CategoryID: HomeCategoryID})
	if err != nil {
		return fmt.Errorf("warm home products: %w", err)
	}
	if err := s.cache.Set(ctx, homeCacheKey, page.Content, s.ttl); err != nil {
		return fmt.Errorf("cache home products: %w", err)
	}

	s.logger.Info("catalog cache warmed", zap.Int("roots", len(tree)), zap.Int("home_products", len(page.Content)))
	return nil
}
