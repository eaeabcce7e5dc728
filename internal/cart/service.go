package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
)

const (
	msgOverStock    = "Số lượng vượt quá tồn kho!"
	msgInvalidQty   = "Số lượng phải lớn hơn 0"
	msgUpdateFailed = "Không thể cập nhật số lượng."
	msgRemoveFailed = "Có lỗi xảy ra khi xóa sản phẩm."
	msgAddFailed    = "Có lỗi xảy ra khi thêm sản phẩm vào giỏ hàng."
)

// ErrInsufficientStock is matched by the error MergeOnLogin returns when the
// backend refuses the merge for lack of stock.
var ErrInsufficientStock = errors.New("insufficient stock")

// StockError carries the backend's explanation of a refused merge.
type StockError struct {
	Message string
}

func (e *StockError) Error() string {
	return "Không đủ hàng tồn kho: " + e.Message
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Backend is the part of the REST client the cart needs.
type Backend interface {
	Lookup
	Cart(ctx context.Context) ([]backend.CartLine, error)
	AddToCart(ctx context.Context, line backend.CartLine) error
	UpdateCartItem(ctx context.Context, variantID int64, quantity int) error
	RemoveCartItem(ctx context.Context, variantID int64) error
	MergeCart(ctx context.Context, items []backend.MergeItem) ([]backend.CartLine, error)
}

// Owner says whose cart an operation works on: the signed-in visitor's
// server cart, or the guest cart identified by GuestCartID.
type Owner struct {
	LoggedIn    bool
	GuestCartID string
}

type Service struct {
	backend  Backend
	guests   GuestStore
	enricher *Enricher
	logger   *zap.Logger
}

func NewService(b Backend, guests GuestStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:  b,
		guests:   guests,
		enricher: NewEnricher(b, logger),
		logger:   logger,
	}
}

// View returns the cart ready for display.
func (s *Service) View(ctx context.Context, owner Owner) ([]Item, error) {
	if owner.LoggedIn {
		lines, err := s.backend.Cart(ctx)
		if err != nil {
			return nil, apperr.FromBackend(err, "")
		}
		return s.enricher.Attributes(ctx, FromLines(lines)), nil
	}

	items, err := s.loadGuest(ctx, owner)
	if err != nil {
		return nil, err
	}
	enriched, changed := s.enricher.Details(ctx, items)
	if changed {
		if err := s.guests.Save(ctx, owner.GuestCartID, enriched); err != nil {
			s.logger.Warn("persist enriched guest cart", zap.String("cart_id", owner.GuestCartID), zap.Error(err))
		}
	}
	return enriched, nil
}

// Count returns the number of pairs in the cart without enrichment.
func (s *Service) Count(ctx context.Context, owner Owner) (int, error) {
	if owner.LoggedIn {
		lines, err := s.backend.Cart(ctx)
		if err != nil {
			return 0, apperr.FromBackend(err, "")
		}
		return Count(FromLines(lines)), nil
	}
	items, err := s.loadGuest(ctx, owner)
	if err != nil {
		return 0, err
	}
	return Count(items), nil
}

// CheckStock verifies that the variant has at least quantity pairs in stock.
func (s *Service) CheckStock(ctx context.Context, variantID int64, quantity int) (*backend.Variant, error) {
	if quantity < 1 {
		return nil, apperr.InvalidErr(msgInvalidQty, map[string]string{"quantity": msgInvalidQty})
	}
	v, err := s.backend.Variant(ctx, variantID)
	if err != nil {
		if backend.IsNotFound(err) {
			return nil, apperr.NotFoundErr("Không tìm thấy sản phẩm")
		}
		return nil, apperr.FromBackend(err, "")
	}
	if v.Stock < quantity {
		return nil, apperr.InvalidErr(msgOverStock, map[string]string{"quantity": msgOverStock})
	}
	return v, nil
}

// Add puts item into the owner's cart after a stock check.
func (s *Service) Add(ctx context.Context, owner Owner, item Item) ([]Item, error) {
	v, err := s.CheckStock(ctx, item.VariantID, item.Quantity)
	if err != nil {
		return nil, err
	}
	if item.Color == "" {
		item.Color = v.Color.String()
	}
	if item.Size == "" {
		item.Size = v.Size.String()
	}

	if owner.LoggedIn {
		if err := s.backend.AddToCart(ctx, item.Line()); err != nil {
			return nil, apperr.FromBackend(err, msgAddFailed)
		}
		return s.View(ctx, owner)
	}

	items, err := s.loadGuest(ctx, owner)
	if err != nil {
		return nil, err
	}
	items = Add(items, item)
	if err := s.guests.Save(ctx, owner.GuestCartID, items); err != nil {
		return nil, apperr.Wrap(err)
	}
	return items, nil
}

// Update sets the quantity of one line. Quantities below 1 leave the cart unchanged.
func (s *Service) Update(ctx context.Context, owner Owner, variantID int64, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if owner.LoggedIn {
		if err := s.backend.UpdateCartItem(ctx, variantID, quantity); err != nil {
			return apperr.FromBackend(err, msgUpdateFailed)
		}
		return nil
	}

	items, err := s.loadGuest(ctx, owner)
	if err != nil {
		return err
	}
	if err := s.guests.Save(ctx, owner.GuestCartID, SetQuantity(items, variantID, quantity)); err != nil {
		return apperr.Wrap(err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, owner Owner, variantID int64) error {
	return s.RemoveVariants(ctx, owner, []int64{variantID})
}

// RemoveVariants drops the listed lines, e.g. after they were ordered.
func (s *Service) RemoveVariants(ctx context.Context, owner Owner, variantIDs []int64) error {
	if len(variantIDs) == 0 {
		return nil
	}
	if owner.LoggedIn {
		for _, id := range variantIDs {
			err := s.backend.RemoveCartItem(ctx, id)
			if err != nil && !backend.IsNotFound(err) {
				return apperr.FromBackend(err, msgRemoveFailed)
			}
		}
		return nil
	}

	items, err := s.loadGuest(ctx, owner)
	if err != nil {
		return err
	}
	if err := s.guests.Save(ctx, owner.GuestCartID, Without(items, variantIDs)); err != nil {
		return apperr.Wrap(err)
	}
	return nil
}

// MergeOnLogin moves the guest cart into the freshly signed-in visitor's
// server cart. The guest cart is only deleted once the backend accepted it;
// a stock refusal is returned as *StockError.
func (s *Service) MergeOnLogin(ctx context.Context, guestCartID string) ([]Item, error) {
	if guestCartID == "" {
		return nil, nil
	}
	items, err := s.guests.Load(ctx, guestCartID)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	payload := MergePayload(items)
	if len(payload) == 0 {
		return nil, nil
	}

	lines, err := s.backend.MergeCart(ctx, payload)
	if err != nil {
		if backend.StatusCode(err) == http.StatusBadRequest {
			var apiErr *backend.APIError
			errors.As(err, &apiErr)
			return nil, &StockError{Message: apiErr.Message}
		}
		return nil, fmt.Errorf("merge guest cart %s: %w", guestCartID, err)
	}

	if err := s.guests.Delete(ctx, guestCartID); err != nil {
		s.logger.Warn("delete merged guest cart", zap.String("cart_id", guestCartID), zap.Error(err))
	}
	s.logger.Info("guest cart merged", zap.String("cart_id", guestCartID), zap.Int("lines", len(payload)))
	return FromLines(lines), nil
}

func (s *Service) loadGuest(ctx context.Context, owner Owner) ([]Item, error) {
	if owner.GuestCartID == "" {
		return []Item{}, nil
	}
	items, err := s.guests.Load(ctx, owner.GuestCartID)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return items, nil
}
