package cart

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
)

type fakeBackend struct {
	mu       sync.Mutex
	variants map[int64]*backend.Variant
	products map[int64]*backend.Product
	server   []backend.CartLine
	added    []backend.CartLine
	removed  []int64
	mergeErr error
	merged   [][]backend.MergeItem
	updErr   error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		variants: map[int64]*backend.Variant{
			10: {ID: 10, ProductID: 1, Stock: 5, Color: "đỏ", Size: "42"},
			11: {ID: 11, ProductID: 1, Stock: 0, Color: "đen", Size: "43"},
			20: {ID: 20, ProductID: 2, Stock: 9, Color: "trắng", Size: "40"},
		},
		products: map[int64]*backend.Product{
			1: {ID: 1, Name: "Air Jordan 1", ImageURL: "/uploads/images/aj1.png", Price: decimal.NewFromInt(3000000), Discount: 10},
			2: {ID: 2, Name: "Ultraboost", ImageURL: "/uploads/images/ub.png", Price: decimal.NewFromInt(4000000)},
		},
	}
}

func (f *fakeBackend) Variant(_ context.Context, id int64) (*backend.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.variants[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
	}
	cp := *v
	return &cp, nil
}

func (f *fakeBackend) Product(_ context.Context, id int64) (*backend.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: http.StatusNotFound}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeBackend) Cart(context.Context) ([]backend.CartLine, error) {
	return append([]backend.CartLine(nil), f.server...), nil
}

func (f *fakeBackend) AddToCart(_ context.Context, line backend.CartLine) error {
	f.added = append(f.added, line)
	f.server = append(f.server, line)
	return nil
}

func (f *fakeBackend) UpdateCartItem(_ context.Context, variantID int64, quantity int) error {
	return f.updErr
}

func (f *fakeBackend) RemoveCartItem(_ context.Context, variantID int64) error {
	f.removed = append(f.removed, variantID)
	return nil
}

func (f *fakeBackend) MergeCart(_ context.Context, items []backend.MergeItem) ([]backend.CartLine, error) {
	f.merged = append(f.merged, items)
	if f.mergeErr != nil {
		return nil, f.mergeErr
	}
	for _, it := range items {
		f.server = append(f.server, backend.CartLine{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return f.server, nil
}

const guestID = "6f1c1a52-8a7e-4c39-9d0e-4c0f0f3e2a11"

func TestGuestAddEnrichesOnView(t *testing.T) {
	fb := newFakeBackend()
	store := NewMemoryGuestStore()
	svc := NewService(fb, store, nil)
	ctx := context.Background()
	owner := Owner{GuestCartID: guestID}

	_, err := svc.Add(ctx, owner, Item{VariantID: 10, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Add(ctx, owner, Item{VariantID: 10, Quantity: 1})
	require.NoError(t, err)

	items, err := svc.View(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Air Jordan 1", items[0].ProductName)
	assert.Equal(t, "đỏ", items[0].Color)
	assert.Equal(t, "42", items[0].Size)

	stored, err := store.Load(ctx, guestID)
	require.NoError(t, err)
	assert.Equal(t, "Air Jordan 1", stored[0].ProductName, "enriched cart is persisted")
}

func TestAddRejectsOverStock(t *testing.T) {
	svc := NewService(newFakeBackend(), NewMemoryGuestStore(), nil)

	_, err := svc.Add(context.Background(), Owner{GuestCartID: guestID}, Item{VariantID: 11, Quantity: 1})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)
	assert.Equal(t, "Số lượng vượt quá tồn kho!", ae.PublicMsg)

	_, err = svc.Add(context.Background(), Owner{GuestCartID: guestID}, Item{VariantID: 999, Quantity: 1})
	ae, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.NotFound, ae.Kind)
}

func TestLoggedInAddGoesToBackend(t *testing.T) {
	fb := newFakeBackend()
	svc := NewService(fb, NewMemoryGuestStore(), nil)

	items, err := svc.Add(context.Background(), Owner{LoggedIn: true}, Item{VariantID: 20, Quantity: 1, ProductName: "Ultraboost"})
	require.NoError(t, err)
	require.Len(t, fb.added, 1)
	assert.Equal(t, backend.Label("trắng"), fb.added[0].Color)
	require.Len(t, items, 1)
	assert.Equal(t, "40", items[0].Size)
}

func TestUpdateSurfacesBackendMessage(t *testing.T) {
	fb := newFakeBackend()
	fb.updErr = &backend.APIError{StatusCode: http.StatusBadRequest, Message: "Chỉ còn 2 sản phẩm"}
	svc := NewService(fb, NewMemoryGuestStore(), nil)

	err := svc.Update(context.Background(), Owner{LoggedIn: true}, 10, 5)
	assert.Equal(t, "Chỉ còn 2 sản phẩm", apperr.PublicMessage(err))

	assert.NoError(t, svc.Update(context.Background(), Owner{LoggedIn: true}, 10, 0), "quantities below one are ignored")
}

func TestGuestUpdateAndRemove(t *testing.T) {
	store := NewMemoryGuestStore()
	svc := NewService(newFakeBackend(), store, nil)
	ctx := context.Background()
	owner := Owner{GuestCartID: guestID}
	require.NoError(t, store.Save(ctx, guestID, []Item{{VariantID: 10, Quantity: 1}, {VariantID: 20, Quantity: 1}}))

	require.NoError(t, svc.Update(ctx, owner, 20, 4))
	require.NoError(t, svc.Remove(ctx, owner, 10))

	items, err := store.Load(ctx, guestID)
	require.NoError(t, err)
	assert.Equal(t, []int64{20}, ids(items))
	assert.Equal(t, 4, items[0].Quantity)

	n, err := svc.Count(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMergeOnLogin(t *testing.T) {
	fb := newFakeBackend()
	fb.server = []backend.CartLine{{VariantID: 20, Quantity: 1}}
	store := NewMemoryGuestStore()
	svc := NewService(fb, store, nil)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, guestID, []Item{
		{VariantID: 10, Quantity: 2, ProductName: "Air Jordan 1"},
		{VariantID: 20, Quantity: 1},
	}))

	items, err := svc.MergeOnLogin(ctx, guestID)
	require.NoError(t, err)
	require.Len(t, fb.merged, 1)
	assert.Equal(t, []backend.MergeItem{{VariantID: 10, Quantity: 2}, {VariantID: 20, Quantity: 1}}, fb.merged[0])
	assert.Len(t, items, 3)

	left, err := store.Load(ctx, guestID)
	require.NoError(t, err)
	assert.Empty(t, left, "guest cart is removed after a successful merge")
}

func TestMergeOnLoginKeepsGuestCartOnStockError(t *testing.T) {
	fb := newFakeBackend()
	fb.mergeErr = &backend.APIError{StatusCode: http.StatusBadRequest, Message: "Air Jordan 1 chỉ còn 1"}
	store := NewMemoryGuestStore()
	svc := NewService(fb, store, nil)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, guestID, []Item{{VariantID: 10, Quantity: 2}}))

	_, err := svc.MergeOnLogin(ctx, guestID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Equal(t, "Không đủ hàng tồn kho: Air Jordan 1 chỉ còn 1", err.Error())

	left, err := store.Load(ctx, guestID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestMergeOnLoginSkipsEmptyGuestCart(t *testing.T) {
	fb := newFakeBackend()
	svc := NewService(fb, NewMemoryGuestStore(), nil)

	items, err := svc.MergeOnLogin(context.Background(), guestID)
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Empty(t, fb.merged)
}

func TestRemoveVariantsLoggedIn(t *testing.T) {
	fb := newFakeBackend()
	svc := NewService(fb, NewMemoryGuestStore(), nil)

	require.NoError(t, svc.RemoveVariants(context.Background(), Owner{LoggedIn: true}, []int64{10, 20}))
	assert.Equal(t, []int64{10, 20}, fb.removed)
}
