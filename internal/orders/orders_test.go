package orders

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from, to Status
		expected bool
	}{
		{"confirm pending", Pending, Preparing, true},
		{"cancel pending", Pending, Cancelled, true},
		{"skip a step", Pending, Shipping, false},
		{"ship", Preparing, Shipping, true},
		{"complete", Shipping, Completed, true},
		{"cancel while shipping", Shipping, Cancelled, true},
		{"completed is terminal", Completed, Cancelled, false},
		{"cancelled is terminal", Cancelled, Pending, false},
		{"backwards", Shipping, Preparing, false},
		{"unknown", Status(9), Cancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanTransition(tt.from, tt.to))
		})
	}
}

func TestNextActionsAgreeWithTransitions(t *testing.T) {
	for _, s := range Statuses() {
		for _, a := range NextActions(s) {
			if a.To < 0 {
				assert.Equal(t, Completed, s)
				continue
			}
			assert.True(t, CanTransition(s, a.To), "%s -> %s", s.Label(), a.To.Label())
		}
	}
	assert.Empty(t, NextActions(Cancelled))
}

func TestLabelsAndCancel(t *testing.T) {
	assert.Equal(t, "Chờ xử lý", Label(0))
	assert.Equal(t, "Đã hủy", Label(4))
	assert.Equal(t, "Không xác định", Label(7))
	assert.True(t, CanCancel(Pending))
	assert.True(t, CanCancel(Preparing))
	assert.False(t, CanCancel(Shipping))

	tabs := Tabs()
	require.Len(t, tabs, 6)
	assert.Equal(t, Tab{Key: "all", Label: "Tất cả"}, tabs[0])
	assert.Equal(t, Tab{Key: "2", Label: "Đang vận chuyển"}, tabs[3])
	assert.Equal(t, "all", NormalizeTab("9"))
	assert.Equal(t, "all", NormalizeTab("x"))
	assert.Equal(t, "3", NormalizeTab("3"))
}

func order(id int64, status int, createdAt string, items ...backend.OrderItem) backend.Order {
	return backend.Order{ID: id, Status: status, CreatedAt: createdAt, Items: items}
}

func item(variantID int64, qty int, price int64) backend.OrderItem {
	return backend.OrderItem{VariantID: variantID, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func TestTotalAndFilter(t *testing.T) {
	o := order(1, 0, "", item(1, 2, 100000), item(2, 1, 50000))
	assert.True(t, decimal.NewFromInt(250000).Equal(Total(o)))
	assert.Equal(t, 3, ItemCount(o))

	list := []backend.Order{order(1, 0, ""), order(2, 4, ""), order(3, 0, "")}
	assert.Len(t, FilterByTab(list, "all"), 3)
	assert.Len(t, FilterByTab(list, "0"), 2)
	assert.Len(t, FilterByTab(list, "4"), 1)
	assert.Len(t, FilterByTab(list, "bogus"), 3)
}

func TestComputeStats(t *testing.T) {
	list := []backend.Order{
		order(1, 3, "2025-03-09T10:00:00", item(1, 2, 100000)),
		order(2, 4, "2025-03-09T11:00:00", item(1, 1, 900000)),
		order(3, 0, "2025-03-10T08:00:00", item(2, 1, 50000)),
		order(4, 1, "not a date", item(2, 1, 10000)),
	}

	st := ComputeStats(list)
	assert.Equal(t, 4, st.Orders)
	assert.True(t, decimal.NewFromInt(260000).Equal(st.Revenue), "cancelled orders are excluded: %s", st.Revenue)

	counts := map[Status]int{}
	for _, c := range st.ByStatus {
		counts[c.Status] = c.Count
	}
	assert.Equal(t, map[Status]int{Pending: 1, Preparing: 1, Shipping: 0, Completed: 1, Cancelled: 1}, counts)

	require.Len(t, st.ByDay, 2)
	assert.Equal(t, "2025-03-10", st.ByDay[0].Day)
	assert.Equal(t, "2025-03-09", st.ByDay[1].Day)
	assert.True(t, decimal.NewFromInt(200000).Equal(st.ByDay[1].Revenue))
}

type fakeBackend struct {
	mu       sync.Mutex
	orders   map[int64]*backend.Order
	updated  map[int64]int
	canceled []int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		orders: map[int64]*backend.Order{
			1: {ID: 1, Status: 0, Items: []backend.OrderItem{item(10, 1, 100000), item(99, 1, 5000)}},
			2: {ID: 2, Status: 2},
			3: {ID: 3, Status: 3},
		},
		updated: map[int64]int{},
	}
}

func (f *fakeBackend) Variant(_ context.Context, id int64) (*backend.Variant, error) {
	if id != 10 {
		return nil, &backend.APIError{StatusCode: http.StatusNotFound}
	}
	return &backend.Variant{ID: 10, ProductID: 1, Color: "đỏ", Size: "42"}, nil
}

func (f *fakeBackend) Product(_ context.Context, id int64) (*backend.Product, error) {
	return &backend.Product{ID: id, Name: "Air Jordan 1"}, nil
}

func (f *fakeBackend) Orders(context.Context) ([]backend.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []backend.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeBackend) Order(_ context.Context, id int64) (*backend.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: http.StatusNotFound}
	}
	cp := *o
	return &cp, nil
}

func (f *fakeBackend) CancelOrder(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canceled = append(f.canceled, id)
	return nil
}

func (f *fakeBackend) AdminOrders(ctx context.Context, page, size int, search string) (*backend.OrderPage, error) {
	list, _ := f.Orders(ctx)
	return &backend.OrderPage{Content: list, TotalPages: 1}, nil
}

func (f *fakeBackend) AllOrders(ctx context.Context) ([]backend.Order, error) {
	return f.Orders(ctx)
}

func (f *fakeBackend) AdminOrder(ctx context.Context, id int64) (*backend.Order, error) {
	return f.Order(ctx, id)
}

func (f *fakeBackend) UpdateOrderStatus(_ context.Context, id int64, status int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[id] = status
	return nil
}

func TestServiceDetailEnrichesLines(t *testing.T) {
	svc := NewService(newFakeBackend(), nil)

	d, err := svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, d.Lines, 2)
	assert.Equal(t, "đỏ", d.Lines[0].Color)
	require.NotNil(t, d.Lines[0].Product)
	assert.Equal(t, "Air Jordan 1", d.Lines[0].Product.Name)
	assert.Nil(t, d.Lines[1].Product, "failed lookups leave the line bare")
	assert.Equal(t, Pending, d.State())

	_, err = svc.Detail(context.Background(), 404)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.NotFound, ae.Kind)
}

func TestServiceCancel(t *testing.T) {
	fb := newFakeBackend()
	svc := NewService(fb, nil)

	require.NoError(t, svc.Cancel(context.Background(), 1))
	assert.Equal(t, []int64{1}, fb.canceled)

	err := svc.Cancel(context.Background(), 2)
	assert.Equal(t, "Đơn hàng không thể hủy ở trạng thái hiện tại", apperr.PublicMessage(err))
	assert.Equal(t, []int64{1}, fb.canceled)
}

func TestServiceUpdateStatus(t *testing.T) {
	fb := newFakeBackend()
	svc := NewService(fb, nil)
	ctx := context.Background()

	require.NoError(t, svc.UpdateStatus(ctx, 1, Preparing))
	assert.Equal(t, 1, fb.updated[1])

	err := svc.UpdateStatus(ctx, 2, Pending)
	assert.Equal(t, apperr.Invalid, mustKind(t, err))

	err = svc.UpdateStatus(ctx, 3, -1)
	assert.Equal(t, RefundMessage, apperr.PublicMessage(err))
	_, touched := fb.updated[3]
	assert.False(t, touched)
}

func TestServiceList(t *testing.T) {
	svc := NewService(newFakeBackend(), nil)

	list, err := svc.List(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(3), list[0].ID, "newest first")

	list, err = svc.List(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)
}

func mustKind(t *testing.T, err error) apperr.Kind {
	t.Helper()
	ae, ok := apperr.As(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	return ae.Kind
}
