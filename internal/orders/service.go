package orders

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"sneaker_store_echo/internal/apperr"
	"sneaker_store_echo/internal/backend"
)

const (
	msgNotFound      = "Không tìm thấy đơn hàng"
	msgCancelDenied  = "Đơn hàng không thể hủy ở trạng thái hiện tại"
	msgCancelFailed  = "Không thể hủy đơn hàng."
	msgBadTransition = "Không thể chuyển trạng thái đơn hàng"
	msgUpdateFailed  = "Cập nhật trạng thái thất bại!"
	msgLoadFailed    = "Không tải được danh sách đơn hàng."
)

// Backend is the part of the REST client the order pages need.
type Backend interface {
	Lookup
	Orders(ctx context.Context) ([]backend.Order, error)
	Order(ctx context.Context, id int64) (*backend.Order, error)
	CancelOrder(ctx context.Context, id int64) error
	AdminOrders(ctx context.Context, page, size int, search string) (*backend.OrderPage, error)
	AllOrders(ctx context.Context) ([]backend.Order, error)
	AdminOrder(ctx context.Context, id int64) (*backend.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status int) error
}

// Detail is an order with its enriched lines.
type Detail struct {
	backend.Order
	Lines []Line
}

func (d Detail) State() Status { return Status(d.Order.Status) }

type Service struct {
	backend Backend
	logger  *zap.Logger
}

func NewService(b Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: b, logger: logger}
}

// List returns the signed-in customer's orders, newest first, filtered by tab.
func (s *Service) List(ctx context.Context, tab string) ([]backend.Order, error) {
	list, err := s.backend.Orders(ctx)
	if err != nil {
		return nil, apperr.FromBackend(err, msgLoadFailed)
	}
	sortNewestFirst(list)
	return FilterByTab(list, tab), nil
}

func (s *Service) Detail(ctx context.Context, id int64) (*Detail, error) {
	o, err := s.backend.Order(ctx, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return nil, apperr.NotFoundErr(msgNotFound)
		}
		return nil, apperr.FromBackend(err, "")
	}
	return &Detail{Order: *o, Lines: Enrich(ctx, s.backend, o.Items, s.logger)}, nil
}

// Cancel cancels a customer order. The status is checked locally first when
// the order is known.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	o, err := s.backend.Order(ctx, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return apperr.NotFoundErr(msgNotFound)
		}
		return apperr.FromBackend(err, msgCancelFailed)
	}
	if !CanCancel(Status(o.Status)) {
		return apperr.InvalidErr(msgCancelDenied, nil)
	}
	if err := s.backend.CancelOrder(ctx, id); err != nil {
		return apperr.FromBackend(err, msgCancelFailed)
	}
	s.logger.Info("order cancelled by customer", zap.Int64("order_id", id))
	return nil
}

// AdminPage is one page of the admin order list.
type AdminPage struct {
	Orders     []backend.Order
	Page       int
	TotalPages int
}

func (s *Service) AdminList(ctx context.Context, page, size int, search, tab string) (*AdminPage, error) {
	p, err := s.backend.AdminOrders(ctx, page, size, search)
	if err != nil {
		return nil, apperr.FromBackend(err, msgLoadFailed)
	}
	return &AdminPage{Orders: FilterByTab(p.Content, tab), Page: page, TotalPages: p.TotalPages}, nil
}

func (s *Service) AdminDetail(ctx context.Context, id int64) (*Detail, error) {
	o, err := s.backend.AdminOrder(ctx, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return nil, apperr.NotFoundErr(msgNotFound)
		}
		return nil, apperr.FromBackend(err, "")
	}
	return &Detail{Order: *o, Lines: Enrich(ctx, s.backend, o.Items, s.logger)}, nil
}

// UpdateStatus moves an order to a new status after checking the transition
// is allowed from its current one.
func (s *Service) UpdateStatus(ctx context.Context, id int64, to Status) error {
	o, err := s.backend.AdminOrder(ctx, id)
	if err != nil {
		if backend.IsNotFound(err) {
			return apperr.NotFoundErr(msgNotFound)
		}
		return apperr.FromBackend(err, msgUpdateFailed)
	}
	from := Status(o.Status)
	if from == Completed && to < 0 {
		return apperr.InvalidErr(RefundMessage, nil)
	}
	if !CanTransition(from, to) {
		return apperr.InvalidErr(msgBadTransition, nil)
	}
	if err := s.backend.UpdateOrderStatus(ctx, id, int(to)); err != nil {
		return apperr.FromBackend(err, msgUpdateFailed)
	}
	s.logger.Info("order status updated",
		zap.Int64("order_id", id),
		zap.String("from", from.Label()),
		zap.String("to", to.Label()),
	)
	return nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	list, err := s.backend.AllOrders(ctx)
	if err != nil {
		return Stats{}, apperr.FromBackend(err, msgLoadFailed)
	}
	return ComputeStats(list), nil
}

func sortNewestFirst(list []backend.Order) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID > list[j].ID })
}
