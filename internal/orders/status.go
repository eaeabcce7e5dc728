package orders

import "strconv"

// Status is the backend's numeric order state.
type Status int

const (
	Pending   Status = 0
	Preparing Status = 1
	Shipping  Status = 2
	Completed Status = 3
	Cancelled Status = 4
)

const (
	unknownLabel  = "Không xác định"
	RefundMessage = "Chức năng hoàn tiền đang phát triển"
)

var labels = [...]string{
	Pending:   "Chờ xử lý",
	Preparing: "Đang chuẩn bị",
	Shipping:  "Đang vận chuyển",
	Completed: "Đã hoàn thành",
	Cancelled: "Đã hủy",
}

// Statuses lists every known status in display order.
func Statuses() []Status {
	return []Status{Pending, Preparing, Shipping, Completed, Cancelled}
}

func (s Status) Valid() bool {
	return s >= Pending && s <= Cancelled
}

func (s Status) Label() string {
	if !s.Valid() {
		return unknownLabel
	}
	return labels[s]
}

func (s Status) Terminal() bool {
	return s == Completed || s == Cancelled
}

// Label names a raw status code; unknown codes read "Không xác định".
func Label(code int) string {
	return Status(code).Label()
}

// CanTransition reports whether an admin may move an order from one status
// to another. Every open status moves one step forward or to cancelled.
func CanTransition(from, to Status) bool {
	if !from.Valid() || from.Terminal() {
		return false
	}
	return to == from+1 || to == Cancelled
}

// CanCancel reports whether the customer may still cancel the order.
func CanCancel(s Status) bool {
	return s == Pending || s == Preparing
}

// Action is a button on the admin order page.
type Action struct {
	To    Status
	Label string
	Style string
}

// NextActions lists the admin actions available from s. Completed orders
// offer the refund placeholder, which has no target status.
func NextActions(s Status) []Action {
	switch s {
	case Pending:
		return []Action{{To: Preparing, Label: "Xác nhận đơn", Style: "success"}, cancelAction()}
	case Preparing:
		return []Action{{To: Shipping, Label: "Bắt đầu vận chuyển", Style: "primary"}, cancelAction()}
	case Shipping:
		return []Action{{To: Completed, Label: "Đánh dấu hoàn thành", Style: "success"}, cancelAction()}
	case Completed:
		return []Action{{To: -1, Label: "Xử lý hoàn tiền", Style: "warning"}}
	default:
		return nil
	}
}

func cancelAction() Action {
	return Action{To: Cancelled, Label: "Hủy đơn", Style: "danger"}
}

// Tab is one filter of the order lists.
type Tab struct {
	Key   string
	Label string
}

const AllTab = "all"

func Tabs() []Tab {
	tabs := []Tab{{Key: AllTab, Label: "Tất cả"}}
	for _, s := range Statuses() {
		tabs = append(tabs, Tab{Key: strconv.Itoa(int(s)), Label: s.Label()})
	}
	return tabs
}

// NormalizeTab maps unknown tab keys to "all".
func NormalizeTab(tab string) string {
	if tab == AllTab {
		return tab
	}
	n, err := strconv.Atoi(tab)
	if err != nil || !Status(n).Valid() {
		return AllTab
	}
	return tab
}
