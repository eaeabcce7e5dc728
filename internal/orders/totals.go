package orders

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"sneaker_store_echo/internal/backend"
	"sneaker_store_echo/internal/format"
)

// Total is Σ price × quantity over the order's items.
func Total(o backend.Order) decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func ItemCount(o backend.Order) int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// FilterByTab keeps the orders whose status matches tab; "all" keeps everything.
func FilterByTab(list []backend.Order, tab string) []backend.Order {
	tab = NormalizeTab(tab)
	if tab == AllTab {
		return list
	}
	want, _ := strconv.Atoi(tab)
	out := make([]backend.Order, 0, len(list))
	for _, o := range list {
		if o.Status == want {
			out = append(out, o)
		}
	}
	return out
}

type StatusCount struct {
	Status Status
	Label  string
	Count  int
}

type DayRevenue struct {
	Day     string
	Revenue decimal.Decimal
	Orders  int
}

// Stats are the dashboard numbers.
type Stats struct {
	Orders   int
	Revenue  decimal.Decimal
	ByStatus []StatusCount
	ByDay    []DayRevenue
}

// ComputeStats sums revenue over every order that was not cancelled and
// counts orders per status. Days are in shop-local time, newest first.
func ComputeStats(list []backend.Order) Stats {
	st := Stats{Orders: len(list), Revenue: decimal.Zero}
	counts := make(map[Status]int)
	days := make(map[string]*DayRevenue)

	for _, o := range list {
		s := Status(o.Status)
		counts[s]++
		if s == Cancelled {
			continue
		}
		total := Total(o)
		st.Revenue = st.Revenue.Add(total)

		t, err := format.ParseTime(o.CreatedAt)
		if err != nil {
			continue
		}
		day := format.Day(t)
		d, ok := days[day]
		if !ok {
			d = &DayRevenue{Day: day, Revenue: decimal.Zero}
			days[day] = d
		}
		d.Revenue = d.Revenue.Add(total)
		d.Orders++
	}

	for _, s := range Statuses() {
		st.ByStatus = append(st.ByStatus, StatusCount{Status: s, Label: s.Label(), Count: counts[s]})
	}
	for _, d := range days {
		st.ByDay = append(st.ByDay, *d)
	}
	sort.Slice(st.ByDay, func(i, j int) bool { return st.ByDay[i].Day > st.ByDay[j].Day })
	return st
}
