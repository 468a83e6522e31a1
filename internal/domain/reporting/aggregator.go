package reporting

import (
	"sort"
	"time"

	"gestao_oficina/internal/domain/entities"

	"github.com/shopspring/decimal"
)

const (
	topClientsLimit  = 10
	topServicesLimit = 5
)

// Snapshot is the fixed input of Aggregate. Orders are expected to be already
// restricted to the reporting range; clients are the full list so order
// revenue can be labelled by name.
type Snapshot struct {
	From      time.Time
	To        time.Time
	Orders    []entities.ServiceOrder
	Inventory []entities.InventoryItem
	Clients   []entities.Client
	// Location decides which calendar day an order falls on. Nil means UTC.
	Location *time.Location
}

type DayRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ClientRevenue struct {
	ClientName string          `json:"client_name"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type ServiceQuantity struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type Report struct {
	From                 time.Time         `json:"from"`
	To                   time.Time         `json:"to"`
	TotalRevenue         decimal.Decimal   `json:"total_revenue"`
	PotentialRevenue     decimal.Decimal   `json:"potential_revenue"`
	AverageTicket        decimal.Decimal   `json:"average_ticket"`
	CompletedOrdersCount int               `json:"completed_orders_count"`
	PendingOrdersCount   int               `json:"pending_orders_count"`
	CancelledOrdersCount int               `json:"cancelled_orders_count"`
	TotalOrdersCount     int               `json:"total_orders_count"`
	RevenueByDay         []DayRevenue      `json:"revenue_by_day"`
	TopClients           []ClientRevenue   `json:"top_clients"`
	TopServices          []ServiceQuantity `json:"top_services"`
	NewClientsCount      int               `json:"new_clients_count"`
	StockValueByCost     decimal.Decimal   `json:"stock_value_by_cost"`
	StockValueBySale     decimal.Decimal   `json:"stock_value_by_sale"`
	LowStockItemsCount   int               `json:"low_stock_items_count"`
	TotalInventoryItems  int               `json:"total_inventory_items"`
}

// Aggregate derives the dashboard metrics from s. It holds no state and an
// empty snapshot yields a zero report.
func Aggregate(s Snapshot) Report {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}

	r := Report{
		From:             s.From,
		To:               s.To,
		TotalRevenue:     decimal.Zero,
		PotentialRevenue: decimal.Zero,
		AverageTicket:    decimal.Zero,
		StockValueByCost: decimal.Zero,
		StockValueBySale: decimal.Zero,
		RevenueByDay:     []DayRevenue{},
		TopClients:       []ClientRevenue{},
		TopServices:      []ServiceQuantity{},
	}

	clientNames := make(map[string]string, len(s.Clients))
	for _, c := range s.Clients {
		clientNames[c.ID] = c.Name
		if inRange(c.CreatedAt, s.From, s.To) {
			r.NewClientsCount++
		}
	}

	byDay := map[string]decimal.Decimal{}
	byClient := map[string]decimal.Decimal{}
	byService := map[string]int{}

	for _, o := range s.Orders {
		r.TotalOrdersCount++
		switch {
		case o.Status == entities.OrderStatusConcluido:
			r.CompletedOrdersCount++
			r.TotalRevenue = r.TotalRevenue.Add(o.TotalValue)

			day := o.CreatedAt.In(loc).Format(time.DateOnly)
			byDay[day] = byDay[day].Add(o.TotalValue)

			name := clientNames[o.ClientID]
			if name == "" {
				name = o.ClientID
			}
			byClient[name] = byClient[name].Add(o.TotalValue)

			for _, it := range o.Items {
				d := it.Details()
				byService[d.Description] += d.Quantity
			}
		case o.Status.IsPending():
			r.PendingOrdersCount++
			r.PotentialRevenue = r.PotentialRevenue.Add(o.TotalValue)
		case o.Status == entities.OrderStatusCancelado:
			r.CancelledOrdersCount++
		}
	}

	if r.CompletedOrdersCount > 0 {
		r.AverageTicket = r.TotalRevenue.Div(decimal.NewFromInt(int64(r.CompletedOrdersCount)))
	}

	for day, revenue := range byDay {
		r.RevenueByDay = append(r.RevenueByDay, DayRevenue{Date: day, Revenue: revenue})
	}
	sort.Slice(r.RevenueByDay, func(i, j int) bool {
		return r.RevenueByDay[i].Date < r.RevenueByDay[j].Date
	})

	for name, revenue := range byClient {
		r.TopClients = append(r.TopClients, ClientRevenue{ClientName: name, Revenue: revenue})
	}
	sort.Slice(r.TopClients, func(i, j int) bool {
		a, b := r.TopClients[i], r.TopClients[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ClientName < b.ClientName
	})
	if len(r.TopClients) > topClientsLimit {
		r.TopClients = r.TopClients[:topClientsLimit]
	}

	for desc, qty := range byService {
		r.TopServices = append(r.TopServices, ServiceQuantity{Description: desc, Quantity: qty})
	}
	sort.Slice(r.TopServices, func(i, j int) bool {
		a, b := r.TopServices[i], r.TopServices[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Description < b.Description
	})
	if len(r.TopServices) > topServicesLimit {
		r.TopServices = r.TopServices[:topServicesLimit]
	}

	for _, item := range s.Inventory {
		r.TotalInventoryItems++
		r.StockValueByCost = r.StockValueByCost.Add(item.ValueAtCost())
		r.StockValueBySale = r.StockValueBySale.Add(item.ValueAtSale())
		if item.IsLowStock() {
			r.LowStockItemsCount++
		}
	}

	return r
}

func inRange(t, from, to time.Time) bool {
	if t.IsZero() {
		return false
	}
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
