package reporting

import (
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"gestao_oficina/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func order(id, clientID string, status entities.OrderStatus, total string, createdAt time.Time, items ...entities.LineItem) entities.ServiceOrder {
	return entities.ServiceOrder{
		ID:         id,
		ClientID:   clientID,
		Status:     status,
		TotalValue: money(total),
		CreatedAt:  createdAt,
		Items:      items,
	}
}

func service(desc string, qty int) entities.LineItem {
	return entities.ServiceLine{LineDetails: entities.LineDetails{Description: desc, Quantity: qty, UnitPrice: decimal.Zero}}
}

func TestAggregate_RevenueFigures(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Orders: []entities.ServiceOrder{
			order("1", "c1", entities.OrderStatusConcluido, "100", day),
			order("2", "c2", entities.OrderStatusConcluido, "200", day),
			order("3", "c1", entities.OrderStatusAguardandoAprovacao, "50", day),
			order("4", "c2", entities.OrderStatusCancelado, "999", day),
		},
	}

	r := Aggregate(snap)

	assert.True(t, r.TotalRevenue.Equal(money("300")), "total revenue %s", r.TotalRevenue)
	assert.True(t, r.PotentialRevenue.Equal(money("50")), "potential revenue %s", r.PotentialRevenue)
	assert.True(t, r.AverageTicket.Equal(money("150")), "average ticket %s", r.AverageTicket)
	assert.Equal(t, 2, r.CompletedOrdersCount)
	assert.Equal(t, 1, r.PendingOrdersCount)
	assert.Equal(t, 1, r.CancelledOrdersCount)
	assert.Equal(t, 4, r.TotalOrdersCount)
}

func TestAggregate_AverageTicketIsNotRounded(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	r := Aggregate(Snapshot{Orders: []entities.ServiceOrder{
		order("1", "c1", entities.OrderStatusConcluido, "50", day),
		order("2", "c1", entities.OrderStatusConcluido, "25", day),
		order("3", "c2", entities.OrderStatusConcluido, "25.01", day),
	}})

	want := money("100.01").Div(decimal.NewFromInt(3))
	assert.True(t, r.AverageTicket.Equal(want), "average ticket %s", r.AverageTicket)
	assert.False(t, r.AverageTicket.Equal(money("33.34")))
}

func TestAggregate_EmptySnapshot(t *testing.T) {
	r := Aggregate(Snapshot{})

	assert.True(t, r.TotalRevenue.IsZero())
	assert.True(t, r.AverageTicket.IsZero())
	assert.True(t, r.PotentialRevenue.IsZero())
	assert.Empty(t, r.RevenueByDay)
	assert.NotNil(t, r.RevenueByDay)
	assert.Empty(t, r.TopClients)
	assert.Empty(t, r.TopServices)
	assert.Equal(t, 0, r.LowStockItemsCount)
}

func TestAggregate_RevenueByDayUsesLocalDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:30 UTC on the 11th is still the 10th in São Paulo (UTC-3).
	lateNight := time.Date(2024, 3, 11, 1, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, 3, 11, 15, 0, 0, 0, time.UTC)

	r := Aggregate(Snapshot{
		Location: loc,
		Orders: []entities.ServiceOrder{
			order("2", "c1", entities.OrderStatusConcluido, "30", nextDay),
			order("1", "c1", entities.OrderStatusConcluido, "20", lateNight),
			order("3", "c1", entities.OrderStatusConcluido, "5", nextDay),
		},
	})

	require.Len(t, r.RevenueByDay, 2)
	assert.Equal(t, "2024-03-10", r.RevenueByDay[0].Date)
	assert.True(t, r.RevenueByDay[0].Revenue.Equal(money("20")))
	assert.Equal(t, "2024-03-11", r.RevenueByDay[1].Date)
	assert.True(t, r.RevenueByDay[1].Revenue.Equal(money("35")))
}

func TestAggregate_TopClientsAndServices(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var orders []entities.ServiceOrder
	var clients []entities.Client
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("c%02d", i)
		clients = append(clients, entities.Client{ID: id, Name: fmt.Sprintf("Cliente %02d", i)})
		orders = append(orders, order(fmt.Sprintf("o%02d", i), id, entities.OrderStatusConcluido, fmt.Sprintf("%d", (i+1)*10), now,
			service("Alinhamento", 1),
		))
	}
	orders = append(orders,
		order("x1", "c00", entities.OrderStatusConcluido, "5", now,
			service("Troca de óleo", 3), service("Balanceamento", 2), service("Revisão", 1),
			service("Freios", 1), service("Suspensão", 1)),
		order("x2", "c00", entities.OrderStatusEmAndamento, "1000", now, service("Ignorado", 50)),
	)

	r := Aggregate(Snapshot{Orders: orders, Clients: clients})

	require.Len(t, r.TopClients, 10)
	assert.Equal(t, "Cliente 11", r.TopClients[0].ClientName)
	assert.True(t, r.TopClients[0].Revenue.Equal(money("120")))
	assert.Equal(t, "Cliente 02", r.TopClients[9].ClientName)

	require.Len(t, r.TopServices, 5)
	assert.Equal(t, ServiceQuantity{Description: "Alinhamento", Quantity: 12}, r.TopServices[0])
	assert.Equal(t, ServiceQuantity{Description: "Troca de óleo", Quantity: 3}, r.TopServices[1])
	assert.Equal(t, ServiceQuantity{Description: "Balanceamento", Quantity: 2}, r.TopServices[2])
	assert.Equal(t, "Freios", r.TopServices[3].Description)
	assert.Equal(t, "Revisão", r.TopServices[4].Description)
}

func TestAggregate_InventoryAndNewClients(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	r := Aggregate(Snapshot{
		From: from,
		To:   to,
		Inventory: []entities.InventoryItem{
			{ID: "1", CurrentStock: 6, MinimumStock: 5, CostPrice: money("10"), SalePrice: money("20")},
			{ID: "2", CurrentStock: 2, MinimumStock: 2, CostPrice: money("1.5"), SalePrice: money("3")},
		},
		Clients: []entities.Client{
			{ID: "a", CreatedAt: from.AddDate(0, 0, 3)},
			{ID: "b", CreatedAt: from.AddDate(0, 0, -3)},
			{ID: "c", CreatedAt: to},
		},
	})

	assert.True(t, r.StockValueByCost.Equal(money("63")), "by cost %s", r.StockValueByCost)
	assert.True(t, r.StockValueBySale.Equal(money("126")), "by sale %s", r.StockValueBySale)
	assert.Equal(t, 1, r.LowStockItemsCount)
	assert.Equal(t, 2, r.TotalInventoryItems)
	assert.Equal(t, 2, r.NewClientsCount)
}

func TestAggregate_ClientFallsBackToID(t *testing.T) {
	r := Aggregate(Snapshot{Orders: []entities.ServiceOrder{
		order("1", "orphan", entities.OrderStatusConcluido, "10", time.Now()),
	}})
	require.Len(t, r.TopClients, 1)
	assert.Equal(t, "orphan", r.TopClients[0].ClientName)
}
