package routes

import (
	"gestao_oficina/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathAuth          = "/auth"
	PathUsers         = "/users"
	PathClients       = "/clients"
	PathVehicles      = "/vehicles"
	PathInventory     = "/inventory"
	PathServiceOrders = "/service-orders"
	PathReports       = "/reports"
	PathPayments      = "/payments"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", handlers.Ping)
}

func addAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, adminOnly gin.HandlerFunc) {
	rg.GET(PathAuth+"/me", h.Me)
	rg.PATCH(PathAuth+"/me", h.UpdateMe)

	users := rg.Group(PathUsers, adminOnly)
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

func addClientRoutes(rg *gin.RouterGroup, h *handlers.ClientHandler) {
	clients := rg.Group(PathClients)
	{
		clients.GET("", h.ListClients)
		clients.POST("", h.CreateClient)
		clients.GET("/:id", h.GetClient)
		clients.GET("/:id/vehicles", h.ListClientVehicles)
	}

	vehicles := rg.Group(PathVehicles)
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.POST("", h.CreateVehicle)
		vehicles.GET("/:id", h.GetVehicle)
	}
}

func addInventoryRoutes(rg *gin.RouterGroup, h *handlers.InventoryHandler, adminOnly gin.HandlerFunc) {
	inventory := rg.Group(PathInventory)
	{
		inventory.GET("", h.ListInventoryItems)
		inventory.GET("/low-stock", h.ListLowStockItems)
		inventory.GET("/:id", h.GetInventoryItem)

		inventory.POST("", adminOnly, h.CreateInventoryItem)
		inventory.PUT("/:id", adminOnly, h.UpdateInventoryItem)
		inventory.DELETE("/:id", adminOnly, h.DeleteInventoryItem)
		inventory.POST("/:id/adjust", adminOnly, h.AdjustInventoryStock)
	}
}

func addServiceOrderRoutes(rg *gin.RouterGroup, h *handlers.ServiceOrderHandler, payments *handlers.BillingPaymentHandler, adminOnly gin.HandlerFunc) {
	orders := rg.Group(PathServiceOrders)
	{
		orders.GET("", h.ListServiceOrders)
		orders.POST("", h.CreateServiceOrder)
		orders.GET("/:id", h.GetServiceOrder)
		orders.PATCH("/:id", h.UpdateServiceOrder)
		orders.PATCH("/:id/status", h.SetServiceOrderStatus)
		orders.DELETE("/:id", adminOnly, h.DeleteServiceOrder)
		orders.POST("/:id/reopen", adminOnly, h.ReopenServiceOrder)

		orders.POST("/:id/payments", payments.PayServiceOrder)
		orders.GET("/:id/payments", payments.GetLatestPayment)
	}

	rg.GET(PathPayments+"/:id", payments.GetPayment)
}

func addReportRoutes(rg *gin.RouterGroup, h *handlers.ReportHandler) {
	rg.GET(PathReports, h.GetReport)
}
