package handlers

import (
	"errors"
	request "gestao_oficina/internal/adapter/http/dto/request"
	response "gestao_oficina/internal/adapter/http/dto/response"
	"gestao_oficina/internal/adapter/http/middleware"
	"gestao_oficina/internal/usecase"
	"gestao_oficina/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceOrderHandler handles HTTP requests for service orders.
type ServiceOrderHandler struct {
	usecase usecase.IServiceOrderUseCase
}

func NewServiceOrderHandler(uc usecase.IServiceOrderUseCase) *ServiceOrderHandler {
	return &ServiceOrderHandler{usecase: uc}
}

// CreateServiceOrder godoc
// @Summary      Create service order
// @Tags         service-orders
// @Accept       json
// @Produce      json
// @Param        body  body      request.ServiceOrderCreateRequest  true  "Service order"
// @Success      201   {object}  response.OrderSaveResponse
// @Success      207   {object}  response.OrderSaveResponse  "Saved, but some stock movements failed"
// @Failure      400   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /service-orders [post]
func (h *ServiceOrderHandler) CreateServiceOrder(c *gin.Context) {
	var payload request.ServiceOrderCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}
	session, _ := middleware.SessionFrom(c)

	res, err := h.usecase.Create(c.Request.Context(), payload.ToInput(session.UserID))
	h.respondSave(c, http.StatusCreated, res, err)
}

// UpdateServiceOrder godoc
// @Summary      Update service order
// @Description  Only the fields present in the body change. Sending items replaces the list.
// @Tags         service-orders
// @Accept       json
// @Produce      json
// @Param        id    path      string                             true  "Service order id"
// @Param        body  body      request.ServiceOrderPatchRequest  true  "Changes"
// @Success      200   {object}  response.OrderSaveResponse
// @Success      207   {object}  response.OrderSaveResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /service-orders/{id} [patch]
func (h *ServiceOrderHandler) UpdateServiceOrder(c *gin.Context) {
	var payload request.ServiceOrderPatchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}

	res, err := h.usecase.Update(c.Request.Context(), c.Param("id"), payload.ToPatch())
	h.respondSave(c, http.StatusOK, res, err)
}

// SetServiceOrderStatus godoc
// @Summary      Change service order status
// @Tags         service-orders
// @Accept       json
// @Produce      json
// @Param        id    path      string                              true  "Service order id"
// @Param        body  body      request.ServiceOrderStatusRequest  true  "New status"
// @Success      200   {object}  response.OrderSaveResponse
// @Success      207   {object}  response.OrderSaveResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /service-orders/{id}/status [patch]
func (h *ServiceOrderHandler) SetServiceOrderStatus(c *gin.Context) {
	var payload request.ServiceOrderStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}

	res, err := h.usecase.SetStatus(c.Request.Context(), c.Param("id"), payload.Status)
	h.respondSave(c, http.StatusOK, res, err)
}

// ReopenServiceOrder godoc
// @Summary      Reopen a completed or cancelled service order
// @Tags         service-orders
// @Produce      json
// @Param        id   path      string  true  "Service order id"
// @Success      200  {object}  response.ServiceOrderResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /service-orders/{id}/reopen [post]
func (h *ServiceOrderHandler) ReopenServiceOrder(c *gin.Context) {
	order, err := h.usecase.Reopen(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromServiceOrder(order))
}

// GetServiceOrder godoc
// @Summary      Get service order
// @Tags         service-orders
// @Produce      json
// @Param        id   path      string  true  "Service order id"
// @Success      200  {object}  response.ServiceOrderResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /service-orders/{id} [get]
func (h *ServiceOrderHandler) GetServiceOrder(c *gin.Context) {
	order, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromServiceOrder(order))
}

// ListServiceOrders godoc
// @Summary      List service orders, newest first
// @Tags         service-orders
// @Produce      json
// @Success      200  {array}  response.ServiceOrderResponse
// @Security     Bearer
// @Router       /service-orders [get]
func (h *ServiceOrderHandler) ListServiceOrders(c *gin.Context) {
	orders, err := h.usecase.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromServiceOrders(orders))
}

// DeleteServiceOrder godoc
// @Summary      Delete service order
// @Tags         service-orders
// @Param        id  path  string  true  "Service order id"
// @Success      204
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /service-orders/{id} [delete]
func (h *ServiceOrderHandler) DeleteServiceOrder(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondSave writes the saved order. When some stock movements failed the
// order was still saved, so the body carries it with every movement result
// under 207 Multi-Status.
func (h *ServiceOrderHandler) respondSave(c *gin.Context, okStatus int, res usecase.OrderSaveResult, err error) {
	if err == nil {
		c.JSON(okStatus, response.FromOrderSaveResult(res))
		return
	}

	var commitErr *usecase.StockCommitError
	if errors.As(err, &commitErr) {
		logger.For("order", "handler").WithError(err).WithField("order_id", res.Order.ID).Warn("order saved with stock failures")
		c.JSON(http.StatusMultiStatus, response.FromOrderSaveResult(res))
		return
	}
	respondError(c, err)
}
