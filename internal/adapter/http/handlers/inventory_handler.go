package handlers

import (
	request "gestao_oficina/internal/adapter/http/dto/request"
	response "gestao_oficina/internal/adapter/http/dto/response"
	"gestao_oficina/internal/adapter/http/middleware"
	"gestao_oficina/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InventoryHandler handles HTTP requests for inventory items.
type InventoryHandler struct {
	usecase usecase.IInventoryUseCase
}

func NewInventoryHandler(uc usecase.IInventoryUseCase) *InventoryHandler {
	return &InventoryHandler{usecase: uc}
}

// CreateInventoryItem godoc
// @Summary      Create inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      request.InventoryItemRequest  true  "Inventory item"
// @Success      201   {object}  response.InventoryItemResponse
// @Failure      400   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /inventory [post]
func (h *InventoryHandler) CreateInventoryItem(c *gin.Context) {
	var payload request.InventoryItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}
	session, _ := middleware.SessionFrom(c)

	item, err := h.usecase.Create(c.Request.Context(), payload.ToInput(session.UserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromInventoryItem(item))
}

// UpdateInventoryItem godoc
// @Summary      Edit inventory item
// @Description  current_stock is ignored; use the adjust endpoint to move stock.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "Inventory item id"
// @Param        body  body      request.InventoryItemRequest  true  "Inventory item"
// @Success      200   {object}  response.InventoryItemResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /inventory/{id} [put]
func (h *InventoryHandler) UpdateInventoryItem(c *gin.Context) {
	var payload request.InventoryItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}
	session, _ := middleware.SessionFrom(c)

	item, err := h.usecase.Update(c.Request.Context(), c.Param("id"), payload.ToInput(session.UserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInventoryItem(item))
}

// AdjustInventoryStock godoc
// @Summary      Move stock by a signed amount
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "Inventory item id"
// @Param        body  body      request.StockAdjustRequest  true  "Adjustment"
// @Success      200   {object}  response.InventoryItemResponse
// @Failure      409   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /inventory/{id}/adjust [post]
func (h *InventoryHandler) AdjustInventoryStock(c *gin.Context) {
	var payload request.StockAdjustRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}

	item, err := h.usecase.AdjustStock(c.Request.Context(), c.Param("id"), payload.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInventoryItem(item))
}

// GetInventoryItem godoc
// @Summary      Get inventory item
// @Tags         inventory
// @Produce      json
// @Param        id   path      string  true  "Inventory item id"
// @Success      200  {object}  response.InventoryItemResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /inventory/{id} [get]
func (h *InventoryHandler) GetInventoryItem(c *gin.Context) {
	item, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInventoryItem(item))
}

// ListInventoryItems godoc
// @Summary      List inventory items by name
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  response.InventoryItemResponse
// @Security     Bearer
// @Router       /inventory [get]
func (h *InventoryHandler) ListInventoryItems(c *gin.Context) {
	items, err := h.usecase.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInventoryItems(items))
}

// ListLowStockItems godoc
// @Summary      List items at or below their minimum stock
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  response.InventoryItemResponse
// @Security     Bearer
// @Router       /inventory/low-stock [get]
func (h *InventoryHandler) ListLowStockItems(c *gin.Context) {
	items, err := h.usecase.ListLowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInventoryItems(items))
}

// DeleteInventoryItem godoc
// @Summary      Delete inventory item
// @Tags         inventory
// @Param        id  path  string  true  "Inventory item id"
// @Success      204
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /inventory/{id} [delete]
func (h *InventoryHandler) DeleteInventoryItem(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
