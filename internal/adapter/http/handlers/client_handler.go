package handlers

import (
	request "gestao_oficina/internal/adapter/http/dto/request"
	response "gestao_oficina/internal/adapter/http/dto/response"
	"gestao_oficina/internal/adapter/http/middleware"
	"gestao_oficina/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClientHandler handles HTTP requests for clients and their vehicles.
type ClientHandler struct {
	usecase usecase.IClientUseCase
}

func NewClientHandler(uc usecase.IClientUseCase) *ClientHandler {
	return &ClientHandler{usecase: uc}
}

// CreateClient godoc
// @Summary      Create client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      request.ClientRequest  true  "Client"
// @Success      201   {object}  response.ClientResponse
// @Failure      400   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var payload request.ClientRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}
	session, _ := middleware.SessionFrom(c)

	client, err := h.usecase.CreateClient(c.Request.Context(), payload.ToInput(session.UserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromClient(client))
}

// GetClient godoc
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  response.ClientResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.usecase.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromClient(client))
}

// ListClients godoc
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Success      200  {array}  response.ClientResponse
// @Security     Bearer
// @Router       /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.usecase.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromClients(clients))
}

// ListClientVehicles godoc
// @Summary      List the vehicles of a client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client id"
// @Success      200  {array}   response.VehicleResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /clients/{id}/vehicles [get]
func (h *ClientHandler) ListClientVehicles(c *gin.Context) {
	vehicles, err := h.usecase.ListClientVehicles(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromVehicles(vehicles))
}

// CreateVehicle godoc
// @Summary      Register a vehicle for a client
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        body  body      request.VehicleRequest  true  "Vehicle"
// @Success      201   {object}  response.VehicleResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /vehicles [post]
func (h *ClientHandler) CreateVehicle(c *gin.Context) {
	var payload request.VehicleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}
	session, _ := middleware.SessionFrom(c)

	vehicle, err := h.usecase.CreateVehicle(c.Request.Context(), payload.ToInput(session.UserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromVehicle(vehicle))
}

// GetVehicle godoc
// @Summary      Get vehicle
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Vehicle id"
// @Success      200  {object}  response.VehicleResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /vehicles/{id} [get]
func (h *ClientHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.usecase.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromVehicle(vehicle))
}

// ListVehicles godoc
// @Summary      List vehicles
// @Tags         vehicles
// @Produce      json
// @Success      200  {array}  response.VehicleResponse
// @Security     Bearer
// @Router       /vehicles [get]
func (h *ClientHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.usecase.ListVehicles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromVehicles(vehicles))
}
