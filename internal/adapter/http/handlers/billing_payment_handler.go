package handlers

import (
	"encoding/json"
	"gestao_oficina/internal/adapter/http/dto/request"
	response "gestao_oficina/internal/adapter/http/dto/response"
	"gestao_oficina/internal/usecase"
	"gestao_oficina/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BillingPaymentHandler handles HTTP requests for service order payments.
type BillingPaymentHandler struct {
	usecase  usecase.IBillingPaymentUseCase
	mockMode bool
}

// NewBillingPaymentHandler builds the handler. In mock mode a malformed body
// falls back to an empty payload instead of being rejected.
func NewBillingPaymentHandler(uc usecase.IBillingPaymentUseCase, mockMode bool) *BillingPaymentHandler {
	return &BillingPaymentHandler{usecase: uc, mockMode: mockMode}
}

// PayServiceOrder godoc
// @Summary      Charge a completed service order
// @Description  The amount is always the order total. The body is a Mercado Pago payment request, optionally wrapped in mp_payload.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id    path      string                               true   "Service order id"
// @Param        body  body      request.OrderPaymentRequest          false  "Mercado Pago payload"
// @Success      200   {object}  response.BillingPaymentResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /service-orders/{id}/payments [post]
func (h *BillingPaymentHandler) PayServiceOrder(c *gin.Context) {
	orderID := c.Param("id")
	log := logger.For("payment", "handler").WithField("order_id", orderID)
	log.Debug("create start")

	mpPayload, err := readMPPayload(c)
	if err != nil {
		if !h.mockMode {
			log.WithError(err).Warn("invalid payload")
			respondAppError(c, errInvalidRequest)
			return
		}
		log.WithError(err).Warn("payload invalid in mock mode; fallback to empty payload")
		mpPayload = json.RawMessage("{}")
	}

	created, err := h.usecase.Pay(c.Request.Context(), orderID, mpPayload)
	if err != nil {
		log.WithError(err).Warn("create failed")
		respondError(c, err)
		return
	}
	log.WithFields(logrus.Fields{"payment_id": created.ID, "status": created.Status}).Info("create success")

	c.JSON(http.StatusOK, response.FromBillingPayment(created))
}

// GetLatestPayment godoc
// @Summary      Latest payment of a service order
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Service order id"
// @Success      200  {object}  response.BillingPaymentResponse
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /service-orders/{id}/payments [get]
func (h *BillingPaymentHandler) GetLatestPayment(c *gin.Context) {
	orderID := c.Param("id")

	latest, err := h.usecase.LatestByOrderID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromBillingPayment(latest))
}

// GetPayment godoc
// @Summary      Payment by id
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Payment id"
// @Success      200  {object}  response.BillingPaymentResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /payments/{id} [get]
func (h *BillingPaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromBillingPayment(p))
}

func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	return request.PaymentPayload(raw)
}
