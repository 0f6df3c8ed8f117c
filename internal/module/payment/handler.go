package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightgive/server/internal/module/payment/domain"
	"github.com/brightgive/server/internal/shared/response"
)

// Handler handles HTTP requests for payments.
type Handler struct {
	service *Service
}

// NewHandler creates a new payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public payment routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/payment-methods", h.ListMethods)
}

// RegisterProtectedRoutes registers payment routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.GET("/:id", h.Get)
		payments.POST("/:id/sync", h.Sync)
		payments.POST("/:id/refund", h.Refund)
	}
}

// ListMethods returns the payment methods available for a currency,
// with display metadata and per-method minimums.
func (h *Handler) ListMethods(c *gin.Context) {
	currency := c.DefaultQuery("currency", "EUR")
	if _, err := domain.ParseCurrency(currency); err != nil {
		response.BadRequest(c, "unsupported currency")
		return
	}

	methods := domain.AvailableForCurrency(currency)
	infos := make([]MethodInfo, 0, len(methods))
	for _, m := range methods {
		infos = append(infos, MethodInfoFor(m, currency))
	}
	response.OK(c, gin.H{"currency": currency, "methods": infos})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	payment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handlePaymentError(c, err)
		return
	}
	response.OK(c, payment)
}

func (h *Handler) Sync(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	payment, err := h.service.Sync(c.Request.Context(), id)
	if err != nil {
		handlePaymentError(c, err)
		return
	}
	response.OK(c, payment)
}

func (h *Handler) Refund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}

	var req RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	payment, err := h.service.Refund(c.Request.Context(), id, req.Amount, req.Reason, req.Metadata)
	if err != nil {
		handlePaymentError(c, err)
		return
	}
	response.OK(c, payment)
}

var paymentErrorMappings = []response.ErrorMapping{
	{Err: ErrPaymentNotFound, Status: http.StatusNotFound},
	{Err: ErrGatewayNotConfigured, Status: http.StatusServiceUnavailable},
	{Err: ErrManualMethod, Status: http.StatusUnprocessableEntity},
	{Err: ErrNotRefundable, Status: http.StatusUnprocessableEntity},
	{Err: ErrRefundExceedsCharge, Status: http.StatusUnprocessableEntity},
	{Err: domain.ErrInvalidRefundAmount, Status: http.StatusUnprocessableEntity},
	{Err: domain.ErrEmptyTransactionID, Status: http.StatusUnprocessableEntity},
}

func handlePaymentError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, paymentErrorMappings)
}
