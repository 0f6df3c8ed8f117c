package donation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightgive/server/internal/module/donation/domain"
	paydomain "github.com/brightgive/server/internal/module/payment/domain"
	"github.com/brightgive/server/internal/shared/middleware"
	"github.com/brightgive/server/internal/shared/response"
)

// Handler handles HTTP requests for donations.
type Handler struct {
	service *Service
}

// NewHandler creates a new donation handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public donation routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/donation-statuses", h.ListStatuses)
}

// RegisterProtectedRoutes registers donation routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	donations := r.Group("/donations")
	{
		donations.POST("", h.Create)
		donations.GET("", h.List)
		donations.GET("/:id", h.Get)
		donations.PATCH("/:id/message", h.UpdateMessage)
		donations.POST("/:id/cancel", h.Cancel)
		donations.POST("/:id/refund", h.Refund)
	}
}

// ListStatuses returns every donation status with its display metadata
// and allowed transitions.
func (h *Handler) ListStatuses(c *gin.Context) {
	statuses := domain.AllDonationStatuses()
	infos := make([]StatusInfo, 0, len(statuses))
	for _, s := range statuses {
		transitions := s.ValidTransitions()
		names := make([]string, 0, len(transitions))
		for _, t := range transitions {
			names = append(names, string(t))
		}
		infos = append(infos, StatusInfo{
			Status:      string(s),
			Label:       s.Label(),
			Color:       s.Color(),
			Icon:        s.Icon(),
			Progress:    s.Progress(),
			Final:       s.IsFinal(),
			Transitions: names,
		})
	}
	response.OK(c, gin.H{"statuses": infos})
}

func (h *Handler) Create(c *gin.Context) {
	donorID := middleware.UserID(c)
	if donorID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), donorID, &req)
	if err != nil {
		handleDonationError(c, err)
		return
	}
	response.Created(c, resp)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid donation id")
		return
	}

	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleDonationError(c, err)
		return
	}
	response.OK(c, d)
}

func (h *Handler) List(c *gin.Context) {
	donorID := middleware.UserID(c)
	if donorID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	filter := &DonationFilter{DonorID: &donorID}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.DonationStatusFromString(raw)
		if err != nil {
			response.BadRequest(c, "invalid status filter")
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("campaign_id"); raw != "" {
		campaignID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid campaign id")
			return
		}
		filter.CampaignID = &campaignID
	}

	pagination := paginationFromQuery(c)

	donations, total, err := h.service.List(c.Request.Context(), filter, pagination)
	if err != nil {
		handleDonationError(c, err)
		return
	}
	response.OKPaginated(c, donations, total, pagination.Page, pagination.PageSize)
}

func (h *Handler) UpdateMessage(c *gin.Context) {
	donorID := middleware.UserID(c)
	if donorID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid donation id")
		return
	}

	var req UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	d, err := h.service.UpdateMessage(c.Request.Context(), donorID, id, req.Message)
	if err != nil {
		handleDonationError(c, err)
		return
	}
	response.OK(c, d)
}

func (h *Handler) Cancel(c *gin.Context) {
	donorID := middleware.UserID(c)
	if donorID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid donation id")
		return
	}

	d, err := h.service.Cancel(c.Request.Context(), donorID, id)
	if err != nil {
		handleDonationError(c, err)
		return
	}
	response.OK(c, d)
}

func (h *Handler) Refund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid donation id")
		return
	}

	// The body is optional; a bare POST refunds without a reason.
	var req RefundDonationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	d, err := h.service.Refund(c.Request.Context(), id, req.Reason)
	if err != nil {
		handleDonationError(c, err)
		return
	}
	response.OK(c, d)
}

var donationErrorMappings = []response.ErrorMapping{
	{Err: ErrDonationNotFound, Status: http.StatusNotFound},
	{Err: ErrCampaignNotFound, Status: http.StatusNotFound},
	{Err: ErrCampaignNotActive, Status: http.StatusUnprocessableEntity},
	{Err: ErrAmountOutOfRange, Status: http.StatusUnprocessableEntity},
	{Err: ErrBelowMethodMinimum, Status: http.StatusUnprocessableEntity},
	{Err: ErrUnsupportedCurrency, Status: http.StatusUnprocessableEntity},
	{Err: ErrDonationImmutable, Status: http.StatusConflict},
	{Err: ErrNotDonationOwner, Status: http.StatusForbidden},
	{Err: ErrAlreadyRefunded, Status: http.StatusConflict},
	{Err: ErrRefundNotAllowed, Status: http.StatusUnprocessableEntity},
	{Err: ErrMissingPaymentRecord, Status: http.StatusConflict},
	{Err: ErrInvalidTransition, Status: http.StatusConflict},
	{Err: paydomain.ErrInvalidAmount, Status: http.StatusUnprocessableEntity},
	{Err: paydomain.ErrUnsupportedCurrency, Status: http.StatusUnprocessableEntity},
	{Err: paydomain.ErrInvalidPaymentMethod, Status: http.StatusUnprocessableEntity},
}

func handleDonationError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, donationErrorMappings)
}

func paginationFromQuery(c *gin.Context) *Pagination {
	p := &Pagination{Page: 1, PageSize: 20}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 && v <= 100 {
		p.PageSize = v
	}
	return p
}
