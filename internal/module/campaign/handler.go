package campaign

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightgive/server/internal/shared/middleware"
	"github.com/brightgive/server/internal/shared/response"
)

// Handler handles HTTP requests for campaigns.
type Handler struct {
	service *Service
}

// NewHandler creates a new campaign handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public campaign routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	campaigns := r.Group("/campaigns")
	{
		campaigns.GET("", h.List)
		campaigns.GET("/:id", h.Get)
		campaigns.GET("/:id/totals", h.Totals)
	}
}

// RegisterProtectedRoutes registers campaign routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	campaigns := r.Group("/campaigns")
	{
		campaigns.POST("", h.Create)
		campaigns.POST("/:id/activate", h.Activate)
	}
}

func (h *Handler) Create(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	campaign, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleCampaignError(c, err)
		return
	}

	response.Created(c, campaign)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}

	campaign, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleCampaignError(c, err)
		return
	}

	response.OK(c, campaign)
}

func (h *Handler) List(c *gin.Context) {
	var status *CampaignStatus
	if raw := c.Query("status"); raw != "" {
		s := CampaignStatus(raw)
		status = &s
	}

	pagination := paginationFromQuery(c)

	campaigns, total, err := h.service.List(c.Request.Context(), status, pagination)
	if err != nil {
		handleCampaignError(c, err)
		return
	}

	response.OKPaginated(c, campaigns, total, pagination.Page, pagination.PageSize)
}

func (h *Handler) Totals(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}

	totals, err := h.service.Totals(c.Request.Context(), id)
	if err != nil {
		handleCampaignError(c, err)
		return
	}

	response.OK(c, totals)
}

func (h *Handler) Activate(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return
	}

	campaign, err := h.service.Activate(c.Request.Context(), userID, id)
	if err != nil {
		handleCampaignError(c, err)
		return
	}

	response.OK(c, campaign)
}

var campaignErrorMappings = []response.ErrorMapping{
	{Err: ErrCampaignNotFound, Status: http.StatusNotFound},
	{Err: ErrNotCampaignOwner, Status: http.StatusForbidden},
	{Err: ErrInvalidGoal, Status: http.StatusUnprocessableEntity},
}

func handleCampaignError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, campaignErrorMappings)
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
