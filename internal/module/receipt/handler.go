package receipt

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightgive/server/internal/module/donation"
	"github.com/brightgive/server/internal/shared/middleware"
	"github.com/brightgive/server/internal/shared/response"
)

// Handler serves receipt downloads.
type Handler struct {
	service   *Service
	donations *donation.Service
}

// NewHandler creates a new receipt handler.
func NewHandler(service *Service, donations *donation.Service) *Handler {
	return &Handler{service: service, donations: donations}
}

// RegisterProtectedRoutes registers receipt routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/donations/:id/receipt", h.Download)
}

// Download returns a short-lived URL for the donor's tax receipt.
func (h *Handler) Download(c *gin.Context) {
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

	d, err := h.donations.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
			{Err: donation.ErrDonationNotFound, Status: http.StatusNotFound},
		})
		return
	}
	if d.DonorID != donorID {
		response.Forbidden(c, "")
		return
	}

	url, err := h.service.DownloadURL(c.Request.Context(), d)
	if err != nil {
		response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
			{Err: ErrReceiptNotFound, Status: http.StatusNotFound},
		})
		return
	}

	response.OK(c, gin.H{"url": url})
}
