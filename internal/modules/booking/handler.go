package booking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"venuebook/internal/domain"
	"venuebook/internal/middleware"
	"venuebook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListMine)
	rg.GET("/bookings/:id", h.Get)
	rg.DELETE("/bookings/:id", h.SoftDelete)
	rg.GET("/venues/:id/bookings", h.ListForVenue)
}

// RegisterOwnerRoutes mounts endpoints behind the owner-role middleware.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.OwnerCreate)
	rg.PATCH("/bookings/:id/status", h.UpdateStatus)
	rg.PUT("/bookings/:id/notes", h.SetOwnerNotes)
}

// RegisterAdminRoutes mounts endpoints behind the admin-role middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/bookings/:id/hard", h.HardDelete)
}

func (h *Handler) OwnerCreate(c *gin.Context) {
	var req OwnerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.OwnerCreate(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMine(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	list, err := h.service.ListByUser(c.Request.Context(), actor, actor.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ListForVenue(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	list, err := h.service.ListByVenue(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), id, domain.BookingStatus(req.Status), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) SetOwnerNotes(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req struct {
		OwnerNotes string `json:"owner_notes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetOwnerNotes(c.Request.Context(), middleware.ActorFrom(c), id, req.OwnerNotes); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) SoftDelete(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if err := h.service.SoftDelete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) HardDelete(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if err := h.service.HardDelete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking payload")
	case ErrReasonRequired:
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A reason is required to cancel a booking")
	case ErrInvalidStatusTransition:
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking cannot move to the requested status")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this booking")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id in path")
		return 0, false
	}
	return id, true
}
