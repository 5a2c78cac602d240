package request

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"venuebook/internal/middleware"
	"venuebook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts request endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/booking-requests", h.Create)
	rg.GET("/booking-requests", h.ListMine)
	rg.GET("/booking-requests/:id", h.Get)
	rg.PATCH("/booking-requests/:id", h.UpdateDetails)
	rg.POST("/booking-requests/:id/cancel", h.Cancel)
	rg.POST("/booking-requests/:id/decision", h.Decide)
	rg.GET("/venues/:id/booking-requests", h.ListForVenue)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	br, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking_request": br})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	br, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking_request": br})
}

func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListForUser(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking_requests": list})
}

func (h *Handler) ListForVenue(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	list, err := h.service.ListForVenue(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking_requests": list})
}

func (h *Handler) UpdateDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	br, err := h.service.UpdateDetails(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking_request": br})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	br, err := h.service.Cancel(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking_request": br})
}

func (h *Handler) Decide(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	br, booking, err := h.service.Decide(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	data := gin.H{"booking_request": br}
	if booking != nil {
		data["booking"] = booking
	}
	response.Success(c, http.StatusOK, data)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request payload")
	case ErrReasonRequired:
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A reason is required to reject a booking request")
	case ErrInvalidStatus:
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Decision status must be Accepted or Rejected")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking request not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this booking request")
	case ErrDuplicateActiveBooking:
		response.Error(c, http.StatusConflict, "DUPLICATE_ACTIVE_BOOKING", "An active request or booking already exists for this venue")
	case ErrAlreadyTerminal:
		response.Error(c, http.StatusConflict, "ALREADY_DECIDED", "Booking request is no longer pending")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking request")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id in path")
		return 0, false
	}
	return id, true
}
