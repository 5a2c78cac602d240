package catalog

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

// RegisterRoutes mounts the public catalog surface.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/venues", h.List)
	rg.GET("/venues/:id", h.Get)
}

// RegisterOwnerRoutes mounts catalog management behind the owner role.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.POST("/venues", h.CreateVenue)
	rg.POST("/venues/:id/halls", h.AddHall)
	rg.POST("/venues/:id/foods", h.AddFood)
}

func (h *Handler) CreateVenue(c *gin.Context) {
	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	v, err := h.service.CreateVenue(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"venue": v})
}

func (h *Handler) AddHall(c *gin.Context) {
	id, ok := venueID(c)
	if !ok {
		return
	}
	var req AddHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	hall, err := h.service.AddHall(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"hall": hall})
}

func (h *Handler) AddFood(c *gin.Context) {
	id, ok := venueID(c)
	if !ok {
		return
	}
	var req AddFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	food, err := h.service.AddFood(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"food": food})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := venueID(c)
	if !ok {
		return
	}
	v, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"venue": v})
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	venues, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"venues": venues})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid venue payload")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Venue not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this venue")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process venue request")
	}
}

func venueID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid venue id")
		return 0, false
	}
	return id, true
}
