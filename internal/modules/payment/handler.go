package payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"venuebook/internal/gateway/khalti"
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
	rg.POST("/payments/initiate", h.Initiate)
	rg.POST("/payments/verify", h.Verify)
	rg.POST("/payments/refund", h.Refund)
	rg.GET("/payments", h.ListMine)
	rg.GET("/bookings/:id/payment", h.GetByBooking)
}

func (h *Handler) Initiate(c *gin.Context) {
	var req InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.Initiate(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"payment": resp})
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), middleware.ActorFrom(c), req.Pidx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verification": resp})
}

func (h *Handler) Refund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Refund(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) GetByBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking id")
		return
	}

	p, err := h.service.GetByBooking(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.service.ListMine(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": list})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment payload")
	case errors.Is(err, ErrBelowMinimum):
		response.Error(c, http.StatusBadRequest, "BELOW_MINIMUM_ADVANCE", "Amount is below the minimum advance")
	case errors.Is(err, ErrExceedsExpected):
		response.Error(c, http.StatusConflict, "EXCEEDS_BALANCE", "Amount exceeds the outstanding balance")
	case errors.Is(err, ErrAmountMismatch):
		response.Error(c, http.StatusConflict, "AMOUNT_MISMATCH", "Gateway amount does not match the initiated amount")
	case errors.Is(err, ErrNothingToRefund):
		response.Error(c, http.StatusConflict, "NOTHING_TO_REFUND", "There is no settled amount to refund")
	case errors.Is(err, ErrRefundExceedsNet):
		response.Error(c, http.StatusConflict, "REFUND_EXCEEDS_NET", "Refund exceeds the net amount paid")
	case errors.Is(err, ErrPaymentNotCompleted):
		response.Error(c, http.StatusConflict, "PAYMENT_NOT_COMPLETED", "Gateway does not report the payment as completed")
	case errors.Is(err, ErrBookingNotPayable):
		response.Error(c, http.StatusConflict, "BOOKING_NOT_PAYABLE", "Booking cannot accept payments in its current state")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment or booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this payment")
	case errors.Is(err, khalti.ErrUnreachable):
		response.Error(c, http.StatusBadGateway, "GATEWAY_UNREACHABLE", "Payment gateway is unreachable, try again later")
	case errors.Is(err, khalti.ErrRejected):
		response.Error(c, http.StatusBadGateway, "GATEWAY_REJECTED", "Payment gateway rejected the request")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process payment")
	}
}
