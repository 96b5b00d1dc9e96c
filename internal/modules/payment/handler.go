package payment

import (
	"errors"
	"net/http"
	"strconv"

	"tourbook/internal/gateway/stripe"
	"tourbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/:bookingID/cash", h.ProcessCash)
	rg.POST("/payments/:bookingID/checkout", h.CreateCheckout)
	rg.GET("/payments/:bookingID/status", h.GetStatus)
}

// RegisterOperatorRoutes holds the endpoints main guards with OperatorOnly.
func (h *Handler) RegisterOperatorRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/:bookingID/settle-cash", h.SettleCash)
}

func (h *Handler) ProcessCash(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	res, err := h.service.ProcessCashPayment(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err, "Failed to process cash payment")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) SettleCash(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	res, err := h.service.SettleCashPayment(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to settle cash payment")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) CreateCheckout(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	sess, err := h.service.CreateCheckoutSession(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err, "Failed to create checkout session")
		return
	}
	response.Success(c, http.StatusCreated, sess)
}

func (h *Handler) GetStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	snap, err := h.service.GetPaymentStatus(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err, "Failed to get payment status")
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusConflict, "ALREADY_PAID", "This booking has already been paid")
	case errors.Is(err, ErrInvalidAmount):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_AMOUNT", "Invalid payment amount, please check the tour price")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Booking is not in a payable state")
	case errors.Is(err, stripe.ErrGatewayTransient):
		response.Error(c, http.StatusBadGateway, "GATEWAY_UNAVAILABLE", "Payment service is temporarily unavailable, please try again later")
	case errors.Is(err, stripe.ErrGatewayRejected):
		response.Error(c, http.StatusBadRequest, "PAYMENT_REJECTED", "Payment request was rejected, please check your payment details")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("bookingID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return 0, false
	}
	return id, true
}
