package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/application/service"
	"github.com/translab/translab-api/internal/presentation/http/dto/request"
	"github.com/translab/translab-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPayment handles recording a payment against an order
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Force-accepting an underpayment is an owner-level override.
	if req.ForceAccept && !IsOwner(c) {
		response.Forbidden(c, "Force accept requires owner privileges")
		return
	}

	snap, err := h.paymentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		OrderID:             orderID,
		ActorID:             *userID,
		Amount:              req.Amount,
		AcceptFully:         req.AcceptFully,
		ForceAccept:         req.ForceAccept,
		ExtraFee:            req.ExtraFee,
		ExtraFeeDescription: req.ExtraFeeDescription,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", snap)
}

// AddExtraFee handles adding an extra fee to an order
func (h *PaymentHandler) AddExtraFee(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.AddExtraFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	snap, err := h.paymentService.AddExtraFee(c.Request.Context(), orderID, req.Amount, req.Description, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Extra fee added successfully", snap)
}

// ResetPayment handles rolling back an order's payment state. Owner only;
// the route guard enforces the role.
func (h *PaymentHandler) ResetPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	snap, err := h.paymentService.ResetPayment(c.Request.Context(), orderID, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment reset successfully", snap)
}
