package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/application/service"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/internal/presentation/http/dto/request"
	"github.com/translab/translab-api/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Upload handles attaching a payment receipt to an order
func (h *ReceiptHandler) Upload(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.UploadReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.Upload(c.Request.Context(), &service.UploadReceiptInput{
		OrderID:    orderID,
		Amount:     req.Amount,
		Source:     enum.ReceiptSource(req.Source),
		FileID:     req.FileID,
		Comment:    req.Comment,
		UploadedBy: GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt uploaded successfully", receipt)
}

// ListByOrder handles listing all receipts of an order
func (h *ReceiptHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	receipts, err := h.receiptService.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipts retrieved successfully", receipts)
}

// Verify handles verifying a pending receipt, crediting its order
func (h *ReceiptHandler) Verify(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	// The body is optional; verification defaults to the claimed amount.
	var req request.VerifyReceiptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	snap, err := h.receiptService.Verify(c.Request.Context(), &service.VerifyReceiptInput{
		ReceiptID: receiptID,
		ActorID:   *userID,
		Amount:    req.Amount,
		Comment:   req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt verified successfully", snap)
}

// Reject handles rejecting a pending receipt
func (h *ReceiptHandler) Reject(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.RejectReceiptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	receipt, err := h.receiptService.Reject(c.Request.Context(), receiptID, *userID, req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt rejected successfully", receipt)
}
