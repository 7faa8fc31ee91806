package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/application/service"
	"github.com/translab/translab-api/internal/presentation/http/dto/request"
	"github.com/translab/translab-api/internal/presentation/http/dto/response"
)

// BranchHandler handles center and branch management HTTP requests
type BranchHandler struct {
	branchService *service.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// CreateCenter handles registering a translation center
func (h *BranchHandler) CreateCenter(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	center, err := h.branchService.CreateCenter(c.Request.Context(), &service.CreateCenterInput{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Center created successfully", center)
}

// CreateBranch handles opening a branch office
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	centerID, err := uuid.Parse(req.CenterID)
	if err != nil {
		response.BadRequest(c, "Invalid center ID")
		return
	}

	branch, err := h.branchService.CreateBranch(c.Request.Context(), &service.CreateBranchInput{
		CenterID:    centerID,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		BotToken:    req.BotToken,
		StaffChatID: req.StaffChatID,
		OwnerID:     *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Branch created successfully", branch)
}

// Get handles getting a single branch
func (h *BranchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	branch, err := h.branchService.GetBranch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch retrieved successfully", branch)
}

// ListByCenter handles listing the branches of a center
func (h *BranchHandler) ListByCenter(c *gin.Context) {
	centerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid center ID")
		return
	}

	branches, err := h.branchService.ListBranches(c.Request.Context(), centerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branches retrieved successfully", branches)
}

// Update handles updating a branch
func (h *BranchHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	var req request.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	branch, err := h.branchService.UpdateBranch(c.Request.Context(), &service.UpdateBranchInput{
		ID:          id,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		BotToken:    req.BotToken,
		StaffChatID: req.StaffChatID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch updated successfully", branch)
}
