package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/repository"
	infraRepo "github.com/translab/translab-api/internal/infrastructure/repository"
	"github.com/translab/translab-api/internal/presentation/http/dto/response"
)

// BranchIDHeader selects which branch office a request operates on
const BranchIDHeader = "X-Branch-ID"

// BranchMiddleware resolves the branch from the request header, verifies the
// authenticated user may act in it, and scopes the request context so every
// repository query is confined to that branch.
func BranchMiddleware(branchRepo repository.BranchRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(BranchIDHeader)
		if header == "" {
			response.BadRequest(c, "X-Branch-ID header is required")
			c.Abort()
			return
		}

		branchID, err := uuid.Parse(header)
		if err != nil {
			response.BadRequest(c, "Invalid branch ID")
			c.Abort()
			return
		}

		branch, err := branchRepo.GetByID(c.Request.Context(), branchID)
		if err != nil || branch == nil {
			response.NotFound(c, "Branch not found")
			c.Abort()
			return
		}

		userIDVal, exists := c.Get("user_id")
		if exists {
			userID, ok := userIDVal.(uuid.UUID)
			if ok && userID != uuid.Nil {
				role, _ := c.Get("user_role")
				if role != entity.RoleOwner {
					isMember, _ := branchRepo.IsMember(c.Request.Context(), branch.ID, userID)
					if !isMember {
						response.Forbidden(c, "Access denied to this branch")
						c.Abort()
						return
					}
				}
			}
		}

		c.Set("branch_id", branch.ID)
		c.Set("branch", branch)

		ctx := infraRepo.WithBranch(c.Request.Context(), branch.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetBranchID retrieves the branch ID from gin context
func GetBranchID(c *gin.Context) uuid.UUID {
	branchID, exists := c.Get("branch_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := branchID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
