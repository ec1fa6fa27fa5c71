// File: internal/user/handler.go
package user

import (
	"errors"
	"strconv"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for user operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	router.GET("/api/auth/user", authMW, h.currentUser)

	adminGroup := router.Group("/api/admin/users", authMW, adminMW)
	{
		adminGroup.GET("", h.listUsers)
		adminGroup.PATCH("/:id/role", h.updateRole)
		adminGroup.PATCH("/:id/status", h.updateStatus)
	}
}

// currentUser returns the full user record for the resolved identity, minus
// credential secrets.
func (h *Handler) currentUser(c *gin.Context) {
	ident := middleware.GetIdentityFromContext(c)
	if ident == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	usr, err := h.service.GetByID(c.Request.Context(), ident.UserID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", usr.ToResponse())
}

func (h *Handler) listUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, pagination, err := h.service.List(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]Response, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	common.RespondPaginated(c, "Users retrieved successfully.", responses, pagination)
}

func (h *Handler) updateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid user ID format."))
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, err := h.service.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User role updated.", usr.ToResponse())
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid user ID format."))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, err := h.service.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User status updated.", usr.ToResponse())
}
