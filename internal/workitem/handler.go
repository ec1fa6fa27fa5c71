// File: internal/workitem/handler.go
package workitem

import (
	"errors"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for work item handlers.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a new work item handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes sets up work item routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	group := router.Group("/api/work-items", authMW)
	{
		group.POST("", h.create)
		group.GET("", h.listOwn)
		group.PATCH("/:id/status", h.updateStatus)
	}
	router.GET("/api/admin/work-items", authMW, adminMW, h.listAll)
}

func (h *Handler) create(c *gin.Context) {
	ident := middleware.GetIdentityFromContext(c)
	if ident == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req CreateWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	item, err := h.svc.Create(c.Request.Context(), ident.UserID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Work item created.", item)
}

func (h *Handler) listOwn(c *gin.Context) {
	ident := middleware.GetIdentityFromContext(c)
	if ident == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	items, err := h.svc.ListOwn(c.Request.Context(), ident.UserID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Work items retrieved.", items)
}

func (h *Handler) listAll(c *gin.Context) {
	items, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Work items retrieved.", items)
}

func (h *Handler) updateStatus(c *gin.Context) {
	ident := middleware.GetIdentityFromContext(c)
	if ident == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid work item ID format."))
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

	item, err := h.svc.SetStatus(c.Request.Context(), id, ident.UserID, ident.Role, req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Work item status updated.", item)
}
