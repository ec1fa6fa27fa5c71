// File: internal/profile/handler.go
package profile

import (
	"errors"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for influencer profile handlers.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a new influencer profile handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes sets up influencer profile routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	group := router.Group("/api/influencer-profile", authMW)
	{
		group.POST("", h.create)
		group.GET("", h.getOwn)
		group.PATCH("", h.patch)
	}
	router.GET("/api/admin/influencers", authMW, adminMW, h.listAll)
}

func (h *Handler) bind(c *gin.Context, req *UpsertProfileRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		} else {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		}
		return false
	}
	return true
}

func (h *Handler) create(c *gin.Context) {
	ident := middleware.GetIdentityFromContext(c)
	if ident == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req UpsertProfileRequest
	if !h.bind(c, &req) {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), ident.UserID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Influencer profile created.", p)
}

func (h *Handler) getOwn(c *gin.Context) {
	ident := middleware.GetIdentityFromContext(c)
	if ident == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	p, err := h.svc.GetOwn(c.Request.Context(), ident.UserID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Influencer profile retrieved.", p)
}

func (h *Handler) patch(c *gin.Context) {
	ident := middleware.GetIdentityFromContext(c)
	if ident == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req UpsertProfileRequest
	if !h.bind(c, &req) {
		return
	}

	p, err := h.svc.Patch(c.Request.Context(), ident.UserID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Influencer profile updated.", p)
}

func (h *Handler) listAll(c *gin.Context) {
	profiles, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Influencers retrieved.", profiles)
}
