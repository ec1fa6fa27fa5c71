// File: internal/invite/handler.go
package invite

import (
	"errors"

	"influencer_platform_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for admin invite handlers.
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

// NewHandler creates a new invite handler.
func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes sets up admin-only invite management routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	group := router.Group("/api/admin/invites", authMW, adminMW)
	{
		group.POST("", h.create)
		group.GET("", h.list)
		group.DELETE("/:id", h.delete)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	inv := &AdminInvite{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    StatusPending,
	}
	if err := h.repo.Create(c.Request.Context(), inv); err != nil {
		common.RespondWithError(c, err)
		return
	}
	h.logger.Info("Admin invite created", zap.String("email", inv.Email))
	common.RespondCreated(c, "Admin invite created.", inv)
}

func (h *Handler) list(c *gin.Context) {
	invites, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Admin invites retrieved.", invites)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid invite ID format."))
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
