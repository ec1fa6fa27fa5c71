// File: internal/payment/handler.go
package payment

import (
	"errors"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for payment request handlers.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a new payment request handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes sets up payment request routes. Submission and own-listing
// need only a session; review is admin-gated.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	group := router.Group("/api/payment-requests", authMW)
	{
		group.POST("", h.create)
		group.GET("", h.listOwn)
		group.PATCH("/:id/status", adminMW, h.updateStatus)
	}
	router.GET("/api/admin/payment-requests", authMW, adminMW, h.listAll)
}

func (h *Handler) create(c *gin.Context) {
	ident := middleware.GetIdentityFromContext(c)
	if ident == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	pr, err := h.svc.Submit(c.Request.Context(), ident.UserID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Payment request submitted.", pr)
}

func (h *Handler) listOwn(c *gin.Context) {
	ident := middleware.GetIdentityFromContext(c)
	if ident == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	reqs, err := h.svc.ListOwn(c.Request.Context(), ident.UserID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Payment requests retrieved.", reqs)
}

func (h *Handler) listAll(c *gin.Context) {
	reqs, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Payment requests retrieved.", reqs)
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid payment request ID format."))
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

	pr, err := h.svc.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Payment request status updated.", pr)
}
