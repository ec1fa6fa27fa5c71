// File: internal/workitem/service.go
package workitem

import (
	"context"
	"time"

	"influencer_platform_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service applies work item business rules on top of the repository.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new work item service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.Named("WorkItemService")}
}

// Create adds a new work item in the brief_sent state, owned by the caller.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateWorkItemRequest) (*WorkItem, error) {
	item := &WorkItem{
		UserID:      userID,
		CampaignID:  req.CampaignID,
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusBriefSent,
		DueDate:     req.DueDate,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("Work item created",
		zap.String("id", item.ID.String()), zap.String("userID", userID.String()))
	return item, nil
}

// ListOwn returns the caller's work items, newest first.
func (s *Service) ListOwn(ctx context.Context, userID uuid.UUID) ([]WorkItem, error) {
	return s.repo.FindByUser(ctx, userID)
}

// ListAll returns every work item with its owner attached.
func (s *Service) ListAll(ctx context.Context) ([]WithUser, error) {
	items, err := s.repo.FindAllWithUser(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WithUser, 0, len(items))
	for i := range items {
		entry := WithUser{WorkItem: items[i]}
		if items[i].User != nil {
			resp := items[i].User.ToResponse()
			entry.Owner = &resp
		}
		entry.User = nil
		out = append(out, entry)
	}
	return out, nil
}

// SetStatus advances a work item's lifecycle. Only the item's owner or an
// admin may change it; reaching paid stamps the completion time.
func (s *Service) SetStatus(ctx context.Context, id, callerID uuid.UUID, callerRole, status string) (*WorkItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if item.UserID != callerID && callerRole != common.RoleAdmin {
		return nil, common.ErrForbidden.WithDetails("You can only update your own work items.")
	}

	item.Status = status
	if status == StatusPaid && item.CompletedAt == nil {
		now := time.Now()
		item.CompletedAt = &now
	}
	item.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("Work item status updated",
		zap.String("id", item.ID.String()), zap.String("status", item.Status))
	return item, nil
}
