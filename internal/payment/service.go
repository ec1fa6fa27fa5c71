// File: internal/payment/service.go
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service applies the payment request business rules on top of the repository.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new payment request service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.Named("PaymentService")}
}

// Submit creates a new pending payment request owned by the caller.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req CreatePaymentRequestRequest) (*PaymentRequest, error) {
	pr := &PaymentRequest{
		UserID:      userID,
		CampaignID:  req.CampaignID,
		Amount:      req.Amount,
		Status:      StatusPending,
		InvoiceURL:  req.InvoiceURL,
		ContentURL:  req.ContentURL,
		SubmittedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, pr); err != nil {
		return nil, err
	}
	s.logger.Info("Payment request submitted",
		zap.String("id", pr.ID.String()), zap.String("userID", userID.String()))
	return pr, nil
}

// ListOwn returns the caller's payment requests, newest first.
func (s *Service) ListOwn(ctx context.Context, userID uuid.UUID) ([]PaymentRequest, error) {
	return s.repo.FindByUser(ctx, userID)
}

// ListAll returns every payment request with its owner attached, for review.
func (s *Service) ListAll(ctx context.Context) ([]WithUser, error) {
	reqs, err := s.repo.FindAllWithUser(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WithUser, 0, len(reqs))
	for i := range reqs {
		entry := WithUser{PaymentRequest: reqs[i]}
		if reqs[i].User != nil {
			resp := reqs[i].User.ToResponse()
			entry.Owner = &resp
		}
		entry.User = nil
		out = append(out, entry)
	}
	return out, nil
}

// SetStatus records an admin review decision on a payment request.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*PaymentRequest, error) {
	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pr.Status = req.Status
	if req.AdminNotes != nil {
		pr.AdminNotes = req.AdminNotes
	}
	pr.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, pr); err != nil {
		return nil, err
	}
	s.logger.Info("Payment request status updated",
		zap.String("id", pr.ID.String()), zap.String("status", pr.Status))
	return pr, nil
}
