// File: internal/payment/service_test.go
package payment

import (
	"context"
	"errors"
	"testing"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&user.User{}, &PaymentRequest{}))
	return NewService(NewGORMRepository(db), zap.NewNop()), db
}

func TestSubmitStartsPending(t *testing.T) {
	svc, _ := newTestService(t)
	owner := uuid.New()

	pr, err := svc.Submit(context.Background(), owner, CreatePaymentRequestRequest{Amount: "1500.00"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, pr.Status)
	assert.Equal(t, owner, pr.UserID)
	assert.False(t, pr.SubmittedAt.IsZero())
}

func TestListOwnScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	_, err := svc.Submit(ctx, a, CreatePaymentRequestRequest{Amount: "100"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, b, CreatePaymentRequestRequest{Amount: "200"})
	require.NoError(t, err)

	own, err := svc.ListOwn(ctx, a)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "100", own[0].Amount)
}

func TestSetStatusRecordsDecisionAndNotes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	pr, err := svc.Submit(ctx, uuid.New(), CreatePaymentRequestRequest{Amount: "100"})
	require.NoError(t, err)

	notes := "invoice checked"
	reviewed, err := svc.SetStatus(ctx, pr.ID, UpdateStatusRequest{Status: StatusApproved, AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.AdminNotes)
	assert.Equal(t, "invoice checked", *reviewed.AdminNotes)

	// Notes survive a follow-up decision that omits them.
	paid, err := svc.SetStatus(ctx, pr.ID, UpdateStatusRequest{Status: StatusPaid})
	require.NoError(t, err)
	require.NotNil(t, paid.AdminNotes)
	assert.Equal(t, "invoice checked", *paid.AdminNotes)
}

func TestSetStatusUnknownRequest(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetStatus(context.Background(), uuid.New(), UpdateStatusRequest{Status: StatusRejected})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestListAllAttachesOwner(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	email := "a@x.com"
	owner := &user.User{Email: &email, Role: common.RoleInfluencer, AuthProvider: common.ProviderEmail}
	require.NoError(t, db.Create(owner).Error)

	_, err := svc.Submit(ctx, owner.ID, CreatePaymentRequestRequest{Amount: "100"})
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Owner)
	require.NotNil(t, all[0].Owner.Email)
	assert.Equal(t, "a@x.com", *all[0].Owner.Email)
}
