// File: internal/auth/service_test.go
package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/invite"
	"influencer_platform_backend/internal/user"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeSender records outbound mail and can be told to fail.
type fakeSender struct {
	verificationTokens map[string]string // email -> last token
	resetTokens        map[string]string
	welcomes           []string
	fail               bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		verificationTokens: make(map[string]string),
		resetTokens:        make(map[string]string),
	}
}

func (f *fakeSender) SendVerificationEmail(to, firstName, token string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.verificationTokens[to] = token
	return nil
}

func (f *fakeSender) SendWelcomeEmail(to, firstName string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.welcomes = append(f.welcomes, to)
	return nil
}

func (f *fakeSender) SendPasswordResetEmail(to, firstName, token string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.resetTokens[to] = token
	return nil
}

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	users   user.Repository
	invites invite.Repository
	sender  *fakeSender
	svc     *Service
	ctx     context.Context
}

func (s *AuthServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(&user.User{}, &invite.AdminInvite{}))

	s.db = db
	s.users = user.NewGORMRepository(db)
	s.invites = invite.NewGORMRepository(db)
	s.sender = newFakeSender()
	s.svc = NewService(s.users, s.invites, s.sender, zap.NewNop())
	s.ctx = context.Background()
}

func (s *AuthServiceTestSuite) register(email string) *user.User {
	usr, err := s.svc.Register(s.ctx, RegisterRequest{
		Email:     email,
		Password:  "password1",
		FirstName: "Test",
		LastName:  "User",
	})
	s.Require().NoError(err)
	return usr
}

func (s *AuthServiceTestSuite) TestRegisterCreatesUnverifiedInactiveAccount() {
	usr := s.register("a@x.com")

	s.False(usr.IsActive)
	s.False(usr.EmailVerified)
	s.Equal(common.RoleInfluencer, usr.Role)
	s.Equal(common.ProviderEmail, usr.AuthProvider)
	s.NotNil(usr.EmailVerificationToken)
	s.NotNil(usr.EmailVerificationExpires)
	s.NotEmpty(s.sender.verificationTokens["a@x.com"])

	// The inactive flag must survive the insert; a column default must not
	// override the explicit false.
	var persisted user.User
	s.Require().NoError(s.db.First(&persisted, "id = ?", usr.ID).Error)
	s.False(persisted.IsActive)
	s.False(persisted.EmailVerified)
}

func (s *AuthServiceTestSuite) TestLoginBlockedUntilVerified() {
	s.register("a@x.com")

	_, err := s.svc.Login(s.ctx, "a@x.com", "password1")
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrForbidden))

	token := s.sender.verificationTokens["a@x.com"]
	verified, err := s.svc.VerifyEmail(s.ctx, token)
	s.Require().NoError(err)
	s.True(verified.EmailVerified)
	s.True(verified.IsActive)

	loggedIn, err := s.svc.Login(s.ctx, "a@x.com", "password1")
	s.Require().NoError(err)
	s.Equal(common.RoleInfluencer, loggedIn.Role)
	s.Contains(s.sender.welcomes, "a@x.com")
}

func (s *AuthServiceTestSuite) TestRegisterConflictMessagesAreProviderAware() {
	s.register("a@x.com")

	_, err := s.svc.Register(s.ctx, RegisterRequest{
		Email: "a@x.com", Password: "password1", FirstName: "T", LastName: "U",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrConflict))
	apiErr, ok := common.IsAPIError(err)
	s.Require().True(ok)
	s.Contains(apiErr.Details, "sign in instead")

	// A Google-provisioned account must steer the caller to the Google button.
	_, err = s.svc.HandleGoogleSignIn(s.ctx, GoogleProfile{
		Sub: "sub-g", Email: "g@x.com", EmailVerified: true, GivenName: "G",
	})
	s.Require().NoError(err)

	_, err = s.svc.Register(s.ctx, RegisterRequest{
		Email: "g@x.com", Password: "password1", FirstName: "T", LastName: "U",
	})
	s.Require().Error(err)
	apiErr, ok = common.IsAPIError(err)
	s.Require().True(ok)
	s.Contains(apiErr.Details, "Sign in with Google")
}

func (s *AuthServiceTestSuite) TestVerificationTokenIsSingleUse() {
	s.register("a@x.com")
	token := s.sender.verificationTokens["a@x.com"]

	_, err := s.svc.VerifyEmail(s.ctx, token)
	s.Require().NoError(err)

	_, err = s.svc.VerifyEmail(s.ctx, token)
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrNotFound))
}

func (s *AuthServiceTestSuite) TestExpiredVerificationTokenRejected() {
	usr := s.register("a@x.com")

	past := time.Now().Add(-time.Second)
	usr.EmailVerificationExpires = &past
	s.Require().NoError(s.users.Update(s.ctx, usr))

	token := s.sender.verificationTokens["a@x.com"]
	_, err := s.svc.VerifyEmail(s.ctx, token)
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrTokenExpired))
}

func (s *AuthServiceTestSuite) TestResendVerificationReplacesToken() {
	s.register("a@x.com")
	first := s.sender.verificationTokens["a@x.com"]

	s.Require().NoError(s.svc.ResendVerification(s.ctx, "a@x.com"))
	second := s.sender.verificationTokens["a@x.com"]
	s.NotEqual(first, second)

	// The replaced token no longer resolves.
	_, err := s.svc.VerifyEmail(s.ctx, first)
	s.True(errors.Is(err, common.ErrNotFound))

	_, err = s.svc.VerifyEmail(s.ctx, second)
	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestResendVerificationOnVerifiedAccount() {
	s.register("a@x.com")
	_, err := s.svc.VerifyEmail(s.ctx, s.sender.verificationTokens["a@x.com"])
	s.Require().NoError(err)

	err = s.svc.ResendVerification(s.ctx, "a@x.com")
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrConflict))
}

func (s *AuthServiceTestSuite) TestMailFailureSwallowedAtRegistrationOnly() {
	s.sender.fail = true

	usr, err := s.svc.Register(s.ctx, RegisterRequest{
		Email: "a@x.com", Password: "password1", FirstName: "T", LastName: "U",
	})
	s.Require().NoError(err, "registration must survive a failing mail provider")
	s.NotNil(usr)

	// An explicit resend is the product; its failure propagates.
	err = s.svc.ResendVerification(s.ctx, "a@x.com")
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrServiceUnavailable))

	err = s.svc.RequestPasswordReset(s.ctx, "a@x.com")
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrServiceUnavailable))
}

func (s *AuthServiceTestSuite) TestLoginFailureModes() {
	_, err := s.svc.Login(s.ctx, "nobody@x.com", "password1")
	s.True(errors.Is(err, common.ErrNotFound))

	s.register("a@x.com")
	_, err = s.svc.VerifyEmail(s.ctx, s.sender.verificationTokens["a@x.com"])
	s.Require().NoError(err)

	_, err = s.svc.Login(s.ctx, "a@x.com", "wrong-password")
	s.True(errors.Is(err, common.ErrUnauthorized))

	// Deactivated by an operator after verification.
	usr, err := s.users.FindByEmail(s.ctx, "a@x.com")
	s.Require().NoError(err)
	usr.IsActive = false
	s.Require().NoError(s.users.Update(s.ctx, usr))

	_, err = s.svc.Login(s.ctx, "a@x.com", "password1")
	s.Require().Error(err)
	apiErr, ok := common.IsAPIError(err)
	s.Require().True(ok)
	s.Contains(apiErr.Details, "deactivated")
}

func (s *AuthServiceTestSuite) TestPasswordLoginOnGoogleAccount() {
	_, err := s.svc.HandleGoogleSignIn(s.ctx, GoogleProfile{
		Sub: "sub-g", Email: "g@x.com", EmailVerified: true,
	})
	s.Require().NoError(err)

	_, err = s.svc.Login(s.ctx, "g@x.com", "anything-at-all")
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrForbidden))
}

func (s *AuthServiceTestSuite) TestResetPasswordIsSingleUse() {
	s.register("a@x.com")
	_, err := s.svc.VerifyEmail(s.ctx, s.sender.verificationTokens["a@x.com"])
	s.Require().NoError(err)

	s.Require().NoError(s.svc.RequestPasswordReset(s.ctx, "a@x.com"))
	token := s.sender.resetTokens["a@x.com"]

	_, err = s.svc.ResetPassword(s.ctx, token, "brand-new-pass")
	s.Require().NoError(err)

	_, err = s.svc.Login(s.ctx, "a@x.com", "brand-new-pass")
	s.NoError(err)

	_, err = s.svc.ResetPassword(s.ctx, token, "another-pass")
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrNotFound))
}

func (s *AuthServiceTestSuite) TestExpiredResetTokenRejected() {
	s.register("a@x.com")
	s.Require().NoError(s.svc.RequestPasswordReset(s.ctx, "a@x.com"))

	usr, err := s.users.FindByEmail(s.ctx, "a@x.com")
	s.Require().NoError(err)
	past := time.Now().Add(-time.Second)
	usr.PasswordResetExpires = &past
	s.Require().NoError(s.users.Update(s.ctx, usr))

	_, err = s.svc.ResetPassword(s.ctx, s.sender.resetTokens["a@x.com"], "new-password")
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrTokenExpired))
}

func (s *AuthServiceTestSuite) TestResetRefusedForGoogleAccount() {
	_, err := s.svc.HandleGoogleSignIn(s.ctx, GoogleProfile{
		Sub: "sub-g", Email: "g@x.com", EmailVerified: true,
	})
	s.Require().NoError(err)

	err = s.svc.RequestPasswordReset(s.ctx, "g@x.com")
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrForbidden))
}

func (s *AuthServiceTestSuite) TestGoogleSignInIsIdempotent() {
	profile := GoogleProfile{
		Sub: "sub-1", Email: "g@x.com", EmailVerified: true,
		GivenName: "G", FamilyName: "User", Picture: "https://img.example/p.png",
	}

	first, err := s.svc.HandleGoogleSignIn(s.ctx, profile)
	s.Require().NoError(err)
	s.True(first.EmailVerified)
	s.True(first.IsActive)
	s.Nil(first.HashedPassword)
	s.Equal(common.RoleInfluencer, first.Role)

	second, err := s.svc.HandleGoogleSignIn(s.ctx, profile)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	var count int64
	s.db.Model(&user.User{}).Count(&count)
	s.EqualValues(1, count)
}

func (s *AuthServiceTestSuite) TestGoogleSignInLinksExistingEmailAccount() {
	registered := s.register("a@x.com")
	_, err := s.svc.VerifyEmail(s.ctx, s.sender.verificationTokens["a@x.com"])
	s.Require().NoError(err)

	linked, err := s.svc.HandleGoogleSignIn(s.ctx, GoogleProfile{
		Sub: "sub-1", Email: "a@x.com", EmailVerified: true, Picture: "https://img.example/p.png",
	})
	s.Require().NoError(err)

	s.Equal(registered.ID, linked.ID, "linking must not create a duplicate")
	s.Equal(common.ProviderGoogle, linked.AuthProvider)
	s.Require().NotNil(linked.GoogleID)
	s.Equal("sub-1", *linked.GoogleID)
	s.Equal(common.RoleInfluencer, linked.Role, "role survives linking")
	s.Require().NotNil(linked.ProfileImageURL)
	s.Equal("https://img.example/p.png", *linked.ProfileImageURL)
}

func (s *AuthServiceTestSuite) TestGoogleLinkCompletesVerification() {
	s.register("a@x.com")

	linked, err := s.svc.HandleGoogleSignIn(s.ctx, GoogleProfile{
		Sub: "sub-1", Email: "a@x.com", EmailVerified: true,
	})
	s.Require().NoError(err)

	s.True(linked.EmailVerified, "Google's verified claim stands in for the email link")
	s.True(linked.IsActive)
	s.Nil(linked.EmailVerificationToken)
	s.Nil(linked.EmailVerificationExpires)

	// The password still works afterwards.
	_, err = s.svc.Login(s.ctx, "a@x.com", "password1")
	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestDeactivatedAccountCannotGoogleSignIn() {
	created, err := s.svc.HandleGoogleSignIn(s.ctx, GoogleProfile{
		Sub: "sub-1", Email: "g@x.com", EmailVerified: true,
	})
	s.Require().NoError(err)

	created.IsActive = false
	s.Require().NoError(s.users.Update(s.ctx, created))

	_, err = s.svc.HandleGoogleSignIn(s.ctx, GoogleProfile{
		Sub: "sub-1", Email: "g@x.com", EmailVerified: true,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrForbidden))
	apiErr, ok := common.IsAPIError(err)
	s.Require().True(ok)
	s.Contains(apiErr.Details, "deactivated")
}

func (s *AuthServiceTestSuite) TestUnverifiedGoogleEmailDoesNotLink() {
	s.register("a@x.com")

	_, err := s.svc.HandleGoogleSignIn(s.ctx, GoogleProfile{
		Sub: "sub-1", Email: "a@x.com", EmailVerified: false,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, common.ErrForbidden))

	usr, err := s.users.FindByEmail(s.ctx, "a@x.com")
	s.Require().NoError(err)
	s.Equal(common.ProviderEmail, usr.AuthProvider, "unverified claim must not merge providers")
	s.Nil(usr.GoogleID)
}

func (s *AuthServiceTestSuite) TestPendingInvitePromotesToAdmin() {
	inv := &invite.AdminInvite{
		Email:     "b@x.com",
		FirstName: "B",
		LastName:  "X",
		Status:    invite.StatusPending,
	}
	s.Require().NoError(s.invites.Create(s.ctx, inv))

	usr := s.register("b@x.com")
	s.Equal(common.RoleAdmin, usr.Role)

	var stored invite.AdminInvite
	s.Require().NoError(s.db.First(&stored, "email = ?", "b@x.com").Error)
	s.Equal(invite.StatusAccepted, stored.Status)
}

func (s *AuthServiceTestSuite) TestRequestedAdminRoleIgnoredWithoutInvite() {
	usr, err := s.svc.Register(s.ctx, RegisterRequest{
		Email: "a@x.com", Password: "password1", FirstName: "T", LastName: "U",
		Role: common.RoleAdmin,
	})
	s.Require().NoError(err)
	s.Equal(common.RoleInfluencer, usr.Role)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
