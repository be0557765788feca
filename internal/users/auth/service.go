// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/platform/constants"
	"github.com/taibuivan/pwdregistry/internal/platform/ctxutil"
	"github.com/taibuivan/pwdregistry/internal/platform/sec"
	"github.com/taibuivan/pwdregistry/internal/platform/validate"
	"github.com/taibuivan/pwdregistry/internal/users/profile"
	"github.com/taibuivan/pwdregistry/pkg/uuid"
)

// # Contracts

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
}

// ProfileService is what the auth flows need from the profile module.
type ProfileService interface {
	Create(ctx context.Context, input profile.CreateInput) (*profile.Profile, error)
	Get(ctx context.Context, userID string) (*profile.Profile, error)
}

// Options tunes the service.
type Options struct {
	PublicBaseURL      string
	VerifyTokenTTL     time.Duration
	ResendConfirmDelay time.Duration
	DefaultRoleID      int
}

// Service implements the account and session use cases.
type Service struct {
	accounts  AccountRepository
	sessions  SessionRepository
	verifying VerificationTokenRepository
	throttle  ResendThrottle
	tokens    TokenProvider
	profiles  ProfileService
	mailer    Mailer
	options   Options
}

// NewService wires the service.
func NewService(
	accounts AccountRepository,
	sessions SessionRepository,
	verifying VerificationTokenRepository,
	throttle ResendThrottle,
	tokens TokenProvider,
	profiles ProfileService,
	mailer Mailer,
	options Options,
) *Service {
	return &Service{
		accounts:  accounts,
		sessions:  sessions,
		verifying: verifying,
		throttle:  throttle,
		tokens:    tokens,
		profiles:  profiles,
		mailer:    mailer,
		options:   options,
	}
}

// # Registration

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	MiddleName string
	LastName   string
	Mobile     string
}

/*
Register creates an unverified account, its profile row with the default
role, and sends the confirmation link.

Returns:
  - *Account: the created account
  - error: VALIDATION_ERROR, CONFLICT for a taken email, or storage failures

A profile failure after the account exists is returned as an error; the
account stays and signs in as a provisional session.
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, MaxNameLength).
		MaxLen(FieldMiddleName, input.MiddleName, MaxNameLength).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, MaxNameLength).
		Mobile(FieldMobile, input.Mobile)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	exists, err := service.accounts.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_email_check_failed: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := service.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(ctx)

	_, err = service.profiles.Create(ctx, profile.CreateInput{
		UserID:     account.ID,
		FirstName:  input.FirstName,
		MiddleName: input.MiddleName,
		LastName:   input.LastName,
		Mobile:     input.Mobile,
		RoleID:     service.options.DefaultRoleID,
	})
	if err != nil {
		logger.Error("auth_profile_create_failed", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, err
	}

	if err := service.issueConfirmation(ctx, account); err != nil {
		// The account exists either way; the user can ask for a resend.
		logger.Warn("auth_confirmation_issue_failed", slog.String("account_id", account.ID), slog.Any("error", err))
	}

	logger.Info("auth_account_registered", slog.String("account_id", account.ID))
	return account, nil
}

// # Authentication

// LoginInput is a credential check.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession is the result of a login or refresh.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	Account               *Account
}

/*
Login checks credentials and opens a session.

Unknown emails and wrong passwords are indistinguishable (UNAUTHORIZED).
Correct credentials on an unconfirmed account yield EMAIL_NOT_CONFIRMED.
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginSession, error) {
	account, err := service.accounts.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !account.IsVerified {
		return nil, apperr.EmailNotConfirmed()
	}

	issued, session, err := service.issue(ctx, account, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}
	if err := service.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}
	return issued, nil
}

// Logout revokes the session of refreshToken. Unknown tokens succeed.
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	session, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil
		}
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	if err := service.sessions.Revoke(ctx, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

/*
RefreshSession rotates a refresh token: the presented session is revoked and
a new pair is issued in the same transaction, so a token can be exchanged
only once. The role claim is re-read from the profile.
*/
func (service *Service) RefreshSession(ctx context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	previous, err := service.sessions.FindByTokenHash(ctx, sec.HashToken(refreshToken))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	account, err := service.accounts.FindByID(ctx, previous.AccountID)
	if err != nil {
		return nil, apperr.Unauthorized("Account no longer exists")
	}

	issued, next, err := service.issue(ctx, account, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	if err := service.sessions.Rotate(ctx, previous.ID, next); err != nil {
		if apperr.HasCode(err, apperr.CodeUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_refresh_rotate_failed: %w", err)
	}
	return issued, nil
}

// # Email Confirmation

// VerifyEmail confirms the account holding token.
func (service *Service) VerifyEmail(ctx context.Context, token string) error {
	accountID, err := service.verifying.Get(ctx, token)
	if err != nil {
		return err
	}

	if err := service.accounts.MarkVerified(ctx, accountID); err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	_ = service.verifying.Delete(ctx, token)
	ctxutil.GetLogger(ctx).Info("auth_email_confirmed", slog.String("account_id", accountID))
	return nil
}

/*
ResendConfirmation mails a fresh link to an unconfirmed account.

Unknown and already confirmed addresses succeed silently so the endpoint
cannot be used to probe for accounts. Repeated calls inside the resend window
are RATE_LIMITED.
*/
func (service *Service) ResendConfirmation(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	validator := &validate.Validator{}
	if err := validator.Required(FieldEmail, email).Email(FieldEmail, email).Err(); err != nil {
		return err
	}

	acquired, err := service.throttle.Acquire(ctx, email, service.options.ResendConfirmDelay)
	if err != nil {
		return fmt.Errorf("auth_service_resend_throttle_failed: %w", err)
	}
	if !acquired {
		return apperr.RateLimited(int(service.options.ResendConfirmDelay.Seconds()))
	}

	account, err := service.accounts.FindByEmail(ctx, email)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil
		}
		return fmt.Errorf("auth_service_resend_lookup_failed: %w", err)
	}
	if account.IsVerified {
		return nil
	}

	return service.issueConfirmation(ctx, account)
}

// # Lookups

// EmailExists reports whether email is registered.
func (service *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, validate.RequiredError(FieldEmail, "This field is required")
	}
	return service.accounts.EmailExists(ctx, email)
}

// Identity returns the public view of accountID.
func (service *Service) Identity(ctx context.Context, accountID string) (*Identity, error) {
	account, err := service.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	identity := account.Identity()
	return &identity, nil
}

// # Internals

// issue signs a token pair for account. The returned session row is not
// persisted yet.
func (service *Service) issue(ctx context.Context, account *Account, userAgent, ipAddress string) (*LoginSession, *Session, error) {
	role := service.roleOf(ctx, account.ID)

	accessToken, err := service.tokens.GenerateAccessToken(account.ID, account.Email, role, constants.AccessTokenTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(constants.RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		AccountID: account.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		Account:               account,
	}, session, nil
}

// roleOf reads the role for the token claim. A missing profile or role
// leaves the claim empty, which only grants authenticated-only routes.
func (service *Service) roleOf(ctx context.Context, accountID string) string {
	p, err := service.profiles.Get(ctx, accountID)
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			ctxutil.GetLogger(ctx).Warn("auth_role_lookup_failed",
				slog.String("account_id", accountID),
				slog.Any("error", err),
			)
		}
		return ""
	}
	return string(sec.ParseRole(p.RoleName))
}

func (service *Service) issueConfirmation(ctx context.Context, account *Account) error {
	token, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_verify_token_failed: %w", err)
	}

	if err := service.verifying.Set(ctx, token, account.ID, service.options.VerifyTokenTTL); err != nil {
		return fmt.Errorf("auth_service_save_verify_token_failed: %w", err)
	}

	link := ConfirmationLink(service.options.PublicBaseURL, token)
	if err := service.mailer.SendConfirmation(ctx, account.Email, link); err != nil {
		return fmt.Errorf("auth_service_send_confirmation_failed: %w", err)
	}
	return nil
}
