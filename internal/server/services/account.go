// Package services implements the application logic between the HTTP
// handlers and the repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/dbx"
	"github.com/higherpolynomia/backend/internal/logging"
	"github.com/higherpolynomia/backend/internal/server/auth"
	"github.com/higherpolynomia/backend/internal/server/config"
	"github.com/higherpolynomia/backend/internal/server/mail"
	"github.com/higherpolynomia/backend/internal/server/models"
	"github.com/higherpolynomia/backend/internal/server/otp"
	"github.com/higherpolynomia/backend/internal/server/repositories/repomanager"
)

// Session is the result of a successful token verification: the identity
// the request runs as.
type Session struct {
	AccountID    string
	Email        string
	TokenVersion int64
}

// AccountService handles signup, email verification, login and password
// reset. Login mints the bearer credential; VerifyToken is the check every
// protected request goes through.
type AccountService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	otpStore              otp.Store
	limiter               *otp.SendLimiter
	mailer                mail.Sender
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	otpLength             int
	otpValidityDuration   time.Duration
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, store otp.Store,
	mailer mail.Sender, logger logging.Logger, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                    db,
		repomanager:           m,
		otpStore:              store,
		limiter:               otp.NewSendLimiter(cfg.OTPSendsPerHour),
		mailer:                mailer,
		logger:                logger.With("service", "account"),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		otpLength:             cfg.OTPLength,
		otpValidityDuration:   cfg.OTPValidityDuration,
	}
}

// Signup validates the registration request, stores a pending record in
// the expiring store and emails a verification code. No account row is
// created until the code is confirmed. Re-signup for the same email
// replaces the pending record and issues a fresh code.
func (s *AccountService) Signup(ctx context.Context, name, email, password, phone string) error {
	if name == "" || email == "" || password == "" {
		return common.ErrorValidation
	}

	repo := s.repomanager.Accounts(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return common.ErrorInternal
	}

	if !s.limiter.Allow(email) {
		return common.ErrOTPThrottle
	}

	code, err := otp.Generate(s.otpLength)
	if err != nil {
		return common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	pending := &models.PendingSignup{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		OTP:          code,
	}

	if err := s.otpStore.SavePendingSignup(ctx, pending, s.otpValidityDuration); err != nil {
		return fmt.Errorf("saving pending signup: %w", err)
	}

	html := mail.SignupOTPHTML(name, code, s.otpValidityDuration)
	if err := s.mailer.Send(ctx, email, mail.OTPSubject(mail.OTPSignup), html); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}

	return nil
}

// VerifyOTP confirms the code sent at signup and creates the account with
// token_version 0. The pending record is consumed so a code cannot be
// replayed.
func (s *AccountService) VerifyOTP(ctx context.Context, email, code string) (*models.Account, error) {
	pending, err := s.otpStore.GetPendingSignup(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrOTPExpired) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	if !otp.Matches(pending.OTP, code) {
		return nil, common.ErrOTPMismatch
	}

	repo := s.repomanager.Accounts(s.db)

	account, err := repo.Create(ctx, &models.Account{
		Name:         pending.Name,
		Email:        pending.Email,
		Phone:        pending.Phone,
		PasswordHash: pending.PasswordHash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	if err := s.otpStore.DeletePendingSignup(ctx, email); err != nil {
		s.logger.Warn(ctx, "failed to consume pending signup", "email", email, "error", err)
	}

	return account, nil
}

// Login authenticates the credentials and mints a bearer token.
//
// On success the account's token_version is bumped by a single atomic
// UPDATE..RETURNING and the post-increment value is embedded in the token,
// so every earlier token for this account stops verifying from this point
// on. Unknown email and wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorAuthenticationFailed
		}
		return "", nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, common.ErrorAuthenticationFailed
	}

	version, err := repo.IncrementTokenVersion(ctx, account.ID)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	account.TokenVersion = version

	token, err := auth.GenerateToken(account.ID, account.Email, version, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, account, nil
}

// VerifyToken checks a bearer token against the current account state.
// The stored token_version is read live on every call; a token whose
// embedded version trails the stored one has been superseded by a newer
// login and is rejected. Nothing is mutated.
func (s *AccountService) VerifyToken(ctx context.Context, tokenString string) (*Session, error) {
	claims, err := auth.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)

	stored, err := repo.GetTokenVersion(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorAccountNotFound
		}
		return nil, common.ErrorInternal
	}

	if claims.TokenVersion != stored {
		return nil, common.ErrSessionSuperseded
	}

	return &Session{
		AccountID:    claims.AccountID,
		Email:        claims.Email,
		TokenVersion: stored,
	}, nil
}

// ForgotPassword issues a reset code to an existing account's email.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !s.limiter.Allow(email) {
		return common.ErrOTPThrottle
	}

	code, err := otp.Generate(s.otpLength)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.otpStore.SaveResetCode(ctx, email, code, s.otpValidityDuration); err != nil {
		return fmt.Errorf("saving reset code: %w", err)
	}

	html := mail.ResetOTPHTML(account.Name, code, s.otpValidityDuration)
	if err := s.mailer.Send(ctx, email, mail.OTPSubject(mail.OTPReset), html); err != nil {
		return fmt.Errorf("sending reset email: %w", err)
	}

	return nil
}

// ResetPassword verifies the reset code and stores the new password hash.
// The token_version is bumped in the same transaction so sessions issued
// under the old password stop verifying.
func (s *AccountService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return common.ErrorValidation
	}

	stored, err := s.otpStore.GetResetCode(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrOTPExpired) {
			return err
		}
		return common.ErrorInternal
	}

	if !otp.Matches(stored, code) {
		return common.ErrOTPMismatch
	}

	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		if err := repo.UpdatePasswordHash(ctx, account.ID, string(hash)); err != nil {
			return err
		}

		if _, err := repo.IncrementTokenVersion(ctx, account.ID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.otpStore.DeleteResetCode(ctx, email); err != nil {
		s.logger.Warn(ctx, "failed to consume reset code", "email", email, "error", err)
	}

	return nil
}
