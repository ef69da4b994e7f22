package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// AuthEvent describes a change of the signed-in identity of a session.
// Session is nil on sign-out.
type AuthEvent struct {
	SessionID string
	OwnerID   uuid.UUID
	Account   *models.Account
	Session   *models.AuthSession
}

func (e AuthEvent) SignedIn() bool {
	return e.Session != nil
}

type AuthListener func(ctx context.Context, event AuthEvent)

type AuthService interface {
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.Account, error)
	SignIn(ctx context.Context, req *models.SignInRequest, sessionID string) (*models.AuthSession, error)
	SignOut(ctx context.Context, claims *models.Claims, sessionID string) error
	GetAccount(ctx context.Context, ownerID uuid.UUID) (*models.Account, error)
	Reauthenticate(ctx context.Context, ownerID uuid.UUID, password string) error
	ChangeEmail(ctx context.Context, ownerID uuid.UUID, email string) error
	ChangePassword(ctx context.Context, ownerID uuid.UUID, req *models.ChangePasswordRequest) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	OnAuthStateChanged(listener AuthListener) func()
}

type authService struct {
	accounts    repository.AccountRepository
	profiles    repository.ProfileRepository
	rateLimiter repository.RateLimitRepository
	revocations repository.TokenRevocationRepository
	jwtKey      []byte
	tokenTTL    time.Duration

	mu        sync.RWMutex
	listeners map[int]AuthListener
	nextID    int
}

func NewAuthService(
	accounts repository.AccountRepository,
	profiles repository.ProfileRepository,
	rateLimiter repository.RateLimitRepository,
	revocations repository.TokenRevocationRepository,
	jwtKey []byte,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		accounts:    accounts,
		profiles:    profiles,
		rateLimiter: rateLimiter,
		revocations: revocations,
		jwtKey:      jwtKey,
		tokenTTL:    tokenTTL,
		listeners:   make(map[int]AuthListener),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.Account, error) {

	logger := middleware.LoggerFromContext(ctx)

	if len(req.Password) < minPasswordLength {
		return nil, errors.AddValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to secure password").WithError(err)
	}

	account := &models.Account{
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hashedPassword),
		DisplayName:  utils.SanitizeText(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {

		if stdErrors.Is(err, repository.ErrEmailTaken) {
			return nil, errors.EmailInUseError("Email already registered")
		}

		return nil, errors.DatabaseError("Failed to create account").WithError(err)
	}

	profile := &models.Profile{
		OwnerID:   account.ID,
		Name:      account.DisplayName,
		Email:     account.Email,
		Phone:     account.Phone,
		Addresses: []models.Address{},
	}

	// the store initialises a missing profile on first sign-in, so this is best effort
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		logger.Warn("Failed to write initial profile", slog.String("ownerId", account.ID.String()), slog.String("error", err.Error()))
	}

	logger.Info("Account created", slog.String("ownerId", account.ID.String()))

	return account, nil
}

func (s *authService) SignIn(ctx context.Context, req *models.SignInRequest, sessionID string) (*models.AuthSession, error) {

	logger := middleware.LoggerFromContext(ctx)
	email := normalizeEmail(req.Email)

	allowed, _, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, email)
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return nil, errors.TooManyRequestsError("Too many login attempts. Please try again later.").
			WithDetail(fmt.Sprintf("retry after %d seconds", retryAfter)).
			WithRetryAfter(retryAfter)
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {

		if stdErrors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.InvalidCredentialError("Invalid email or password")
		}

		return nil, errors.DatabaseError("Failed to load account").WithError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		logger.Warn("Sign-in rejected", slog.String("ownerId", account.ID.String()))
		return nil, errors.InvalidCredentialError("Invalid email or password")
	}

	session, err := s.issueToken(account, sessionID)
	if err != nil {
		return nil, err
	}

	logger.Info("User signed in", slog.String("ownerId", account.ID.String()), slog.String("sessionId", sessionID))

	s.notify(ctx, AuthEvent{SessionID: sessionID, OwnerID: account.ID, Account: account, Session: session})

	return session, nil
}

func (s *authService) issueToken(account *models.Account, sessionID string) (*models.AuthSession, error) {

	now := time.Now()

	claims := &models.Claims{
		UserID:    account.ID,
		Email:     account.Email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.AuthSession{
		OwnerID:   account.ID,
		Email:     account.Email,
		Token:     tokenString,
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

// SignOut revokes the presented token and tells listeners the session lost its identity.
func (s *authService) SignOut(ctx context.Context, claims *models.Claims, sessionID string) error {

	if claims.ID != "" && claims.ExpiresAt != nil {
		if err := s.revocations.RevokeToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			return errors.ThirdPartyError("Failed to revoke token").WithError(err)
		}
	}

	middleware.LoggerFromContext(ctx).Info("User signed out", slog.String("ownerId", claims.UserID.String()), slog.String("sessionId", sessionID))

	s.notify(ctx, AuthEvent{SessionID: sessionID, OwnerID: claims.UserID})

	return nil
}

func (s *authService) GetAccount(ctx context.Context, ownerID uuid.UUID) (*models.Account, error) {

	account, err := s.accounts.GetAccountByID(ctx, ownerID)
	if err != nil {

		if stdErrors.Is(err, repository.ErrAccountNotFound) {
			return nil, errors.NotFoundError("Account not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load account").WithError(err)
	}

	return account, nil
}

// Reauthenticate confirms the caller still knows the account password.
func (s *authService) Reauthenticate(ctx context.Context, ownerID uuid.UUID, password string) error {

	if password == "" {
		return errors.ReauthenticationRequiredError("Current password is required")
	}

	allowed, _, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, "reauth:"+ownerID.String())
	if err != nil {
		return errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return errors.TooManyRequestsError("Too many attempts. Please try again later.").
			WithDetail(fmt.Sprintf("retry after %d seconds", retryAfter)).
			WithRetryAfter(retryAfter)
	}

	account, err := s.GetAccount(ctx, ownerID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return errors.InvalidCredentialError("Current password is incorrect")
	}

	return nil
}

func (s *authService) ChangeEmail(ctx context.Context, ownerID uuid.UUID, email string) error {

	if err := s.accounts.UpdateEmail(ctx, ownerID, normalizeEmail(email)); err != nil {

		switch {
		case stdErrors.Is(err, repository.ErrEmailTaken):
			return errors.EmailInUseError("Email already registered")
		case stdErrors.Is(err, repository.ErrAccountNotFound):
			return errors.NotFoundError("Account not found").WithError(err)
		}

		return errors.DatabaseError("Failed to update email").WithError(err)
	}

	return nil
}

func (s *authService) ChangePassword(ctx context.Context, ownerID uuid.UUID, req *models.ChangePasswordRequest) error {

	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return errors.ValidationError("All password fields are required")
	}

	if req.NewPassword != req.ConfirmPassword {
		return errors.ValidationError("New password and confirmation do not match")
	}

	if len(req.NewPassword) < minPasswordLength {
		return errors.AddValidationError("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	if err := s.Reauthenticate(ctx, ownerID, req.CurrentPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.InternalError("Failed to secure password").WithError(err)
	}

	if err := s.accounts.UpdatePassword(ctx, ownerID, string(hashedPassword)); err != nil {
		return errors.DatabaseError("Failed to update password").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Password changed", slog.String("ownerId", ownerID.String()))

	return nil
}

func (s *authService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.revocations.IsTokenRevoked(ctx, tokenID)
}

// OnAuthStateChanged registers listener for every sign-in and sign-out and
// returns a func that removes it.
func (s *authService) OnAuthStateChanged(listener AuthListener) func() {

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *authService) notify(ctx context.Context, event AuthEvent) {

	s.mu.RLock()
	listeners := make([]AuthListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, event)
	}
}
