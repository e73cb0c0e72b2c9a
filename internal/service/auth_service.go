package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"diarium/internal/auth"
	apperrors "diarium/internal/errors"
	"diarium/internal/mail"
	"diarium/internal/model"
	"diarium/internal/repository"
)

const bcryptCost = 10

const (
	confirmSubject = "Подтверждение почты"
	resetSubject   = "Смена пароля"

	generatedPasswordLength   = 8
	generatedPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// AuthService handles the account lifecycle: registration with email
// confirmation, login, logout and password reset.
type AuthService interface {
	Register(ctx context.Context, email, password1, password2 string) (*model.User, error)
	Confirm(ctx context.Context, code string) (alreadyActive bool, err error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	ResetPassword(ctx context.Context, email string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	mailer     mail.Mailer
	baseURL    string
	logger     *slog.Logger
}

// NewAuthService creates a new authentication service. baseURL is used to
// build the confirmation link placed in registration mail.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	mailer mail.Mailer,
	baseURL string,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		mailer:     mailer,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Register creates an inactive account and mails a confirmation link holding
// a single-use verification code. Mismatched passwords fail before any state
// is touched.
func (s *authService) Register(ctx context.Context, email, password1, password2 string) (*model.User, error) {
	if password1 != password2 {
		return nil, apperrors.ErrPasswordMismatch
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password1), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Active:       false,
		Verification: &code,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the existence check and hit
		// the unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	link := fmt.Sprintf("%s/users/email-confirm/%s/", s.baseURL, code)
	body := fmt.Sprintf("Для подтверждения почты перейдите по ссылке: %s", link)
	if err := s.mailer.Send(ctx, user.Email, confirmSubject, body); err != nil {
		return nil, fmt.Errorf("send confirmation mail: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Confirm activates the account matching the verification code and clears the
// code. Confirming an already active account is an informational no-op; the
// user still has to log in explicitly afterwards.
func (s *authService) Confirm(ctx context.Context, code string) (bool, error) {
	user, err := s.userRepo.FindByVerificationCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrTokenNotFound
		}
		return false, fmt.Errorf("find verification code: %w", err)
	}

	if user.Active {
		return true, nil
	}

	user.Active = true
	user.Verification = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("activate user: %w", err)
	}

	s.logger.Info("user confirmed", "user_id", user.ID)
	return false, nil
}

// Login authenticates a user and returns access and refresh tokens. Inactive
// accounts cannot authenticate. All failures collapse into the same
// credentials error so the response never reveals which field was wrong.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error) {
	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	if !user.Active {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err = s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// Refresh validates a refresh token against the store and mints a new access
// token. The stored identity must match the token's claims; a deleted or
// expired store entry invalidates the token regardless of its signature.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates the session: the refresh token is deleted from the store
// and the access token is blacklisted for its remaining lifetime. Unparseable
// tokens have nothing to invalidate and are skipped.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwtService.ValidateToken(accessToken); err == nil && claims.ID != "" && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.tokenStore.BlacklistAccessToken(ctx, claims.ID, ttl); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return nil
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// ResetPassword generates a fresh random password for the account, persists
// its hash and mails the plaintext password to the account's address. The
// plaintext-by-mail pattern is intentionally preserved; see DESIGN.md.
// An unknown email is reported to the requester and sends nothing.
func (s *authService) ResetPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return fmt.Errorf("generate password: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	body := fmt.Sprintf("Здравствуйте. Вы запросили генерацию нового пароля для сайта. Ваш новый пароль: %s", password)
	if err := s.mailer.Send(ctx, user.Email, resetSubject, body); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

// generateVerificationCode returns 32 hex characters from a CSPRNG.
func generateVerificationCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(generatedPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = generatedPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}
