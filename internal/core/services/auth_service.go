package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 6
)

type AuthService struct {
	userRepo        ports.UserRepository
	authRepo        ports.AuthRepository
	tokens          ports.TokenIssuer
	hasher          ports.PasswordHasher
	refreshTokenTTL time.Duration
	now             func() time.Time
}

func NewAuthService(
	userRepo ports.UserRepository,
	authRepo ports.AuthRepository,
	tokens ports.TokenIssuer,
	hasher ports.PasswordHasher,
	refreshTokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		authRepo:        authRepo,
		tokens:          tokens,
		hasher:          hasher,
		refreshTokenTTL: refreshTokenTTL,
		now:             time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return nil, domain.NewValidationError("Username must be between 3 and 50 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError("Invalid email address")
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.NewValidationError("Password must be at least 6 characters")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	exists, err = s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, input.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidToken
	}

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil || !rtEntity.Usable(s.now()) {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, rtEntity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}

	accessToken, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &ports.AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Username:     user.Username,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return nil
	}

	return s.authRepo.RevokeRefreshToken(ctx, rtEntity.ID)
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	accessToken, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rtEntity := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}
	if err := s.authRepo.StoreRefreshToken(ctx, rtEntity); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &ports.AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Username:     user.Username,
	}, nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
