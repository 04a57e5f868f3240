package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/domain"
	"go-leave/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)

	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo     Repository
	verifier BcryptVerifier
	jwt      config.JWTOptions
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(repo Repository, jwtOpts config.JWTOptions, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if jwtOpts.AccessTokenTTL <= 0 {
		jwtOpts.AccessTokenTTL = 15 * time.Minute
	}
	if jwtOpts.RefreshTokenTTL <= 0 {
		jwtOpts.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &service{
		repo:     repo,
		verifier: NewBcryptVerifier(),
		jwt:      jwtOpts,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	// 1. Ambil user
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// 2. Verify password
	if !s.verifier.Verify(password, user.Password) {
		s.logger.Info("login rejected", zap.String("user_id", user.ID.String()))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	// 3. Generate token pair
	accessToken, refreshToken, err := s.issuePair(user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return accessToken, refreshToken, user.ToResponse(), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(s.jwt.Secret), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	if typ, _ := claims["typ"].(string); typ != tokenTypeRefresh {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	newAccessToken, newRefreshToken, err := s.issuePair(user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	return newAccessToken, newRefreshToken, user.ToResponse(), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := u.ToResponse()
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	// 1. Hash password
	hashed, err := HashPassword(req.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = domain.RoleEmployee
	}

	// 2. Buat user
	user := &User{
		ID:       uuid.New(),
		Email:    normalizeEmail(req.Email),
		Name:     strings.TrimSpace(req.Name),
		Password: hashed,
		Role:     role,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherrors.ErrEmailAlreadyRegistered) {
			return AuthResponse{}, err
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)

	return user.ToResponse(), nil
}

func (s *service) issuePair(user *User) (string, string, error) {
	accessToken, err := s.generateToken(user.ID.String(), user.Role, tokenTypeAccess, s.jwt.AccessTokenTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(user.ID.String(), user.Role, tokenTypeRefresh, s.jwt.RefreshTokenTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	return accessToken, refreshToken, nil
}

// reusable token generator
func (s *service) generateToken(userID, role, typ string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"typ":     typ,
		"exp":     s.now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwt.Secret))
}
