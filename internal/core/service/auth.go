package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lsampaio/product-api/internal/core/domain"
	"github.com/lsampaio/product-api/internal/core/dto"
	"github.com/lsampaio/product-api/internal/core/logger"
	"github.com/lsampaio/product-api/internal/core/port"
	"github.com/lsampaio/product-api/internal/core/serviceerrors"
	"github.com/lsampaio/product-api/internal/core/utils"
)

// AuthService issues and resolves opaque bearer tokens. Sessions live in the
// token store keyed by the token digest, so a leaked store never exposes
// usable tokens.
type AuthService struct {
	userRepository port.UserPort
	sessions       port.CachePort[domain.Session]
	tokenTTL       time.Duration
	bcryptCost     int
}

func NewAuthService(
	userRepository port.UserPort,
	sessions port.CachePort[domain.Session],
	tokenTTL time.Duration,
	bcryptCost int,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		sessions:       sessions,
		tokenTTL:       tokenTTL,
		bcryptCost:     bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, request *dto.RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(request.Name, request.Email, string(hash))
	if err := s.userRepository.Create(ctx, user); err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
			return nil, serviceerrors.NewConflictError("email already registered")
		}
		logger.Error(ctx, "auth: register failed", err, map[string]any{
			"email": request.Email,
		})
		return nil, err
	}

	logger.Info(ctx, "User registered", map[string]any{"user_id": user.ID})
	return user, nil
}

// Login verifies credentials and issues a fresh token. Unknown emails and
// wrong passwords produce the same outcome.
func (s *AuthService) Login(ctx context.Context, request *dto.LoginRequest) (string, error) {
	user, err := s.userRepository.GetByEmail(ctx, request.Email)
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			return "", serviceerrors.NewUnauthenticatedError("invalid credentials")
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		return "", serviceerrors.NewUnauthenticatedError("invalid credentials")
	}

	token, err := utils.NewToken()
	if err != nil {
		return "", err
	}

	session := domain.NewSession(user.ID)
	if err := s.sessions.Set(ctx, utils.HashToken(token), session, s.tokenTTL); err != nil {
		logger.Error(ctx, "auth: store session failed", err, map[string]any{
			"user_id": user.ID,
		})
		return "", err
	}

	logger.Info(ctx, "User logged in", map[string]any{"user_id": user.ID})
	return token, nil
}

// Logout destroys the presented token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Del(ctx, utils.HashToken(token))
}

// Authenticate resolves a bearer token to the caller's user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.ID, error) {
	if token == "" {
		return "", serviceerrors.NewUnauthenticatedError("missing token")
	}

	session, err := s.sessions.Get(ctx, utils.HashToken(token))
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", serviceerrors.NewUnauthenticatedError("invalid or expired token")
	}

	return session.UserID, nil
}

func (s *AuthService) GetUser(ctx context.Context, id domain.ID) (*domain.User, error) {
	return s.userRepository.GetByID(ctx, id)
}
