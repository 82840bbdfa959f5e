package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lsampaio/product-api/internal/core/domain"
	"github.com/lsampaio/product-api/internal/core/dto"
	"github.com/lsampaio/product-api/internal/core/port/mock"
	"github.com/lsampaio/product-api/internal/core/serviceerrors"
	"github.com/lsampaio/product-api/internal/core/utils"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthService(t *testing.T) (*AuthService, *mock.MockUserPort, *mock.MockCachePort[domain.Session]) {
	ctrl := gomock.NewController(t)
	userRepo := mock.NewMockUserPort(ctrl)
	sessions := mock.NewMockCachePort[domain.Session](ctrl)
	svc := NewAuthService(userRepo, sessions, time.Hour, bcrypt.MinCost)
	return svc, userRepo, sessions
}

func storedUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return &domain.User{
		ID:           domain.ID("aabbccddee112233aabbccdd"),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("hashes password before storing", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)

		userRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *domain.User) error {
				if u.PasswordHash == "secret-password" {
					t.Fatal("password stored in plain text")
				}
				if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret-password")) != nil {
					t.Fatal("stored hash does not match password")
				}
				u.ID = "aabbccddee112233aabbccdd"
				return nil
			})

		user, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret-password",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Fatalf("unexpected user: %+v", user)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)

		userRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(serviceerrors.NewConflictError("duplicate key"))

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret-password",
		})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
			t.Fatalf("expected KindConflict, got %v", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues token and stores session under digest", func(t *testing.T) {
		svc, userRepo, sessions := setupAuthService(t)
		user := storedUser(t, "secret-password")

		userRepo.EXPECT().
			GetByEmail(gomock.Any(), user.Email).
			Return(user, nil)

		var storedKey string
		sessions.EXPECT().
			Set(gomock.Any(), gomock.Any(), gomock.Any(), time.Hour).
			DoAndReturn(func(_ context.Context, key string, session *domain.Session, _ time.Duration) error {
				storedKey = key
				if session.UserID != user.ID {
					t.Fatalf("expected session for %s, got %s", user.ID, session.UserID)
				}
				return nil
			})

		token, err := svc.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "secret-password"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token == "" {
			t.Fatal("expected a token")
		}
		if storedKey == token {
			t.Fatal("raw token used as store key")
		}
		if storedKey != utils.HashToken(token) {
			t.Fatal("session not stored under the token digest")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)

		userRepo.EXPECT().
			GetByEmail(gomock.Any(), "nobody@example.com").
			Return(nil, serviceerrors.NewNotFoundError("entity not found"))

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthenticated) {
			t.Fatalf("expected KindUnauthenticated, got %v", err)
		}
	})

	t.Run("wrong password gets the same outcome as unknown email", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)
		user := storedUser(t, "secret-password")

		userRepo.EXPECT().
			GetByEmail(gomock.Any(), user.Email).
			Return(user, nil)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: user.Email, Password: "wrong-password"})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthenticated) {
			t.Fatalf("expected KindUnauthenticated, got %v", err)
		}
	})

	t.Run("repository error propagates", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)
		repoErr := errors.New("db connection failed")

		userRepo.EXPECT().
			GetByEmail(gomock.Any(), gomock.Any()).
			Return(nil, repoErr)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "alice@example.com", Password: "secret-password"})
		if !errors.Is(err, repoErr) {
			t.Fatalf("expected %v, got %v", repoErr, err)
		}
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Run("resolves token to user id", func(t *testing.T) {
		svc, _, sessions := setupAuthService(t)
		userID := domain.ID("aabbccddee112233aabbccdd")

		sessions.EXPECT().
			Get(gomock.Any(), utils.HashToken("some-token")).
			Return(&domain.Session{UserID: userID}, nil)

		got, err := svc.Authenticate(context.Background(), "some-token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != userID {
			t.Fatalf("expected %s, got %s", userID, got)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)

		_, err := svc.Authenticate(context.Background(), "")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthenticated) {
			t.Fatalf("expected KindUnauthenticated, got %v", err)
		}
	})

	t.Run("unknown or expired token", func(t *testing.T) {
		svc, _, sessions := setupAuthService(t)

		sessions.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(nil, nil)

		_, err := svc.Authenticate(context.Background(), "stale-token")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthenticated) {
			t.Fatalf("expected KindUnauthenticated, got %v", err)
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("deletes the session digest", func(t *testing.T) {
		svc, _, sessions := setupAuthService(t)

		sessions.EXPECT().
			Del(gomock.Any(), utils.HashToken("some-token")).
			Return(nil)

		if err := svc.Logout(context.Background(), "some-token"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
