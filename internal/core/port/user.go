package port

import (
	"context"

	"github.com/lsampaio/product-api/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type UserPort interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.ID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
