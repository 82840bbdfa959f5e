package port

import (
	"context"

	"github.com/lsampaio/product-api/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// Projection field names understood by GetByID. Adapters map these to
// their own column or document key names.
const (
	ProductFieldID          = "id"
	ProductFieldName        = "name"
	ProductFieldDescription = "description"
	ProductFieldPrice       = "price"
	ProductFieldOwnerID     = "owner_id"
)

// ProductPort is the resource store: raw CRUD with no authorization logic.
type ProductPort interface {
	// Create persists the product and assigns its ID.
	Create(ctx context.Context, product *domain.Product) error
	// GetByID fetches a product, optionally restricting the returned fields
	// to the given projection (store field names).
	GetByID(ctx context.Context, id domain.ID, fields ...string) (*domain.Product, error)
	// Update persists the patch fields against the stored record and applies
	// them to product in memory. An empty patch still writes the record back.
	Update(ctx context.Context, product *domain.Product, patch domain.ProductPatch) error
	// Delete removes the record permanently. The delete outcome is checked:
	// a vanished record reports not-found rather than succeeding silently.
	Delete(ctx context.Context, product *domain.Product) error
}
