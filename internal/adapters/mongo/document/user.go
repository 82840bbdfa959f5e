package document

import (
	"time"

	"github.com/lsampaio/product-api/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (doc UserDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func (doc *UserDocument) ToDomain() *domain.User {
	return &domain.User{
		ID:           domain.ID(doc.ID.Hex()),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}
}
