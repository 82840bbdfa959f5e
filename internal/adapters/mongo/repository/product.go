package repository

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lsampaio/product-api/internal/adapters/mongo/document"
	"github.com/lsampaio/product-api/internal/adapters/outbox"
	"github.com/lsampaio/product-api/internal/core/domain"
	"github.com/lsampaio/product-api/internal/core/logger"
	"github.com/lsampaio/product-api/internal/core/port"
	"github.com/lsampaio/product-api/internal/core/serviceerrors"
)

// productFieldToBSON maps the port's projection names to document keys.
var productFieldToBSON = map[string]string{
	port.ProductFieldID:          "_id",
	port.ProductFieldName:        "name",
	port.ProductFieldDescription: "description",
	port.ProductFieldPrice:       "price",
	port.ProductFieldOwnerID:     "user_id",
}

type ProductRepository struct {
	*BaseRepository[document.ProductDocument]
	db         *mongo.Database
	collection *mongo.Collection
	outbox     outbox.Repository
}

func NewProductRepository(db *mongo.Database, outbox outbox.Repository) port.ProductPort {
	repo := &ProductRepository{
		BaseRepository: NewBaseRepository[document.ProductDocument](db, "products"),
		db:             db,
		collection:     db.Collection("products"),
		outbox:         outbox,
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		logger.Error(context.Background(), "failed to create indexes", err, map[string]any{
			"collection": "products",
		})
	}

	return repo
}

func (r *ProductRepository) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(false),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ownerID, err := primitive.ObjectIDFromHex(string(product.OwnerID))
	if err != nil {
		return parseError(err)
	}

	now := time.Now()
	// The ID is generated up front so the created event can carry it inside
	// the same transaction as the insert.
	doc := &document.ProductDocument{
		ID:          primitive.NewObjectID(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = r.inTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := r.collection.InsertOne(sessCtx, doc); err != nil {
			return parseError(err)
		}
		product.ID = domain.ID(doc.ID.Hex())
		return r.insertOutbox(sessCtx, domain.NewProductCreatedEvent(product))
	})
	if err != nil {
		return err
	}

	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id domain.ID, fields ...string) (*domain.Product, error) {
	doc, err := r.FindByID(ctx, string(id), productProjection(fields))
	if err != nil {
		return nil, err
	}

	return doc.ToDomain(), nil
}

// Update writes the patch fields against the stored record and, on success,
// applies them to product in memory. An empty patch still refreshes
// updated_at, so the write always happens.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product, patch domain.ProductPatch) error {
	objectID, err := primitive.ObjectIDFromHex(string(product.ID))
	if err != nil {
		return parseError(err)
	}

	now := time.Now()
	set := bson.M{"updated_at": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}

	event := domain.NewProductUpdatedEvent(product.ID, product.OwnerID, patch)

	err = r.inTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		result, err := r.collection.UpdateOne(sessCtx, bson.M{"_id": objectID}, bson.M{"$set": set})
		if err != nil {
			return parseError(err)
		}
		if result.MatchedCount == 0 {
			return serviceerrors.NewNotFoundError("product not found")
		}
		return r.insertOutbox(sessCtx, event)
	})
	if err != nil {
		return err
	}

	patch.Apply(product)
	product.UpdatedAt = now
	return nil
}

// Delete removes the record permanently. A delete that matches nothing
// reports not-found instead of succeeding silently.
func (r *ProductRepository) Delete(ctx context.Context, product *domain.Product) error {
	objectID, err := primitive.ObjectIDFromHex(string(product.ID))
	if err != nil {
		return parseError(err)
	}

	event := domain.NewProductDeletedEvent(product.ID, product.OwnerID)

	return r.inTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		result, err := r.collection.DeleteOne(sessCtx, bson.M{"_id": objectID})
		if err != nil {
			return parseError(err)
		}
		if result.DeletedCount == 0 {
			return serviceerrors.NewNotFoundError("product not found")
		}
		return r.insertOutbox(sessCtx, event)
	})
}

func (r *ProductRepository) inTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})

	return err
}

func (r *ProductRepository) insertOutbox(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.outbox.Insert(ctx, outbox.Entry{
		EventName:  event.GetName(),
		EntityName: event.GetEntityName(),
		EventData:  data,
	})
}

func productProjection(fields []string) *options.FindOneOptions {
	opts := options.FindOne()
	if len(fields) == 0 {
		return opts
	}

	projection := bson.M{}
	for _, field := range fields {
		if key, ok := productFieldToBSON[field]; ok {
			projection[key] = 1
		}
	}
	return opts.SetProjection(projection)
}
