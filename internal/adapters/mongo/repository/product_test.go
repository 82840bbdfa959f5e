package repository_test

import (
	"context"
	"testing"

	"github.com/lsampaio/product-api/internal/adapters/mongo/repository"
	"github.com/lsampaio/product-api/internal/core/domain"
	"github.com/lsampaio/product-api/internal/core/port"
	"github.com/lsampaio/product-api/internal/core/serviceerrors"
)

const testOwnerID = domain.ID("aabbccddee112233aabbccdd")

func TestProductRepository_Create(t *testing.T) {
	freshDB := testClient.Database("test_products_create")
	outboxRepo := repository.NewOutboxRepository(freshDB)
	repo := repository.NewProductRepository(freshDB, outboxRepo)
	ctx := context.Background()

	t.Run("assigns id and records created event", func(t *testing.T) {
		product := domain.NewProduct("Widget", "A fine widget", 19.99, testOwnerID)

		err := repo.Create(ctx, product)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !domain.ValidateID(string(product.ID)) {
			t.Fatalf("expected a valid id, got %q", product.ID)
		}

		entries, err := outboxRepo.FetchPending(ctx, 10)
		if err != nil {
			t.Fatalf("fetch pending failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 outbox entry, got %d", len(entries))
		}
		if entries[0].EventName != "product.created" || entries[0].EntityName != "product" {
			t.Fatalf("unexpected entry: %+v", entries[0])
		}
	})

	t.Run("rejects malformed owner id", func(t *testing.T) {
		product := domain.NewProduct("Widget", "", 1, "not-an-object-id")

		err := repo.Create(ctx, product)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			t.Fatalf("expected KindInvalidRequest, got %v", err)
		}
	})
}

func TestProductRepository_GetByID(t *testing.T) {
	freshDB := testClient.Database("test_products_get")
	outboxRepo := repository.NewOutboxRepository(freshDB)
	repo := repository.NewProductRepository(freshDB, outboxRepo)
	ctx := context.Background()

	seed := domain.NewProduct("Widget", "A fine widget", 19.99, testOwnerID)
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("setup: create failed: %v", err)
	}

	t.Run("roundtrips all fields", func(t *testing.T) {
		product, err := repo.GetByID(ctx, seed.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if product.Name != "Widget" || product.Description != "A fine widget" || product.Price != 19.99 {
			t.Fatalf("unexpected product: %+v", product)
		}
		if product.OwnerID != testOwnerID {
			t.Fatalf("expected owner %s, got %s", testOwnerID, product.OwnerID)
		}
		if product.CreatedAt.IsZero() || product.UpdatedAt.IsZero() {
			t.Fatal("expected timestamps to be set")
		}
	})

	t.Run("projection narrows the fetch", func(t *testing.T) {
		product, err := repo.GetByID(ctx, seed.ID, port.ProductFieldID, port.ProductFieldOwnerID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if product.ID != seed.ID || product.OwnerID != testOwnerID {
			t.Fatalf("expected projected id and owner, got %+v", product)
		}
		if product.Name != "" || product.Price != 0 {
			t.Fatalf("expected unprojected fields to stay zero, got %+v", product)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "ffffffffffffffffffffffff")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound, got %v", err)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "bad-id")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			t.Fatalf("expected KindInvalidRequest, got %v", err)
		}
	})
}

func TestProductRepository_Update(t *testing.T) {
	freshDB := testClient.Database("test_products_update")
	outboxRepo := repository.NewOutboxRepository(freshDB)
	repo := repository.NewProductRepository(freshDB, outboxRepo)
	ctx := context.Background()

	t.Run("writes only patched fields", func(t *testing.T) {
		product := domain.NewProduct("Widget", "A fine widget", 19.99, testOwnerID)
		if err := repo.Create(ctx, product); err != nil {
			t.Fatalf("setup: create failed: %v", err)
		}

		price := 24.99
		if err := repo.Update(ctx, product, domain.ProductPatch{Price: &price}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if product.Price != 24.99 {
			t.Fatalf("expected in-memory price 24.99, got %v", product.Price)
		}

		stored, err := repo.GetByID(ctx, product.ID)
		if err != nil {
			t.Fatalf("fetch after update failed: %v", err)
		}
		if stored.Price != 24.99 {
			t.Fatalf("expected stored price 24.99, got %v", stored.Price)
		}
		if stored.Name != "Widget" || stored.Description != "A fine widget" {
			t.Fatalf("untouched fields changed: %+v", stored)
		}
		if !stored.UpdatedAt.After(stored.CreatedAt) {
			t.Fatal("expected updated_at to advance")
		}
	})

	t.Run("empty patch still refreshes updated_at", func(t *testing.T) {
		product := domain.NewProduct("Widget", "", 5, testOwnerID)
		if err := repo.Create(ctx, product); err != nil {
			t.Fatalf("setup: create failed: %v", err)
		}

		if err := repo.Update(ctx, product, domain.ProductPatch{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		stored, err := repo.GetByID(ctx, product.ID)
		if err != nil {
			t.Fatalf("fetch after update failed: %v", err)
		}
		if stored.Name != "Widget" || stored.Price != 5 {
			t.Fatalf("fields changed: %+v", stored)
		}
		if !stored.UpdatedAt.After(stored.CreatedAt) {
			t.Fatal("expected updated_at to advance")
		}
	})

	t.Run("records updated event", func(t *testing.T) {
		product := domain.NewProduct("Widget", "", 5, testOwnerID)
		if err := repo.Create(ctx, product); err != nil {
			t.Fatalf("setup: create failed: %v", err)
		}

		name := "Gadget"
		if err := repo.Update(ctx, product, domain.ProductPatch{Name: &name}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		entries, _ := outboxRepo.FetchPending(ctx, 100)
		found := false
		for _, e := range entries {
			if e.EventName == "product.updated" {
				found = true
			}
		}
		if !found {
			t.Fatal("expected a product.updated outbox entry")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		ghost := &domain.Product{ID: "ffffffffffffffffffffffff", OwnerID: testOwnerID}

		err := repo.Update(ctx, ghost, domain.ProductPatch{})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound, got %v", err)
		}
	})
}

func TestProductRepository_Delete(t *testing.T) {
	freshDB := testClient.Database("test_products_delete")
	outboxRepo := repository.NewOutboxRepository(freshDB)
	repo := repository.NewProductRepository(freshDB, outboxRepo)
	ctx := context.Background()

	t.Run("removes the record and records deleted event", func(t *testing.T) {
		product := domain.NewProduct("Widget", "", 5, testOwnerID)
		if err := repo.Create(ctx, product); err != nil {
			t.Fatalf("setup: create failed: %v", err)
		}

		if err := repo.Delete(ctx, product); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, err := repo.GetByID(ctx, product.ID)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound after delete, got %v", err)
		}

		entries, _ := outboxRepo.FetchPending(ctx, 100)
		found := false
		for _, e := range entries {
			if e.EventName == "product.deleted" {
				found = true
			}
		}
		if !found {
			t.Fatal("expected a product.deleted outbox entry")
		}
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		product := domain.NewProduct("Widget", "", 5, testOwnerID)
		if err := repo.Create(ctx, product); err != nil {
			t.Fatalf("setup: create failed: %v", err)
		}

		if err := repo.Delete(ctx, product); err != nil {
			t.Fatalf("first delete failed: %v", err)
		}
		err := repo.Delete(ctx, product)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound, got %v", err)
		}
	})
}
