package service

import (
	"context"

	"github.com/lsampaio/product-api/internal/core/domain"
	"github.com/lsampaio/product-api/internal/core/dto"
	"github.com/lsampaio/product-api/internal/core/logger"
	"github.com/lsampaio/product-api/internal/core/port"
	"github.com/lsampaio/product-api/internal/core/serviceerrors"
)

// ProductService mediates all product access and enforces the single
// authorization rule: only the record's owner may mutate or delete it.
// The caller's identity is always an explicit argument, never ambient state.
type ProductService struct {
	productRepository port.ProductPort
}

func NewProductService(productRepository port.ProductPort) *ProductService {
	return &ProductService{productRepository: productRepository}
}

// CreateProduct persists a new product owned by callerID. Every caller may
// create, and owns what it creates, so no check is needed here.
func (s *ProductService) CreateProduct(ctx context.Context, request *dto.CreateProductRequest, callerID domain.ID) (*domain.Product, error) {
	product := domain.NewProduct(request.Name, request.Description, float64(request.Price), callerID)

	if err := s.productRepository.Create(ctx, product); err != nil {
		logger.Error(ctx, "product: create failed", err, map[string]any{
			"name":     request.Name,
			"owner_id": callerID,
		})
		return nil, err
	}

	logger.Info(ctx, "Product created", map[string]any{
		"product_id": product.ID,
		"owner_id":   callerID,
	})
	return product, nil
}

// GetProduct fetches a product by id. Reads carry no ownership check: any
// caller may fetch any product.
func (s *ProductService) GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error) {
	return s.productRepository.GetByID(ctx, id)
}

// UpdateProduct applies a partial update after verifying ownership. On an
// ownership mismatch nothing is written and the fetched product is not
// exposed to the caller.
func (s *ProductService) UpdateProduct(ctx context.Context, id domain.ID, request *dto.UpdateProductRequest, callerID domain.ID) (*domain.Product, error) {
	product, err := s.productRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !product.IsOwnedBy(callerID) {
		return nil, serviceerrors.NewUnauthorizedError("not the product owner")
	}

	if err := s.productRepository.Update(ctx, product, request.ToPatch()); err != nil {
		logger.Error(ctx, "product: update failed", err, map[string]any{
			"product_id": id,
			"owner_id":   callerID,
		})
		return nil, err
	}

	logger.Info(ctx, "Product updated", map[string]any{"product_id": id})
	return product, nil
}

// DeleteProduct hard-deletes a product after verifying ownership.
func (s *ProductService) DeleteProduct(ctx context.Context, id domain.ID, callerID domain.ID) error {
	// Only the id and owner are needed for the check.
	product, err := s.productRepository.GetByID(ctx, id, port.ProductFieldID, port.ProductFieldOwnerID)
	if err != nil {
		return err
	}

	if !product.IsOwnedBy(callerID) {
		return serviceerrors.NewUnauthorizedError("not the product owner")
	}

	if err := s.productRepository.Delete(ctx, product); err != nil {
		logger.Error(ctx, "product: delete failed", err, map[string]any{
			"product_id": id,
			"owner_id":   callerID,
		})
		return err
	}

	logger.Info(ctx, "Product deleted", map[string]any{"product_id": id})
	return nil
}
