package domain

import "time"

type Product struct {
	ID          ID
	Name        string
	Description string
	Price       float64
	OwnerID     ID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct builds an unpersisted product owned by ownerID. The ID is
// assigned by the store on create.
func NewProduct(name string, description string, price float64, ownerID ID) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// IsOwnedBy reports whether userID may mutate or delete the product.
func (p *Product) IsOwnedBy(userID ID) bool {
	return p.OwnerID == userID
}

// ProductPatch carries a partial update: nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
}

// IsEmpty reports whether the patch changes nothing. An empty patch is
// still a valid save (the record is written back unchanged).
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil
}

// Apply mutates product in memory with the patch fields that are present.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	product.UpdatedAt = time.Now()
}

type ProductCreatedEvent struct {
	ProductID ID        `json:"product_id"`
	OwnerID   ID        `json:"owner_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ProductCreatedEvent) GetName() string       { return "product.created" }
func (e *ProductCreatedEvent) GetEntityName() string { return "product" }

func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		ProductID: product.ID,
		OwnerID:   product.OwnerID,
		Name:      product.Name,
		Price:     product.Price,
		CreatedAt: product.CreatedAt,
	}
}

type ProductUpdatedEvent struct {
	ProductID   ID        `json:"product_id"`
	OwnerID     ID        `json:"owner_id"`
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *ProductUpdatedEvent) GetName() string       { return "product.updated" }
func (e *ProductUpdatedEvent) GetEntityName() string { return "product" }

func NewProductUpdatedEvent(productID, ownerID ID, patch ProductPatch) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		ProductID:   productID,
		OwnerID:     ownerID,
		Name:        patch.Name,
		Description: patch.Description,
		Price:       patch.Price,
		UpdatedAt:   time.Now(),
	}
}

type ProductDeletedEvent struct {
	ProductID ID        `json:"product_id"`
	OwnerID   ID        `json:"owner_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e *ProductDeletedEvent) GetName() string       { return "product.deleted" }
func (e *ProductDeletedEvent) GetEntityName() string { return "product" }

func NewProductDeletedEvent(productID, ownerID ID) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		ProductID: productID,
		OwnerID:   ownerID,
		DeletedAt: time.Now(),
	}
}
