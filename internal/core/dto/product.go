package dto

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lsampaio/product-api/internal/core/domain"
)

// Price accepts both JSON numbers and numeric strings ("19.99") and coerces
// them to a float. Clients of the previous API sent either form.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		value, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", s, err)
		}
		*p = Price(value)
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*p = Price(value)
	return nil
}

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       Price  `json:"price" binding:"required,gte=0"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *Price  `json:"price" binding:"omitempty,gte=0"`
}

// ToPatch converts the request into a partial update: fields absent from
// the payload stay nil and are never written.
func (r *UpdateProductRequest) ToPatch() domain.ProductPatch {
	patch := domain.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
	}
	if r.Price != nil {
		price := float64(*r.Price)
		patch.Price = &price
	}
	return patch
}
