// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Price is fixed-point decimal; all money
// arithmetic in the system goes through shopspring/decimal, never float64.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`     // Unit price at 2 decimal places.
	Stock       int             `json:"stock"`     // Count of sellable units; never negative.
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	IsActive    bool            `json:"is_active"` // Inactive products are not purchasable.
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Purchasable reports whether the product can currently be bought in the
// given quantity. This is an advisory check; checkout re-validates stock
// with an atomic conditional update.
func (p *Product) Purchasable(quantity int) bool {
	return p.IsActive && quantity > 0 && p.Stock >= quantity
}
