package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a marketplace listing, owned (and only mutable) by its seller.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Unit        string    `json:"unit"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	SellerName  string    `json:"seller"`
	SellerPhone string    `json:"sellerPhone"`
	ImageURL    string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
