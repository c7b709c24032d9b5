package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID          uuid.UUID  `json:"id" bson:"id"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64    `json:"price" bson:"price"`
	Stock       int        `json:"stock" bson:"stock"`
	ImageURL    string     `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty" bson:"category_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}
