package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// CartItem holds a snapshot of the product taken when it was added to the
// cart. The snapshot is not re-validated against current stock or price
// until checkout.
type CartItem struct {
	Product  Product   `json:"product" bson:"product"`
	Quantity int       `json:"quantity" bson:"quantity"`
	AddedAt  time.Time `json:"added_at" bson:"added_at"`
}

type Cart struct {
	ID        string     `json:"-" bson:"_id,omitempty"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Items     []CartItem `json:"items" bson:"items"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// AddItem increments the quantity for an already carted product by one, or
// appends a new entry with quantity 1. Insertion order is preserved.
func (c *Cart) AddItem(p Product) {
	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1, AddedAt: time.Now()})
}

// RemoveItem deletes the entry for productID. Absent ids are a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity for productID to exactly quantity.
// A quantity of zero or less removes the entry. Absent ids are a no-op.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Clone returns a copy whose Items slice is independent of the receiver.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = append([]CartItem(nil), c.Items...)
	return &out
}

// Total sums unit price times quantity over all entries. A missing or
// non-numeric price counts as zero.
func (c *Cart) Total() float64 {
	var sum float64
	for _, it := range c.Items {
		price := it.Product.Price
		if math.IsNaN(price) || math.IsInf(price, 0) {
			price = 0
		}
		sum += price * float64(it.Quantity)
	}
	return sum
}

// ItemCount sums the quantities of all entries.
func (c *Cart) ItemCount() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
