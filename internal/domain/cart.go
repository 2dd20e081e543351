package domain

import "time"

// Cart is the backend-held cart, persisted per owner.
type Cart struct {
	ID        string     `bson:"_id,omitempty"`
	Owner     OwnerRef   `bson:"owner"`
	Items     []CartItem `bson:"items"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

type CartItem struct {
	ProductID string    `bson:"product_id"`
	Quantity  int       `bson:"quantity"`
	AddedAt   time.Time `bson:"added_at"`
}
