package domain

import "time"

type Order struct {
	ID              string           `json:"id"`
	Owner           OwnerRef         `json:"owner"`
	Items           []OrderDraftItem `json:"items"`
	TotalAmount     float64          `json:"total_amount"`
	Currency        string           `json:"currency"`
	ShippingAddress OrderAddress     `json:"shipping_address"`
	ClientOrderID   string           `json:"client_order_id"`
	CreatedAt       time.Time        `json:"created_at"`
}

// OrderAddress is the shipping address collected during checkout.
// FullName, Line1, City, PostalCode and Country are mandatory.
type OrderAddress struct {
	FullName   string `json:"full_name" bson:"full_name"`
	Email      string `json:"email,omitempty" bson:"email,omitempty"`
	Line1      string `json:"line1" bson:"line1"`
	Line2      string `json:"line2,omitempty" bson:"line2,omitempty"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// MissingFields lists the mandatory address fields that are empty.
func (a OrderAddress) MissingFields() []string {
	var missing []string
	if a.FullName == "" {
		missing = append(missing, "full_name")
	}
	if a.Line1 == "" {
		missing = append(missing, "line1")
	}
	if a.City == "" {
		missing = append(missing, "city")
	}
	if a.PostalCode == "" {
		missing = append(missing, "postal_code")
	}
	if a.Country == "" {
		missing = append(missing, "country")
	}
	return missing
}

// SavedAddress is an address stored on a shopper's profile.
type SavedAddress struct {
	ID        string       `bson:"_id,omitempty" json:"id"`
	UserID    string       `bson:"user_id" json:"user_id"`
	Address   OrderAddress `bson:"address" json:"address"`
	IsDefault bool         `bson:"is_default" json:"is_default"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}
