package domain

import "time"

// OrderDraft is a frozen quote of the cart taken when the shopper chooses
// "order now". Prices are captured at creation time and never recomputed.
type OrderDraft struct {
	ID          string           `json:"id"`
	Owner       OwnerRef         `json:"owner"`
	Items       []OrderDraftItem `json:"items"`
	TotalAmount float64          `json:"total_amount"`
	Currency    string           `json:"currency"`
	CreatedAt   time.Time        `json:"created_at"`
}

type OrderDraftItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency"`
}

func (i OrderDraftItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
