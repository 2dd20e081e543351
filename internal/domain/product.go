package domain

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	ImageURL string  `json:"image_url,omitempty"`
}

// ProductRef is either a bare product id or a fully loaded product.
// Cart entries hydrated from the backend may only carry the id; entries
// added locally carry the embedded product.
type ProductRef struct {
	id      string
	product *Product
}

func ProductReference(id string) ProductRef {
	return ProductRef{id: id}
}

func EmbeddedProduct(p Product) ProductRef {
	return ProductRef{id: p.ID, product: &p}
}

func (r ProductRef) ProductID() string {
	return r.id
}

// Embedded returns the loaded product, if any. Reference-only entries
// report false and contribute nothing to derived totals.
func (r ProductRef) Embedded() (Product, bool) {
	if r.product == nil {
		return Product{}, false
	}
	return *r.product, true
}
