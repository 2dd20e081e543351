package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Products *ProductHandler
	Orders   *OrderHandler
	Address  *AddressHandler
	Sessions SessionStore
}

func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Compress(5))
	r.Use(OwnerMiddleware(h.Sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.ListProducts)
			r.Get("/{product_id}", h.Products.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.Checkout.OrderNow)
			r.Get("/{draft_id}", h.Checkout.GetCheckout)
			r.Put("/{draft_id}/address", h.Checkout.SelectAddress)
			r.Post("/{draft_id}/submit", h.Checkout.Submit)
		})

		r.Get("/orders/{order_id}", h.Orders.GetOrder)

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", h.Address.ListAddresses)
			r.Post("/", h.Address.AddAddress)
			r.Delete("/{address_id}", h.Address.DeleteAddress)
			r.Put("/{address_id}/default", h.Address.SetDefaultAddress)
		})
	})

	return r
}
