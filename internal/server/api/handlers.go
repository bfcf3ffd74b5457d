// Package api exposes the storefront over HTTP. Handlers translate
// between the wire shapes clients consume and the domain services, and
// every error leaves through the shared code/message envelope.
package api

import (
	"net/http"
	"time"

	"github.com/example/cartsync/internal/auth"
	"github.com/example/cartsync/internal/server/carts"
	"github.com/example/cartsync/internal/server/store"
	"github.com/example/cartsync/internal/server/users"
)

// Handlers bundles the services the HTTP layer fronts.
type Handlers struct {
	users   *users.Service
	carts   *carts.Service
	jwt     *auth.JWTService
	catalog store.Interface
}

func NewHandlers(userSvc *users.Service, cartSvc *carts.Service, jwtSvc *auth.JWTService, catalog store.Interface) *Handlers {
	return &Handlers{
		users:   userSvc,
		carts:   cartSvc,
		jwt:     jwtSvc,
		catalog: catalog,
	}
}

// profileView is the user shape returned to clients. The password hash
// never leaves the server.
type profileView struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProfileView(u *store.User) profileView {
	return profileView{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type productSnapshotView struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Slug  string `json:"slug"`
	Stock int    `json:"stock"`
}

type cartItemView struct {
	ID        string              `json:"id"`
	ProductID string              `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	UnitPrice int                 `json:"unit_price"`
	Product   productSnapshotView `json:"product"`
}

type cartView struct {
	ID             string         `json:"id"`
	Items          []cartItemView `json:"items"`
	ItemCount      int            `json:"item_count"`
	Subtotal       int            `json:"subtotal"`
	DiscountAmount int            `json:"discount_amount"`
	Total          int            `json:"total"`
}

// toCartView flattens a stored cart into the wire shape, deriving the
// totals so clients never have to.
func toCartView(cart *store.Cart) cartView {
	items := make([]cartItemView, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, cartItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Product: productSnapshotView{
				Name:  it.ProductName,
				Image: it.ProductImage,
				Slug:  it.ProductSlug,
				Stock: it.ProductStock,
			},
		})
	}
	itemCount, subtotal, discount, total := carts.Totals(cart)
	return cartView{
		ID:             cart.ID,
		Items:          items,
		ItemCount:      itemCount,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          total,
	}
}

type productView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
	Price int    `json:"price"`
	Stock int    `json:"stock"`
}

func toProductView(p *store.Product) productView {
	return productView{
		ID:    p.ID,
		Name:  p.Name,
		Slug:  p.Slug,
		Image: p.Image,
		Price: p.Price,
		Stock: p.Stock,
	}
}

func respondCart(w http.ResponseWriter, status int, cart *store.Cart) {
	respondJSON(w, status, toCartView(cart))
}
