package store

import "time"

// User is a registered account row.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  string    `json:"phone_number"`
	Address      string    `json:"address"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Product is a catalog entry.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
	Price int    `json:"price"` // cents
	Stock int    `json:"stock"`
}

// CartItem is one line of a stored cart. The product fields are a
// snapshot captured when the item was added.
type CartItem struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int    `json:"unit_price"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	ProductSlug  string `json:"product_slug"`
	ProductStock int    `json:"product_stock"`
}

// Cart is a user's stored cart. Version increments on every save and
// backs the optimistic concurrency check in backends that support it.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	Version   int        `json:"version"`
	UpdatedAt time.Time  `json:"updated_at"`
}
