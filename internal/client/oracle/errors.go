package oracle

import "fmt"

// Error codes shared across the oracle wire contract.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeValidation         = "VALIDATION"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeOutOfStock         = "OUT_OF_STOCK"
	CodeNotFound           = "NOT_FOUND"
	CodeNetwork            = "NETWORK"
)

// AuthError is a typed failure from a session operation.
type AuthError struct {
	Kind    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %s", e.Kind, e.Message)
}

// CartError is a typed failure from a cart operation.
type CartError struct {
	Kind    string
	Message string
}

func (e *CartError) Error() string {
	return fmt.Sprintf("cart: %s: %s", e.Kind, e.Message)
}

// IsUnauthenticated reports whether err carries the UNAUTHENTICATED
// code, from either taxonomy. Any operation can surface it and it
// always routes to the fail-closed logout path.
func IsUnauthenticated(err error) bool {
	switch e := err.(type) {
	case *AuthError:
		return e.Kind == CodeUnauthenticated
	case *CartError:
		return e.Kind == CodeUnauthenticated
	}
	return false
}
