package types

import "errors"

// Store errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidKey      = errors.New("invalid record key")
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrCorruptRecord   = errors.New("corrupt record")
)

// Catalog errors.
var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidProduct   = errors.New("invalid product")
)

// Cart errors.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrLineNotFound    = errors.New("product is not in the cart")
	ErrQuantityLimit   = errors.New("quantity exceeds the per-line maximum")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmptyCart       = errors.New("cart is empty")
)

// Order errors.
var (
	ErrTransientFailure = errors.New("order submission failed, retry later")
)
