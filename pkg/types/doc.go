// Package types defines the storefront domain entities (Product, CartLine,
// CartTotals, order records), the Store interface implemented by every
// storage backend, configuration, and the standard error values shared by
// the catalog, query, cart and order packages.
package types
