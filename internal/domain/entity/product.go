package entity

// Product is a catalog item. Products are read-only in this service;
// only their option collections are edited. Stock never goes negative
// (enforced by the store).
type Product struct {
	ID           int64
	Name         string
	Stock        int
	Active       bool
	SupplierName string // optional; empty means absent
	Options      []Option
}
