package entity

import "time"

// Supplier representa un proveedor. Ciclo de vida independiente: los productos
// lo referencian de forma débil, nunca como relación de propiedad.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
