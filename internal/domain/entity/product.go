package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un repuesto del catálogo.
// Stock es una proyección materializada de la suma de movimientos de inventario
// del producto; solo el motor de inventario lo muta, y siempre en la misma
// transacción que el movimiento que lo cambia.
type Product struct {
	ID                string
	Code              string // código único de negocio
	ImageURL          string
	Type              string
	Brand             string
	Model             string
	YearRange         string
	Stock             int64
	MinStock          int64
	UnitPrice         decimal.Decimal
	SupplierID        string // referencia débil a Supplier (puede quedar huérfana)
	WarehouseLocation string
	Description       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayName arma el nombre comercial que se guarda en las líneas de venta
// (el snapshot del nombre sobrevive aunque el producto cambie o se borre).
func (p *Product) DisplayName() string {
	return p.Type + " " + p.Brand + " " + p.Model
}
