package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
	PaymentCheck    = "cheque"
)

// ValidPaymentMethod indica si el método de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCheck:
		return true
	}
	return false
}

// Sale representa una venta completada. Registro financiero append-only:
// se crea una sola vez, atómicamente con sus items, y nunca se muta.
// Invariantes: Total == Subtotal - Discount; 0 <= Discount <= Subtotal.
type Sale struct {
	ID            string
	SaleNumber    string // identificador único legible, generado
	CustomerName  string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Notes         string
	CreatedBy     string // referencia débil al actor autenticado
	CreatedAt     time.Time

	// Items cargados junto con la venta (lecturas y agregación).
	Items []*SaleItem
}

// SaleItem es una línea de venta, propiedad exclusiva de una Sale.
// Invariantes: Total == Quantity * UnitPrice; sum(Items.Total) == Sale.Subtotal.
// ProductCode y ProductName son snapshots: sobreviven al producto.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string // referencia débil: el producto puede borrarse después
	ProductCode string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}
