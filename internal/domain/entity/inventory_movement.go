package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry      = "entry"      // entrada
	MovementTypeExit       = "exit"       // salida
	MovementTypeAdjustment = "adjustment" // ajuste (cantidad con signo)
)

// InventoryMovement es el registro inmutable de un cambio de stock.
// La cantidad lleva signo: positiva para entradas y ajustes al alza, negativa
// para salidas y ajustes a la baja. El libro de movimientos es la fuente de
// verdad del historial de stock; corregir un error exige un movimiento
// compensatorio, nunca una edición.
type InventoryMovement struct {
	ID          string
	ProductID   string // referencia débil: puede sobrevivir a un producto borrado
	Type        string
	Quantity    int64 // con signo
	Reason      string
	ReferenceID string // venta que causó el movimiento, si aplica
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
}
