package repository

import (
	"time"

	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para el libro
// de movimientos. Append-only: no existen Update ni Delete.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	// SumByProduct devuelve Σ quantity de los movimientos del producto.
	// Debe coincidir siempre con products.stock (invariante de consistencia).
	SumByProduct(productID string) (int64, error)
}
