package sales

import (
	"context"

	"github.com/tu-usuario/repuestos-pos/internal/application/inventory"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de inventario, ventas y numeración. Es el alcance atómico de
// CreateSale: si fn falla, ningún efecto parcial sobrevive.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		numberRepo repository.SaleNumberRepository,
	) error) error
}

// Ledger integra ventas con inventario. ApplyInTx ejecuta la salida de stock
// usando los repositorios del caller (misma transacción); si devuelve error
// (ej: ErrInsufficientStock) el caller debe abortar.
type Ledger interface {
	ApplyInTx(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		in inventory.ApplyInput,
	) (*entity.InventoryMovement, *entity.Product, error)
}
