// Package inventory implementa el libro de movimientos: la única operación
// autorizada para mutar el stock de un producto.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/repuestos-pos/internal/domain"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

// LedgerUseCase aplica movimientos de inventario de forma transaccional,
// con bloqueo de fila (SELECT FOR UPDATE) sobre el producto.
type LedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.InventoryMovementRepository // lado de lectura (pool)
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, movRepo repository.InventoryMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, movRepo: movRepo}
}

// ApplyInput entrada para aplicar un movimiento.
// Quantity es positiva para entry y exit (exit se guarda negada) y con signo
// para adjustment.
type ApplyInput struct {
	ProductID   string
	Type        string
	Quantity    int64
	Reason      string
	ReferenceID string
	Notes       string
	ActorID     string
}

// signedQuantity traduce (tipo, cantidad) a la cantidad con signo del libro.
func signedQuantity(movType string, qty int64) (int64, error) {
	switch movType {
	case entity.MovementTypeEntry:
		if qty <= 0 {
			return 0, &domain.ValidationError{Field: "quantity", Reason: "una entrada exige cantidad positiva"}
		}
		return qty, nil
	case entity.MovementTypeExit:
		if qty <= 0 {
			return 0, &domain.ValidationError{Field: "quantity", Reason: "una salida exige cantidad positiva"}
		}
		return -qty, nil
	case entity.MovementTypeAdjustment:
		if qty == 0 {
			return 0, &domain.ValidationError{Field: "quantity", Reason: "un ajuste exige cantidad distinta de cero"}
		}
		return qty, nil
	default:
		return 0, &domain.ValidationError{Field: "type", Reason: "tipo de movimiento desconocido"}
	}
}

// ApplyInTx aplica un movimiento usando los repositorios del caller (misma
// transacción). Bloquea la fila del producto, verifica que el stock resultante
// no sea negativo, actualiza products.stock y guarda el movimiento: no existe
// ruta de código que escriba uno sin el otro.
//
// Devuelve el movimiento y el producto con el stock ya recalculado; el precio
// del producto devuelto es el leído dentro de la transacción, apto para
// valorar líneas de venta sin confiar en datos del cliente.
func (uc *LedgerUseCase) ApplyInTx(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	in ApplyInput,
) (*entity.InventoryMovement, *entity.Product, error) {
	signed, err := signedQuantity(in.Type, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, nil, &domain.ValidationError{Field: "reason", Reason: "el motivo es obligatorio"}
	}

	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}

	newStock := product.Stock + signed
	if newStock < 0 {
		return nil, nil, &domain.InsufficientStockError{
			ProductCode: product.Code,
			Requested:   -signed,
			Available:   product.Stock,
		}
	}

	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return nil, nil, err
	}

	mov := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		Type:        in.Type,
		Quantity:    signed,
		Reason:      in.Reason,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		CreatedBy:   in.ActorID,
		CreatedAt:   time.Now(),
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, nil, err
	}

	product.Stock = newStock
	return mov, product, nil
}

// Apply registra un movimiento manual (entrada o ajuste desde la pantalla de
// inventario) en su propia transacción.
func (uc *LedgerUseCase) Apply(ctx context.Context, actorID string, in ApplyInput) (*entity.InventoryMovement, error) {
	in.ActorID = actorID
	var mov *entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		mov, _, err = uc.ApplyInTx(movRepo, productRepo, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ListMovements lista el historial, opcionalmente filtrado por producto y
// rango de fechas. Lectura fuera de transacción: un snapshot viejo es
// aceptable porque no muta nada.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID != "" {
		return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
	}
	return uc.movRepo.List(from, to, limit, offset)
}
