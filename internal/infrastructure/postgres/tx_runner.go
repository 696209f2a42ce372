package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/repuestos-pos/internal/application/inventory"
	"github.com/tu-usuario/repuestos-pos/internal/application/sales"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
)

// TxRunner abre transacciones y pasa repositorios atados a la tx al callback.
// Si el callback devuelve error (o hay panic) se hace rollback; si no, commit.
// Es la pieza que hace atómicos CreateSale y los movimientos de inventario.
type TxRunner struct {
	pool       *pgxpool.Pool
	salePrefix string
}

// NewTxRunner construye el runner de transacciones. salePrefix alimenta el
// generador de numeración dentro de RunSale.
func NewTxRunner(pool *pgxpool.Pool, salePrefix string) *TxRunner {
	return &TxRunner{pool: pool, salePrefix: salePrefix}
}

// Run ejecuta fn dentro de una transacción con los repositorios de inventario.
func (t *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return t.inTx(ctx, func(q Querier) error {
		return fn(NewInventoryMovementRepository(q), NewProductRepository(q))
	})
}

// RunSale ejecuta fn dentro de una transacción con el alcance completo de una
// venta: inventario, ventas y numeración.
func (t *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	numberRepo repository.SaleNumberRepository,
) error) error {
	return t.inTx(ctx, func(q Querier) error {
		return fn(
			NewInventoryMovementRepository(q),
			NewProductRepository(q),
			NewSaleRepository(q),
			NewSaleNumberRepository(q, t.salePrefix),
		)
	})
}

func (t *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// Rollback es no-op después de Commit.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
