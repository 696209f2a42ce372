package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/repuestos-pos/internal/application/inventory"
	"github.com/tu-usuario/repuestos-pos/internal/domain"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memStore estado compartido de los fakes. El mutex del txRunner serializa las
// transacciones, igual que el bloqueo de fila en la base real.
type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.InventoryMovement
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *memStore) snapshot() *memStore {
	cp := &memStore{products: make(map[string]*entity.Product, len(s.products))}
	for id, p := range s.products {
		pc := *p
		cp.products[id] = &pc
	}
	cp.movements = append(cp.movements, s.movements...)
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.movements = from.movements
}

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Create(p *entity.Product) error { r.store.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *memProductRepo) GetByCode(string) (*entity.Product, error) { return nil, nil }
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}
func (r *memProductRepo) Update(p *entity.Product) error { r.store.products[p.ID] = p; return nil }
func (r *memProductRepo) UpdateStock(id string, stock int64) error {
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}
func (r *memProductRepo) List(int, int) ([]*entity.Product, error)           { return nil, nil }
func (r *memProductRepo) Search(string, int, int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Delete(string) error                                { return nil }

type memMovementRepo struct{ store *memStore }

func (r *memMovementRepo) Create(m *entity.InventoryMovement) error {
	r.store.movements = append(r.store.movements, m)
	return nil
}
func (r *memMovementRepo) GetByID(string) (*entity.InventoryMovement, error) { return nil, nil }
func (r *memMovementRepo) ListByProduct(productID string, _, _ *time.Time, _, _ int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *memMovementRepo) List(_, _ *time.Time, _, _ int) ([]*entity.InventoryMovement, error) {
	return r.store.movements, nil
}
func (r *memMovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

// memTxRunner transacción simulada: toma snapshot, ejecuta y restaura si falla.
type memTxRunner struct{ store *memStore }

func (t *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	before := t.store.snapshot()
	if err := fn(&memMovementRepo{store: t.store}, &memProductRepo{store: t.store}); err != nil {
		t.store.restore(before)
		return err
	}
	return nil
}

func testProduct(id, code string, stock int64) *entity.Product {
	return &entity.Product{
		ID:        id,
		Code:      code,
		Type:      "Filtro",
		Brand:     "Toyota",
		Model:     "Hilux",
		Stock:     stock,
		UnitPrice: decimal.NewFromInt(25),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Apply
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_EntradaAumentaStockYRegistraMovimiento(t *testing.T) {
	store := newMemStore(testProduct("p1", "FLT-001", 10))
	uc := inventory.NewLedgerUseCase(&memTxRunner{store: store}, &memMovementRepo{store: store})

	mov, err := uc.Apply(context.Background(), "user-1", inventory.ApplyInput{
		ProductID: "p1",
		Type:      entity.MovementTypeEntry,
		Quantity:  5,
		Reason:    "Compra a proveedor",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), mov.Quantity, "una entrada se guarda positiva")
	assert.Equal(t, "user-1", mov.CreatedBy)
	assert.Equal(t, int64(15), store.products["p1"].Stock)
}

func TestApply_SalidaDescuentaStockYGuardaCantidadNegada(t *testing.T) {
	store := newMemStore(testProduct("p1", "FLT-001", 10))
	uc := inventory.NewLedgerUseCase(&memTxRunner{store: store}, &memMovementRepo{store: store})

	mov, err := uc.Apply(context.Background(), "user-1", inventory.ApplyInput{
		ProductID: "p1",
		Type:      entity.MovementTypeExit,
		Quantity:  4,
		Reason:    "Merma",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(-4), mov.Quantity, "una salida se guarda negada")
	assert.Equal(t, int64(6), store.products["p1"].Stock)
}

func TestApply_AjusteLlevaSigno(t *testing.T) {
	store := newMemStore(testProduct("p1", "FLT-001", 10))
	uc := inventory.NewLedgerUseCase(&memTxRunner{store: store}, &memMovementRepo{store: store})

	_, err := uc.Apply(context.Background(), "user-1", inventory.ApplyInput{
		ProductID: "p1", Type: entity.MovementTypeAdjustment, Quantity: -3, Reason: "Conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), store.products["p1"].Stock)

	_, err = uc.Apply(context.Background(), "user-1", inventory.ApplyInput{
		ProductID: "p1", Type: entity.MovementTypeAdjustment, Quantity: 2, Reason: "Conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), store.products["p1"].Stock)
}

func TestApply_StockInsuficiente_NoEscribeNada(t *testing.T) {
	store := newMemStore(testProduct("p1", "FLT-001", 3))
	uc := inventory.NewLedgerUseCase(&memTxRunner{store: store}, &memMovementRepo{store: store})

	_, err := uc.Apply(context.Background(), "user-1", inventory.ApplyInput{
		ProductID: "p1",
		Type:      entity.MovementTypeExit,
		Quantity:  5,
		Reason:    "Venta",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "FLT-001", stockErr.ProductCode)
	assert.Equal(t, int64(5), stockErr.Requested)
	assert.Equal(t, int64(3), stockErr.Available)

	// La transacción se revirtió: ni stock ni movimiento.
	assert.Equal(t, int64(3), store.products["p1"].Stock)
	assert.Empty(t, store.movements)
}

func TestApply_AjusteBajoCeroTambienSeRechaza(t *testing.T) {
	store := newMemStore(testProduct("p1", "FLT-001", 2))
	uc := inventory.NewLedgerUseCase(&memTxRunner{store: store}, &memMovementRepo{store: store})

	_, err := uc.Apply(context.Background(), "user-1", inventory.ApplyInput{
		ProductID: "p1", Type: entity.MovementTypeAdjustment, Quantity: -5, Reason: "Conteo físico",
	})

	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int64(2), store.products["p1"].Stock)
}

func TestApply_ValidacionesDeEntrada(t *testing.T) {
	store := newMemStore(testProduct("p1", "FLT-001", 10))
	uc := inventory.NewLedgerUseCase(&memTxRunner{store: store}, &memMovementRepo{store: store})

	cases := []struct {
		name string
		in   inventory.ApplyInput
	}{
		{"entrada con cantidad cero", inventory.ApplyInput{ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: 0, Reason: "x"}},
		{"salida con cantidad negativa", inventory.ApplyInput{ProductID: "p1", Type: entity.MovementTypeExit, Quantity: -1, Reason: "x"}},
		{"ajuste con cantidad cero", inventory.ApplyInput{ProductID: "p1", Type: entity.MovementTypeAdjustment, Quantity: 0, Reason: "x"}},
		{"tipo desconocido", inventory.ApplyInput{ProductID: "p1", Type: "transfer", Quantity: 1, Reason: "x"}},
		{"sin motivo", inventory.ApplyInput{ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: 1, Reason: "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Apply(context.Background(), "user-1", tc.in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "esperaba error de validación")
		})
	}
	assert.Empty(t, store.movements, "ninguna validación fallida debe escribir")
}

func TestApply_ProductoInexistente_NotFound(t *testing.T) {
	store := newMemStore()
	uc := inventory.NewLedgerUseCase(&memTxRunner{store: store}, &memMovementRepo{store: store})

	_, err := uc.Apply(context.Background(), "user-1", inventory.ApplyInput{
		ProductID: "nope", Type: entity.MovementTypeEntry, Quantity: 1, Reason: "x",
	})

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Invariante de consistencia: tras cualquier secuencia de movimientos, el
// stock materializado coincide con la suma del libro.
func TestApply_StockSiempreIgualASumaDeMovimientos(t *testing.T) {
	store := newMemStore(testProduct("p1", "FLT-001", 0))
	movRepo := &memMovementRepo{store: store}
	uc := inventory.NewLedgerUseCase(&memTxRunner{store: store}, movRepo)

	steps := []inventory.ApplyInput{
		{ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: 10, Reason: "Compra"},
		{ProductID: "p1", Type: entity.MovementTypeExit, Quantity: 4, Reason: "Venta"},
		{ProductID: "p1", Type: entity.MovementTypeAdjustment, Quantity: -1, Reason: "Conteo"},
		{ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: 3, Reason: "Compra"},
	}
	for _, in := range steps {
		_, err := uc.Apply(context.Background(), "user-1", in)
		require.NoError(t, err)
	}

	sum, err := movRepo.SumByProduct("p1")
	require.NoError(t, err)
	assert.Equal(t, store.products["p1"].Stock, sum)
	assert.Equal(t, int64(8), sum)
}
