package sales_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/repuestos-pos/internal/application/dto"
	"github.com/tu-usuario/repuestos-pos/internal/application/inventory"
	"github.com/tu-usuario/repuestos-pos/internal/application/sales"
	"github.com/tu-usuario/repuestos-pos/internal/domain"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// saleStore simula la base: el mutex del txRunner serializa transacciones
// (como el bloqueo de fila) y el snapshot/restore simula el rollback.
// ──────────────────────────────────────────────────────────────────────────────

type saleStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.InventoryMovement
	sales     map[string]*entity.Sale
	items     []*entity.SaleItem
	counter   int64
}

func newSaleStore(products ...*entity.Product) *saleStore {
	s := &saleStore{
		products: make(map[string]*entity.Product),
		sales:    make(map[string]*entity.Sale),
	}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *saleStore) snapshot() *saleStore {
	cp := &saleStore{
		products: make(map[string]*entity.Product, len(s.products)),
		sales:    make(map[string]*entity.Sale, len(s.sales)),
	}
	for id, p := range s.products {
		pc := *p
		cp.products[id] = &pc
	}
	for id, sale := range s.sales {
		sc := *sale
		cp.sales[id] = &sc
	}
	cp.movements = append(cp.movements, s.movements...)
	cp.items = append(cp.items, s.items...)
	return cp
}

// restore revierte todo menos el contador: como una secuencia, los números de
// intentos revertidos se queman.
func (s *saleStore) restore(from *saleStore) {
	s.products = from.products
	s.movements = from.movements
	s.sales = from.sales
	s.items = from.items
}

func (s *saleStore) numberTaken(number string) bool {
	for _, sale := range s.sales {
		if sale.SaleNumber == number {
			return true
		}
	}
	return false
}

type fakeProductRepo struct{ store *saleStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.store.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *fakeProductRepo) GetByCode(string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.store.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateStock(id string, stock int64) error {
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}
func (r *fakeProductRepo) List(int, int) ([]*entity.Product, error)           { return nil, nil }
func (r *fakeProductRepo) Search(string, int, int) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Delete(string) error                                { return nil }

type fakeMovementRepo struct{ store *saleStore }

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	r.store.movements = append(r.store.movements, m)
	return nil
}
func (r *fakeMovementRepo) GetByID(string) (*entity.InventoryMovement, error) { return nil, nil }
func (r *fakeMovementRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) List(*time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

type fakeSaleRepo struct{ store *saleStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	if r.store.numberTaken(sale.SaleNumber) {
		return domain.ErrNumberingConflict
	}
	cp := *sale
	cp.Items = nil
	r.store.sales[sale.ID] = &cp
	return nil
}
func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	r.store.items = append(r.store.items, item)
	return nil
}
func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.store.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}
func (r *fakeSaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.store.items {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return out, nil
}
func (r *fakeSaleRepo) ListWithItems(time.Time, time.Time, int, int) ([]*entity.Sale, error) {
	return nil, nil
}
func (r *fakeSaleRepo) ListRecent(int) ([]*entity.Sale, error) { return nil, nil }

type fakeNumberRepo struct{ store *saleStore }

func (r *fakeNumberRepo) Next() (string, error) {
	r.store.counter++
	return fmt.Sprintf("V-%06d", r.store.counter), nil
}

type fakeSaleTxRunner struct{ store *saleStore }

func (t *fakeSaleTxRunner) RunSale(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	numberRepo repository.SaleNumberRepository,
) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	before := t.store.snapshot()
	err := fn(
		&fakeMovementRepo{store: t.store},
		&fakeProductRepo{store: t.store},
		&fakeSaleRepo{store: t.store},
		&fakeNumberRepo{store: t.store},
	)
	if err != nil {
		t.store.restore(before)
		return err
	}
	return nil
}

// newUseCase arma el caso de uso con el ledger real sobre los fakes.
func newUseCase(store *saleStore) *sales.CreateSaleUseCase {
	ledger := inventory.NewLedgerUseCase(nil, nil) // solo se usa ApplyInTx
	return sales.NewCreateSaleUseCase(&fakeSaleTxRunner{store: store}, ledger, &fakeSaleRepo{store: store})
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func catalogProduct(id, code string, stock int64, price string) *entity.Product {
	return &entity.Product{
		ID:        id,
		Code:      code,
		Type:      "Filtro",
		Brand:     "Toyota",
		Model:     "Hilux",
		Stock:     stock,
		MinStock:  2,
		UnitPrice: dec(price),
	}
}

func validRequest(items ...dto.SaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerName:  "Juan Pérez",
		PaymentMethod: entity.PaymentCash,
		Discount:      decimal.Zero,
		Items:         items,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Camino feliz
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_VentaCompleta(t *testing.T) {
	store := newSaleStore(
		catalogProduct("p1", "FLT-001", 10, "25.00"),
		catalogProduct("p2", "BUJ-004", 8, "9.50"),
	)
	uc := newUseCase(store)

	out, err := uc.CreateSale(context.Background(), "user-1", validRequest(
		dto.SaleItemRequest{ProductID: "p1", Quantity: 2},
		dto.SaleItemRequest{ProductID: "p2", Quantity: 4},
	))

	require.NoError(t, err)
	assert.Equal(t, "V-000001", out.SaleNumber)
	assert.Equal(t, "Juan Pérez", out.CustomerName)
	assert.True(t, dec("88.00").Equal(out.Subtotal), "subtotal: %s", out.Subtotal)
	assert.True(t, dec("88.00").Equal(out.Total))
	assert.Equal(t, "user-1", out.CreatedBy)
	require.Len(t, out.Items, 2)

	// Stock consumido.
	assert.Equal(t, int64(8), store.products["p1"].Stock)
	assert.Equal(t, int64(4), store.products["p2"].Stock)

	// Un movimiento de salida por línea, referenciando la venta.
	require.Len(t, store.movements, 2)
	for _, m := range store.movements {
		assert.Equal(t, entity.MovementTypeExit, m.Type)
		assert.Equal(t, out.ID, m.ReferenceID)
		assert.Equal(t, "Venta V-000001", m.Reason)
		assert.Equal(t, "user-1", m.CreatedBy)
		assert.Negative(t, m.Quantity)
	}

	// Las líneas llevan snapshot de código y nombre.
	require.Len(t, store.items, 2)
	assert.Equal(t, "FLT-001", store.items[0].ProductCode)
	assert.Equal(t, "Filtro Toyota Hilux", store.items[0].ProductName)
}

func TestCreateSale_PrecioSaleDelCatalogoNoDelCliente(t *testing.T) {
	store := newSaleStore(catalogProduct("p1", "FLT-001", 10, "123.45"))
	uc := newUseCase(store)

	out, err := uc.CreateSale(context.Background(), "user-1", validRequest(
		dto.SaleItemRequest{ProductID: "p1", Quantity: 3},
	))

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, dec("123.45").Equal(out.Items[0].UnitPrice))
	assert.True(t, dec("370.35").Equal(out.Items[0].Total), "total línea = cantidad × precio fresco")
	assert.True(t, out.Items[0].Total.Equal(out.Subtotal), "sum(items) == subtotal")
}

func TestCreateSale_LineasDuplicadasSeFusionan(t *testing.T) {
	store := newSaleStore(catalogProduct("p1", "FLT-001", 10, "10.00"))
	uc := newUseCase(store)

	out, err := uc.CreateSale(context.Background(), "user-1", validRequest(
		dto.SaleItemRequest{ProductID: "p1", Quantity: 2},
		dto.SaleItemRequest{ProductID: "p1", Quantity: 3},
	))

	require.NoError(t, err)
	require.Len(t, out.Items, 1, "las líneas del mismo producto se fusionan")
	assert.Equal(t, int64(5), out.Items[0].Quantity)
	assert.Equal(t, int64(5), store.products["p1"].Stock)
}

func TestCreateSale_DescuentoAplicado(t *testing.T) {
	store := newSaleStore(catalogProduct("p1", "FLT-001", 10, "50.00"))
	uc := newUseCase(store)

	in := validRequest(dto.SaleItemRequest{ProductID: "p1", Quantity: 2})
	in.Discount = dec("20.00")

	out, err := uc.CreateSale(context.Background(), "user-1", in)

	require.NoError(t, err)
	assert.True(t, dec("100.00").Equal(out.Subtotal))
	assert.True(t, dec("20.00").Equal(out.Discount))
	assert.True(t, dec("80.00").Equal(out.Total), "total = subtotal - descuento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos: nada parcial sobrevive
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_StockInsuficienteEnSegundaLinea_NoEscribeNada(t *testing.T) {
	store := newSaleStore(
		catalogProduct("a-primero", "AAA-001", 10, "10.00"),
		catalogProduct("z-segundo", "ZZZ-900", 1, "10.00"),
	)
	uc := newUseCase(store)

	_, err := uc.CreateSale(context.Background(), "user-1", validRequest(
		dto.SaleItemRequest{ProductID: "a-primero", Quantity: 2},
		dto.SaleItemRequest{ProductID: "z-segundo", Quantity: 5},
	))

	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "ZZZ-900", stockErr.ProductCode)
	assert.Equal(t, int64(5), stockErr.Requested)
	assert.Equal(t, int64(1), stockErr.Available)

	// Rollback completo: la primera línea tampoco consumió stock.
	assert.Equal(t, int64(10), store.products["a-primero"].Stock)
	assert.Equal(t, int64(1), store.products["z-segundo"].Stock)
	assert.Empty(t, store.movements)
	assert.Empty(t, store.sales)
	assert.Empty(t, store.items)
}

func TestCreateSale_DescuentoMayorAlSubtotal_SeRechaza(t *testing.T) {
	store := newSaleStore(catalogProduct("p1", "FLT-001", 10, "10.00"))
	uc := newUseCase(store)

	in := validRequest(dto.SaleItemRequest{ProductID: "p1", Quantity: 1})
	in.Discount = dec("10.01")

	_, err := uc.CreateSale(context.Background(), "user-1", in)

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, int64(10), store.products["p1"].Stock, "rollback: el stock no cambió")
	assert.Empty(t, store.sales)
}

func TestCreateSale_ProductoInexistente_NotFound(t *testing.T) {
	store := newSaleStore()
	uc := newUseCase(store)

	_, err := uc.CreateSale(context.Background(), "user-1", validRequest(
		dto.SaleItemRequest{ProductID: "nope", Quantity: 1},
	))

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateSale_ValidacionesDeEntrada(t *testing.T) {
	store := newSaleStore(catalogProduct("p1", "FLT-001", 10, "10.00"))
	uc := newUseCase(store)

	cases := []struct {
		name string
		in   dto.CreateSaleRequest
	}{
		{"cliente vacío", dto.CreateSaleRequest{CustomerName: "  ", PaymentMethod: entity.PaymentCash,
			Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1}}}},
		{"sin líneas", dto.CreateSaleRequest{CustomerName: "Juan", PaymentMethod: entity.PaymentCash}},
		{"método de pago desconocido", dto.CreateSaleRequest{CustomerName: "Juan", PaymentMethod: "bitcoin",
			Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1}}}},
		{"descuento negativo", dto.CreateSaleRequest{CustomerName: "Juan", PaymentMethod: entity.PaymentCash,
			Discount: dec("-1"), Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1}}}},
		{"cantidad cero", dto.CreateSaleRequest{CustomerName: "Juan", PaymentMethod: entity.PaymentCash,
			Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 0}}}},
		{"product_id vacío", dto.CreateSaleRequest{CustomerName: "Juan", PaymentMethod: entity.PaymentCash,
			Items: []dto.SaleItemRequest{{ProductID: "", Quantity: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateSale(context.Background(), "user-1", tc.in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "esperaba error de validación")
		})
	}
	assert.Empty(t, store.sales, "ninguna validación fallida debe escribir")
	assert.Equal(t, int64(0), store.counter, "ni siquiera debe quemar números")
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_ColisionDeNumero_ReintentaConNumeroFresco(t *testing.T) {
	store := newSaleStore(catalogProduct("p1", "FLT-001", 10, "10.00"))
	// Otra venta ya ocupa V-000001 pero el contador está atrasado: el primer
	// intento colisiona y el reintento toma V-000002.
	store.sales["ajena"] = &entity.Sale{ID: "ajena", SaleNumber: "V-000001"}

	uc := newUseCase(store)
	out, err := uc.CreateSale(context.Background(), "user-1", validRequest(
		dto.SaleItemRequest{ProductID: "p1", Quantity: 2},
	))

	require.NoError(t, err)
	assert.Equal(t, "V-000002", out.SaleNumber, "el reintento usa un número fresco")
	// El reintento es una transacción nueva: el stock se aplicó una sola vez.
	assert.Equal(t, int64(8), store.products["p1"].Stock)
	assert.Len(t, store.movements, 1)
}

func TestCreateSale_ColisionesAgotanReintentos(t *testing.T) {
	store := newSaleStore(catalogProduct("p1", "FLT-001", 10, "10.00"))
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("ajena-%d", i)
		store.sales[id] = &entity.Sale{ID: id, SaleNumber: fmt.Sprintf("V-%06d", i)}
	}

	uc := newUseCase(store)
	_, err := uc.CreateSale(context.Background(), "user-1", validRequest(
		dto.SaleItemRequest{ProductID: "p1", Quantity: 2},
	))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNumberingConflict))
	assert.Equal(t, int64(10), store.products["p1"].Stock, "tras agotar reintentos no queda efecto alguno")
	assert.Empty(t, store.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// Dos ventas concurrentes del último artículo en stock: exactamente una gana.
func TestCreateSale_UltimaUnidad_SoloUnaVentaGana(t *testing.T) {
	store := newSaleStore(catalogProduct("p1", "FLT-001", 1, "10.00"))
	uc := newUseCase(store)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateSale(context.Background(), "user-1", validRequest(
				dto.SaleItemRequest{ProductID: "p1", Quantity: 1},
			))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}

	assert.Equal(t, 1, ok, "exactamente una venta debe ganar")
	assert.Equal(t, 1, insufficient, "la otra debe fallar por stock")
	assert.Equal(t, int64(0), store.products["p1"].Stock, "el stock nunca baja de cero")
	assert.Len(t, store.sales, 1)
	assert.Len(t, store.movements, 1)
}
