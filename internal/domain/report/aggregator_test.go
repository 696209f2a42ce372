package report_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/report"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sale(total, discount string, items ...*entity.SaleItem) *entity.Sale {
	return &entity.Sale{
		Total:    dec(total),
		Discount: dec(discount),
		Items:    items,
	}
}

func item(code, name string, qty int64, total string) *entity.SaleItem {
	return &entity.SaleItem{
		ProductCode: code,
		ProductName: name,
		Quantity:    qty,
		Total:       dec(total),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Summarize
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarize_ConjuntoVacio_TodoCero(t *testing.T) {
	s := report.Summarize(nil)

	assert.Equal(t, 0, s.Count)
	assert.True(t, s.TotalSales.IsZero(), "total debe ser cero")
	assert.True(t, s.TotalDiscount.IsZero(), "descuento debe ser cero")
	assert.True(t, s.AverageSale.IsZero(), "promedio debe ser cero, nunca división por cero")
}

func TestSummarize_TotalesYPromedio(t *testing.T) {
	sales := []*entity.Sale{
		sale("100.00", "10.00"),
		sale("50.00", "0"),
		sale("25.50", "4.50"),
	}

	s := report.Summarize(sales)

	assert.Equal(t, 3, s.Count)
	assert.True(t, dec("175.50").Equal(s.TotalSales), "total: %s", s.TotalSales)
	assert.True(t, dec("14.50").Equal(s.TotalDiscount), "descuento: %s", s.TotalDiscount)
	assert.True(t, dec("58.50").Equal(s.AverageSale), "promedio redondeado a 2: %s", s.AverageSale)
}

func TestSummarize_PromedioRedondeadoADosDecimales(t *testing.T) {
	// 100 / 3 = 33.333... → 33.33
	sales := []*entity.Sale{
		sale("40.00", "0"),
		sale("30.00", "0"),
		sale("30.00", "0"),
	}
	s := report.Summarize(sales)
	assert.True(t, dec("33.33").Equal(s.AverageSale), "promedio: %s", s.AverageSale)
}

// El agregador es idempotente: el mismo snapshot produce el mismo resultado.
func TestSummarize_Idempotente(t *testing.T) {
	sales := []*entity.Sale{sale("99.99", "9.99"), sale("0.01", "0")}

	first := report.Summarize(sales)
	second := report.Summarize(sales)

	assert.Equal(t, first.Count, second.Count)
	assert.True(t, first.TotalSales.Equal(second.TotalSales))
	assert.True(t, first.AverageSale.Equal(second.AverageSale))
}

// ──────────────────────────────────────────────────────────────────────────────
// AggregateByProduct / TopProducts
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregateByProduct_AgrupaPorCodigoEntreVentas(t *testing.T) {
	sales := []*entity.Sale{
		sale("0", "0",
			item("FLT-001", "Filtro Aceite Toyota Hilux", 2, "50.00"),
			item("BUJ-004", "Bujía NGK Nissan Frontier", 4, "36.00"),
		),
		sale("0", "0",
			item("FLT-001", "Filtro Aceite Toyota Hilux", 3, "75.00"),
		),
	}

	out := report.AggregateByProduct(sales)

	require.Len(t, out, 2)
	assert.Equal(t, "FLT-001", out[0].Code, "el más vendido primero")
	assert.Equal(t, int64(5), out[0].QuantitySold)
	assert.True(t, dec("125.00").Equal(out[0].Revenue), "ingresos: %s", out[0].Revenue)
	assert.Equal(t, "BUJ-004", out[1].Code)
	assert.Equal(t, int64(4), out[1].QuantitySold)
}

func TestAggregateByProduct_EmpateSeResuelvePorCodigo(t *testing.T) {
	sales := []*entity.Sale{
		sale("0", "0",
			item("ZZZ-900", "Amortiguador", 3, "90.00"),
			item("AAA-100", "Pastillas Freno", 3, "45.00"),
		),
	}

	out := report.AggregateByProduct(sales)

	require.Len(t, out, 2)
	// Misma cantidad: el orden lo decide el código ascendente.
	assert.Equal(t, "AAA-100", out[0].Code)
	assert.Equal(t, "ZZZ-900", out[1].Code)
}

func TestTopProducts_CortaEnN(t *testing.T) {
	sales := []*entity.Sale{
		sale("0", "0",
			item("A", "a", 5, "5"),
			item("B", "b", 4, "4"),
			item("C", "c", 3, "3"),
		),
	}

	top := report.TopProducts(sales, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Code)
	assert.Equal(t, "B", top[1].Code)
}

func TestTopProducts_NNoPositivoDevuelveTodos(t *testing.T) {
	sales := []*entity.Sale{
		sale("0", "0", item("A", "a", 1, "1"), item("B", "b", 2, "2")),
	}
	assert.Len(t, report.TopProducts(sales, 0), 2)
	assert.Len(t, report.TopProducts(sales, -1), 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// InventoryValue
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryValue_SumaStockPorPrecio(t *testing.T) {
	products := []*entity.Product{
		{Stock: 10, UnitPrice: dec("25.50")},
		{Stock: 0, UnitPrice: dec("999.99")}, // sin stock no aporta
		{Stock: 3, UnitPrice: dec("100.00")},
	}

	total := report.InventoryValue(products)

	assert.True(t, dec("555.00").Equal(total), "valor: %s", total)
}

func TestInventoryValue_CatalogoVacio_Cero(t *testing.T) {
	assert.True(t, report.InventoryValue(nil).IsZero())
}
