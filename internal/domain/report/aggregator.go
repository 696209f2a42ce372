// Package report agrega ventas e inventario sobre snapshots ya cargados.
// Todas las funciones son puras e idempotentes: el mismo snapshot produce
// siempre el mismo resultado, bit a bit.
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
)

// SalesSummary resume un conjunto de ventas.
type SalesSummary struct {
	Count         int
	TotalSales    decimal.Decimal
	TotalDiscount decimal.Decimal
	AverageSale   decimal.Decimal
}

// Summarize calcula totales de venta y descuento, y el promedio por venta
// (cero para el conjunto vacío, nunca división por cero).
func Summarize(sales []*entity.Sale) SalesSummary {
	s := SalesSummary{
		Count:         len(sales),
		TotalSales:    decimal.Zero,
		TotalDiscount: decimal.Zero,
		AverageSale:   decimal.Zero,
	}
	for _, sale := range sales {
		s.TotalSales = s.TotalSales.Add(sale.Total)
		s.TotalDiscount = s.TotalDiscount.Add(sale.Discount)
	}
	if s.Count > 0 {
		s.AverageSale = s.TotalSales.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
	}
	return s
}

// ProductSales acumula lo vendido de un producto, identificado por su código.
type ProductSales struct {
	Code         string
	Name         string
	QuantitySold int64
	Revenue      decimal.Decimal
}

// AggregateByProduct agrupa los items de las ventas por product_code sumando
// cantidad e ingresos. El resultado sale ordenado por cantidad descendente,
// con empates resueltos por código ascendente (determinista).
func AggregateByProduct(sales []*entity.Sale) []ProductSales {
	byCode := make(map[string]*ProductSales)
	for _, sale := range sales {
		for _, item := range sale.Items {
			ps, ok := byCode[item.ProductCode]
			if !ok {
				ps = &ProductSales{Code: item.ProductCode, Name: item.ProductName, Revenue: decimal.Zero}
				byCode[item.ProductCode] = ps
			}
			ps.QuantitySold += item.Quantity
			ps.Revenue = ps.Revenue.Add(item.Total)
		}
	}
	out := make([]ProductSales, 0, len(byCode))
	for _, ps := range byCode {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// TopProducts devuelve los n productos más vendidos. n <= 0 devuelve todos.
func TopProducts(sales []*entity.Sale, n int) []ProductSales {
	all := AggregateByProduct(sales)
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// InventoryValue calcula el valor del inventario: Σ stock × precio unitario.
func InventoryValue(products []*entity.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.UnitPrice.Mul(decimal.NewFromInt(p.Stock)))
	}
	return total
}
