// Package inventory contiene lógica de dominio pura sobre el stock.
package inventory

import (
	"sort"

	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
)

// LowStock devuelve los productos con stock en o por debajo de su mínimo,
// ordenados por stock ascendente (los más urgentes primero) y código para
// desempatar. limit <= 0 devuelve todos. No muta el slice de entrada; es
// seguro llamarla sobre snapshots viejos o cacheados.
func LowStock(products []*entity.Product, limit int) []*entity.Product {
	var low []*entity.Product
	for _, p := range products {
		if p.Stock <= p.MinStock {
			low = append(low, p)
		}
	}
	sort.Slice(low, func(i, j int) bool {
		if low[i].Stock != low[j].Stock {
			return low[i].Stock < low[j].Stock
		}
		return low[i].Code < low[j].Code
	})
	if limit > 0 && len(low) > limit {
		low = low[:limit]
	}
	return low
}
