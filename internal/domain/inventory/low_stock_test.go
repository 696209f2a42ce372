package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/inventory"
)

func product(code string, stock, minStock int64) *entity.Product {
	return &entity.Product{Code: code, Stock: stock, MinStock: minStock}
}

func TestLowStock_FiltraStockEnOBajoElMinimo(t *testing.T) {
	products := []*entity.Product{
		product("A", 10, 5),  // sano
		product("B", 5, 5),   // en el mínimo: alerta
		product("C", 0, 3),   // agotado: alerta
		product("D", 4, 3),   // sano
	}

	low := inventory.LowStock(products, 0)

	require.Len(t, low, 2)
	assert.Equal(t, "C", low[0].Code, "el más urgente (menos stock) primero")
	assert.Equal(t, "B", low[1].Code)
}

func TestLowStock_EmpateSeResuelvePorCodigo(t *testing.T) {
	products := []*entity.Product{
		product("ZZZ", 1, 5),
		product("AAA", 1, 5),
	}

	low := inventory.LowStock(products, 0)

	require.Len(t, low, 2)
	assert.Equal(t, "AAA", low[0].Code)
	assert.Equal(t, "ZZZ", low[1].Code)
}

func TestLowStock_RespetaElLimite(t *testing.T) {
	products := []*entity.Product{
		product("A", 0, 5),
		product("B", 1, 5),
		product("C", 2, 5),
	}

	low := inventory.LowStock(products, 2)

	require.Len(t, low, 2)
	assert.Equal(t, "A", low[0].Code)
	assert.Equal(t, "B", low[1].Code)
}

func TestLowStock_NoMutaLaEntrada(t *testing.T) {
	products := []*entity.Product{
		product("B", 0, 5),
		product("A", 0, 5),
	}

	_ = inventory.LowStock(products, 0)

	// El slice original conserva su orden.
	assert.Equal(t, "B", products[0].Code)
	assert.Equal(t, "A", products[1].Code)
}

func TestLowStock_SinAlertas_DevuelveVacio(t *testing.T) {
	products := []*entity.Product{product("A", 10, 5)}
	assert.Empty(t, inventory.LowStock(products, 0))
}
