package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

var _ repository.SaleNumberRepository = (*SaleNumberRepo)(nil)

// SaleNumberRepo genera números de venta desde un contador en BD.
// El upsert atómico garantiza unicidad bajo concurrencia; una transacción
// revertida quema su número, así que la secuencia puede tener huecos.
type SaleNumberRepo struct {
	q      Querier
	prefix string
}

// NewSaleNumberRepository construye el generador de numeración. prefix es el
// prefijo configurable del número (ej. "V" produce "V-000001").
func NewSaleNumberRepository(q Querier, prefix string) *SaleNumberRepo {
	if prefix == "" {
		prefix = "V"
	}
	return &SaleNumberRepo{q: q, prefix: prefix}
}

// Next devuelve el siguiente número de venta formateado.
func (r *SaleNumberRepo) Next() (string, error) {
	query := `
		INSERT INTO sale_counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = sale_counters.value + 1
		RETURNING value`
	var value int64
	if err := r.q.QueryRow(context.Background(), query, "sales").Scan(&value); err != nil {
		return "", fmt.Errorf("next sale number: %w", err)
	}
	return fmt.Sprintf("%s-%06d", r.prefix, value), nil
}
