package repository

import (
	"time"

	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// Las ventas son append-only: no hay Update ni Delete.
type SaleRepository interface {
	// Create persiste la cabecera. Una violación del único sale_number se
	// reporta como domain.ErrNumberingConflict para el retry acotado.
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error)
	// ListWithItems devuelve las ventas del rango cerrado [from, to] con sus
	// items ya cargados, ordenadas por fecha de creación descendente.
	ListWithItems(from, to time.Time, limit, offset int) ([]*entity.Sale, error)
	ListRecent(limit int) ([]*entity.Sale, error)
}
