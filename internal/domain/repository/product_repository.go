package repository

import "github.com/tu-usuario/repuestos-pos/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// El stock solo se escribe vía UpdateStock, y únicamente desde el motor de
// inventario dentro de una transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar los cambios de stock dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(id string, stock int64) error
	List(limit, offset int) ([]*entity.Product, error)
	Search(term string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
