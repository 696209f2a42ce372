package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/repuestos-pos/internal/domain"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, image_url, type, brand, model, year_range, stock, min_stock, unit_price, supplier_id, warehouse_location, description, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. El stock nace en cero.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, code, image_url, type, brand, model, year_range, stock, min_stock, unit_price, supplier_id, warehouse_location, description, search_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Code, nullable(product.ImageURL), product.Type, product.Brand,
		product.Model, nullable(product.YearRange), product.Stock, product.MinStock, product.UnitPrice,
		nullable(product.SupplierID), nullable(product.WarehouseLocation), nullable(product.Description),
		searchText(product), product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene un producto por su código de negocio.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, code))
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
// Serializa los cambios de stock: dos transacciones sobre el mismo producto
// se ejecutan una después de la otra.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update modifica los atributos del producto. El stock no se toca aquí.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET image_url = $2, type = $3, brand = $4, model = $5, year_range = $6,
		    min_stock = $7, unit_price = $8, supplier_id = $9,
		    warehouse_location = $10, description = $11, search_text = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, nullable(product.ImageURL), product.Type, product.Brand, product.Model,
		nullable(product.YearRange), product.MinStock, product.UnitPrice, nullable(product.SupplierID),
		nullable(product.WarehouseLocation), nullable(product.Description), searchText(product), product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock escribe la proyección materializada del stock. Solo el motor de
// inventario la llama, siempre en la misma transacción que el movimiento.
func (r *ProductRepo) UpdateStock(id string, stock int64) error {
	query := `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos ordenados por marca y modelo. limit <= 0 devuelve todos.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY brand, model`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Search busca por código, marca o modelo. Compara plegado con plegado: el
// término se pliega en Go y la columna search_text ya se guardó plegada, así
// "Nissán" encuentra tanto "nissan" como "Nissán" en el catálogo.
func (r *ProductRepo) Search(term string, limit, offset int) ([]*entity.Product, error) {
	folded := "%" + foldAccents(term) + "%"
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE search_text LIKE $1
		ORDER BY brand, model`
	args := []any{folded}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Delete elimina el producto. Movimientos y líneas de venta conservan sus
// referencias débiles.
func (r *ProductRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var imageURL, yearRange, supplierID, warehouseLocation, description *string
	err := row.Scan(
		&p.ID, &p.Code, &imageURL, &p.Type, &p.Brand, &p.Model, &yearRange,
		&p.Stock, &p.MinStock, &p.UnitPrice, &supplierID, &warehouseLocation,
		&description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.ImageURL = deref(imageURL)
	p.YearRange = deref(yearRange)
	p.SupplierID = deref(supplierID)
	p.WarehouseLocation = deref(warehouseLocation)
	p.Description = deref(description)
	return &p, nil
}

func (r *ProductRepo) scanAll(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var imageURL, yearRange, supplierID, warehouseLocation, description *string
		if err := rows.Scan(
			&p.ID, &p.Code, &imageURL, &p.Type, &p.Brand, &p.Model, &yearRange,
			&p.Stock, &p.MinStock, &p.UnitPrice, &supplierID, &warehouseLocation,
			&description, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.ImageURL = deref(imageURL)
		p.YearRange = deref(yearRange)
		p.SupplierID = deref(supplierID)
		p.WarehouseLocation = deref(warehouseLocation)
		p.Description = deref(description)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// searchText arma la columna de búsqueda plegada a partir de los campos que
// cubre Search. Se recalcula en cada Create/Update.
func searchText(p *entity.Product) string {
	return foldAccents(p.Code + " " + p.Brand + " " + p.Model)
}

// nullable convierte "" a NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
