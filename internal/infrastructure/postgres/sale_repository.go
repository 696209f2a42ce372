package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/repuestos-pos/internal/domain"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
// Ventas y líneas son append-only: solo INSERT y SELECT.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta. Si otro proceso ya tomó el mismo
// sale_number, devuelve domain.ErrNumberingConflict para que el caso de uso
// reintente la transacción con un número fresco.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, sale_number, customer_name, subtotal, discount, total, payment_method, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.SaleNumber, sale.CustomerName, sale.Subtotal, sale.Discount,
		sale.Total, sale.PaymentMethod, nullable(sale.Notes), nullable(sale.CreatedBy), sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// El único índice único alcanzable es sale_number (los IDs son UUID).
			if cn := constraintName(err); cn == "" || cn == "sales_sale_number_key" {
				return domain.ErrNumberingConflict
			}
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, product_code, product_name, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, nullable(item.ProductID), item.ProductCode, item.ProductName,
		item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

const saleColumns = `id, sale_number, customer_name, subtotal, discount, total, payment_method, notes, created_by, created_at`

// GetByID obtiene una venta por ID, sin items.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	var notes, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.SaleNumber, &s.CustomerName, &s.Subtotal, &s.Discount,
		&s.Total, &s.PaymentMethod, &notes, &createdBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.Notes = deref(notes)
	s.CreatedBy = deref(createdBy)
	return &s, nil
}

// GetItemsBySaleID obtiene las líneas de una venta.
func (r *SaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, product_code, product_name, quantity, unit_price, total
		FROM sale_items WHERE sale_id = $1 ORDER BY product_code`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	return scanSaleItems(rows)
}

// ListWithItems devuelve las ventas del rango cerrado [from, to] con sus items
// cargados, más recientes primero. limit <= 0 devuelve todas las del rango.
func (r *SaleRepo) ListWithItems(from, to time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC`
	args := []any{from, to}
	if limit > 0 {
		query += ` LIMIT $3 OFFSET $4`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales, err := scanSales(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// ListRecent devuelve las últimas ventas con items, más recientes primero.
func (r *SaleRepo) ListRecent(limit int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY created_at DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sales: %w", err)
	}
	defer rows.Close()

	sales, err := scanSales(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// attachItems carga las líneas de todas las ventas en una sola query.
func (r *SaleRepo) attachItems(sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
		byID[s.ID] = s
	}
	query := `
		SELECT id, sale_id, product_id, product_code, product_name, quantity, unit_price, total
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY product_code`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	items, err := scanSaleItems(rows)
	if err != nil {
		return err
	}
	for _, it := range items {
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return nil
}

func scanSales(rows pgx.Rows) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var notes, createdBy *string
		if err := rows.Scan(
			&s.ID, &s.SaleNumber, &s.CustomerName, &s.Subtotal, &s.Discount,
			&s.Total, &s.PaymentMethod, &notes, &createdBy, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.Notes = deref(notes)
		s.CreatedBy = deref(createdBy)
		list = append(list, &s)
	}
	return list, rows.Err()
}

func scanSaleItems(rows pgx.Rows) ([]*entity.SaleItem, error) {
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		var productID *string
		if err := rows.Scan(
			&it.ID, &it.SaleID, &productID, &it.ProductCode, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.Total,
		); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.ProductID = deref(productID)
		list = append(list, &it)
	}
	return list, rows.Err()
}
