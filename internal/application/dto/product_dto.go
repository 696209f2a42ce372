package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto. El stock inicial se registra como
// movimiento de entrada, no como campo directo.
type CreateProductRequest struct {
	Code              string          `json:"code"`
	ImageURL          string          `json:"image_url"`
	Type              string          `json:"type"`
	Brand             string          `json:"brand"`
	Model             string          `json:"model"`
	YearRange         string          `json:"year_range"`
	MinStock          int64           `json:"min_stock"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	SupplierID        string          `json:"supplier_id"`
	WarehouseLocation string          `json:"warehouse_location"`
	Description       string          `json:"description"`
}

// UpdateProductRequest modificación de producto. No incluye stock: el stock
// solo cambia vía movimientos de inventario.
type UpdateProductRequest struct {
	ImageURL          string          `json:"image_url"`
	Type              string          `json:"type"`
	Brand             string          `json:"brand"`
	Model             string          `json:"model"`
	YearRange         string          `json:"year_range"`
	MinStock          int64           `json:"min_stock"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	SupplierID        string          `json:"supplier_id"`
	WarehouseLocation string          `json:"warehouse_location"`
	Description       string          `json:"description"`
}

// ProductResponse representación de un producto para la API.
type ProductResponse struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	ImageURL          string          `json:"image_url,omitempty"`
	Type              string          `json:"type"`
	Brand             string          `json:"brand"`
	Model             string          `json:"model"`
	YearRange         string          `json:"year_range,omitempty"`
	Stock             int64           `json:"stock"`
	MinStock          int64           `json:"min_stock"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	WarehouseLocation string          `json:"warehouse_location,omitempty"`
	Description       string          `json:"description,omitempty"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
