package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReportResponse resumen de ventas de un rango de fechas.
type SalesReportResponse struct {
	From          string             `json:"from"`
	To            string             `json:"to"`
	Count         int                `json:"count"`
	TotalSales    decimal.Decimal    `json:"total_sales"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	AverageSale   decimal.Decimal    `json:"average_sale"`
	TopProducts   []TopProductDTO    `json:"top_products"`
	Sales         []SaleResponse     `json:"sales,omitempty"`
}

// TopProductDTO ranking de producto por cantidad vendida.
type TopProductDTO struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// InventoryReportRow fila del reporte de inventario.
type InventoryReportRow struct {
	Code         string          `json:"code"`
	Type         string          `json:"type"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Stock        int64           `json:"stock"`
	MinStock     int64           `json:"min_stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	SupplierName string          `json:"supplier_name"`
}

// InventoryReportResponse snapshot del inventario con su valor total.
type InventoryReportResponse struct {
	GeneratedAt    time.Time            `json:"generated_at"`
	InventoryValue decimal.Decimal      `json:"inventory_value"`
	LowStockCount  int                  `json:"low_stock_count"`
	Rows           []InventoryReportRow `json:"rows"`
}
