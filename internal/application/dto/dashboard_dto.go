package dto

import "github.com/shopspring/decimal"

// DashboardResponse resumen para la pantalla principal.
type DashboardResponse struct {
	TotalProducts   int               `json:"total_products"`
	TotalStock      int64             `json:"total_stock"`
	LowStockCount   int               `json:"low_stock_count"`
	InventoryValue  decimal.Decimal   `json:"inventory_value"`
	MonthlySales    decimal.Decimal   `json:"monthly_sales"`
	LowStockItems   []ProductResponse `json:"low_stock_items"`
	RecentSales     []SaleResponse    `json:"recent_sales"`
	TopProducts     []TopProductDTO   `json:"top_products"`
}
