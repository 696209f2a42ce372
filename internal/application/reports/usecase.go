// Package reports arma los reportes de ventas e inventario sobre snapshots
// y los exporta a CSV.
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/repuestos-pos/internal/application/dto"
	"github.com/tu-usuario/repuestos-pos/internal/application/sales"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	domaininv "github.com/tu-usuario/repuestos-pos/internal/domain/inventory"
	"github.com/tu-usuario/repuestos-pos/internal/domain/report"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

const topProductsLimit = 10

// ReportUseCase lecturas agregadas de ventas e inventario. Todas las
// operaciones son de solo lectura e idempotentes: el mismo snapshot produce
// el mismo reporte.
type ReportUseCase struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
) *ReportUseCase {
	return &ReportUseCase{saleRepo: saleRepo, productRepo: productRepo, supplierRepo: supplierRepo}
}

// SalesReport resumen de ventas del rango cerrado [from, to]: totales,
// promedio y ranking de productos por cantidad vendida.
func (uc *ReportUseCase) SalesReport(ctx context.Context, from, to time.Time, includeSales bool) (*dto.SalesReportResponse, error) {
	salesList, err := uc.saleRepo.ListWithItems(from, to, 0, 0)
	if err != nil {
		return nil, err
	}
	summary := report.Summarize(salesList)
	top := report.TopProducts(salesList, topProductsLimit)

	resp := &dto.SalesReportResponse{
		From:          from.Format("2006-01-02"),
		To:            to.Format("2006-01-02"),
		Count:         summary.Count,
		TotalSales:    summary.TotalSales,
		TotalDiscount: summary.TotalDiscount,
		AverageSale:   summary.AverageSale,
		TopProducts:   make([]dto.TopProductDTO, 0, len(top)),
	}
	for _, tp := range top {
		resp.TopProducts = append(resp.TopProducts, dto.TopProductDTO{
			Code:         tp.Code,
			Name:         tp.Name,
			QuantitySold: tp.QuantitySold,
			Revenue:      tp.Revenue,
		})
	}
	if includeSales {
		resp.Sales = make([]dto.SaleResponse, 0, len(salesList))
		for _, s := range salesList {
			resp.Sales = append(resp.Sales, sales.ToSaleResponse(s))
		}
	}
	return resp, nil
}

// InventoryReport snapshot del inventario con valor total, conteo de stock
// bajo y el nombre del proveedor de cada producto.
func (uc *ReportUseCase) InventoryReport(ctx context.Context) (*dto.InventoryReportResponse, error) {
	products, err := uc.productRepo.List(0, 0)
	if err != nil {
		return nil, err
	}
	supplierNames, err := uc.supplierNamesByID(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.InventoryReportResponse{
		GeneratedAt:    time.Now(),
		InventoryValue: report.InventoryValue(products),
		LowStockCount:  len(domaininv.LowStock(products, 0)),
		Rows:           make([]dto.InventoryReportRow, 0, len(products)),
	}
	for _, p := range products {
		resp.Rows = append(resp.Rows, inventoryRow(p, supplierNames))
	}
	return resp, nil
}

// LowStockReport productos en o por debajo del mínimo, los más urgentes
// primero. limit <= 0 devuelve todos.
func (uc *ReportUseCase) LowStockReport(ctx context.Context, limit int) ([]dto.InventoryReportRow, error) {
	products, err := uc.productRepo.List(0, 0)
	if err != nil {
		return nil, err
	}
	supplierNames, err := uc.supplierNamesByID(ctx)
	if err != nil {
		return nil, err
	}
	low := domaininv.LowStock(products, limit)
	rows := make([]dto.InventoryReportRow, 0, len(low))
	for _, p := range low {
		rows = append(rows, inventoryRow(p, supplierNames))
	}
	return rows, nil
}

func inventoryRow(p *entity.Product, supplierNames map[string]string) dto.InventoryReportRow {
	name := supplierNames[p.SupplierID]
	if name == "" {
		name = "N/A"
	}
	return dto.InventoryReportRow{
		Code:         p.Code,
		Type:         p.Type,
		Brand:        p.Brand,
		Model:        p.Model,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		UnitPrice:    p.UnitPrice,
		TotalValue:   p.UnitPrice.Mul(decimal.NewFromInt(p.Stock)),
		SupplierName: name,
	}
}

func (uc *ReportUseCase) supplierNamesByID(ctx context.Context) (map[string]string, error) {
	suppliers, err := uc.supplierRepo.List(0, 0)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		names[s.ID] = s.Name
	}
	return names, nil
}
