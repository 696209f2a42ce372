package usecase

import (
	"context"
	"time"

	"github.com/tu-usuario/repuestos-pos/internal/application/dto"
	"github.com/tu-usuario/repuestos-pos/internal/application/sales"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	domaininv "github.com/tu-usuario/repuestos-pos/internal/domain/inventory"
	"github.com/tu-usuario/repuestos-pos/internal/domain/report"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

const (
	dashboardLowStockItems = 5
	dashboardRecentSales   = 5
	dashboardTopProducts   = 5
)

// DashboardUseCase arma el resumen de la pantalla principal: totales del
// catálogo, alertas de stock bajo, ventas del mes y últimas ventas.
//
// Lecturas sobre snapshots fuera de transacción: la obsolescencia es
// aceptable porque nada se muta.
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, saleRepo: saleRepo}
}

// GetSummary carga productos, ventas del mes y ventas recientes en paralelo
// y deriva los agregados con las funciones puras de dominio.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type productsResult struct {
		products []*entity.Product
		err      error
	}
	type salesResult struct {
		sales []*entity.Sale
		err   error
	}

	productsCh := make(chan productsResult, 1)
	monthCh := make(chan salesResult, 1)
	recentCh := make(chan salesResult, 1)

	go func() {
		products, err := uc.productRepo.List(0, 0)
		productsCh <- productsResult{products, err}
	}()
	go func() {
		monthly, err := uc.saleRepo.ListWithItems(monthStart, now, 0, 0)
		monthCh <- salesResult{monthly, err}
	}()
	go func() {
		recent, err := uc.saleRepo.ListRecent(dashboardRecentSales)
		recentCh <- salesResult{recent, err}
	}()

	productsRes := <-productsCh
	monthRes := <-monthCh
	recentRes := <-recentCh
	if productsRes.err != nil {
		return nil, productsRes.err
	}
	if monthRes.err != nil {
		return nil, monthRes.err
	}
	if recentRes.err != nil {
		return nil, recentRes.err
	}

	var totalStock int64
	for _, p := range productsRes.products {
		totalStock += p.Stock
	}
	lowAll := domaininv.LowStock(productsRes.products, 0)
	lowTop := lowAll
	if len(lowTop) > dashboardLowStockItems {
		lowTop = lowTop[:dashboardLowStockItems]
	}

	summary := report.Summarize(monthRes.sales)

	resp := &dto.DashboardResponse{
		TotalProducts:  len(productsRes.products),
		TotalStock:     totalStock,
		LowStockCount:  len(lowAll),
		InventoryValue: report.InventoryValue(productsRes.products),
		MonthlySales:   summary.TotalSales,
		LowStockItems:  make([]dto.ProductResponse, 0, len(lowTop)),
		RecentSales:    make([]dto.SaleResponse, 0, len(recentRes.sales)),
		TopProducts:    make([]dto.TopProductDTO, 0, dashboardTopProducts),
	}
	for _, p := range lowTop {
		resp.LowStockItems = append(resp.LowStockItems, *toProductResponse(p))
	}
	for _, s := range recentRes.sales {
		resp.RecentSales = append(resp.RecentSales, sales.ToSaleResponse(s))
	}
	for _, tp := range report.TopProducts(monthRes.sales, dashboardTopProducts) {
		resp.TopProducts = append(resp.TopProducts, dto.TopProductDTO{
			Code:         tp.Code,
			Name:         tp.Name,
			QuantitySold: tp.QuantitySold,
			Revenue:      tp.Revenue,
		})
	}
	return resp, nil
}
