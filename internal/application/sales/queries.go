package sales

import (
	"context"
	"time"

	"github.com/tu-usuario/repuestos-pos/internal/application/dto"
	"github.com/tu-usuario/repuestos-pos/internal/domain"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
)

// GetSale obtiene una venta por ID con sus líneas.
func (uc *CreateSaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(id)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// ListSales lista las ventas del rango cerrado [from, to] con sus líneas.
// Lectura fuera de transacción.
func (uc *CreateSaleUseCase) ListSales(ctx context.Context, from, to time.Time, limit, offset int) ([]dto.SaleResponse, error) {
	salesList, err := uc.saleRepo.ListWithItems(from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(salesList))
	for _, s := range salesList {
		out = append(out, ToSaleResponse(s))
	}
	return out, nil
}

// GetSaleEntity obtiene la venta con sus líneas como entidad de dominio
// (la usa el generador de comprobantes).
func (uc *CreateSaleUseCase) GetSaleEntity(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(id)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return sale, nil
}

// ToSaleResponse convierte la entidad a su representación de API.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		CustomerName:  s.CustomerName,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return resp
}
