package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/repuestos-pos/internal/application/dto"
	"github.com/tu-usuario/repuestos-pos/internal/domain"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

// ProductUseCase CRUD y búsqueda del catálogo. El stock no se toca aquí:
// nace en cero y solo lo mueve el libro de inventario.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create da de alta un producto con stock cero.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, &domain.ValidationError{Field: "code", Reason: "el código es obligatorio"}
	}
	if in.Type == "" || in.Brand == "" || in.Model == "" {
		return nil, &domain.ValidationError{Field: "type/brand/model", Reason: "tipo, marca y modelo son obligatorios"}
	}
	if in.UnitPrice.IsNegative() {
		return nil, &domain.ValidationError{Field: "unit_price", Reason: "el precio no puede ser negativo"}
	}
	if in.MinStock < 0 {
		return nil, &domain.ValidationError{Field: "min_stock", Reason: "el stock mínimo no puede ser negativo"}
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		Code:              strings.TrimSpace(in.Code),
		ImageURL:          in.ImageURL,
		Type:              in.Type,
		Brand:             in.Brand,
		Model:             in.Model,
		YearRange:         in.YearRange,
		Stock:             0,
		MinStock:          in.MinStock,
		UnitPrice:         in.UnitPrice,
		SupplierID:        in.SupplierID,
		WarehouseLocation: in.WarehouseLocation,
		Description:       in.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update modifica atributos del producto. No incluye stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.UnitPrice.IsNegative() {
		return nil, &domain.ValidationError{Field: "unit_price", Reason: "el precio no puede ser negativo"}
	}
	if in.MinStock < 0 {
		return nil, &domain.ValidationError{Field: "min_stock", Reason: "el stock mínimo no puede ser negativo"}
	}
	product.ImageURL = in.ImageURL
	product.Type = in.Type
	product.Brand = in.Brand
	product.Model = in.Model
	product.YearRange = in.YearRange
	product.MinStock = in.MinStock
	product.UnitPrice = in.UnitPrice
	product.SupplierID = in.SupplierID
	product.WarehouseLocation = in.WarehouseLocation
	product.Description = in.Description
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista el catálogo; con term busca por código, marca o modelo sin
// distinguir acentos ni mayúsculas.
func (uc *ProductUseCase) List(ctx context.Context, term string, limit, offset int) ([]dto.ProductResponse, error) {
	var (
		products []*entity.Product
		err      error
	)
	if strings.TrimSpace(term) != "" {
		products, err = uc.productRepo.Search(term, limit, offset)
	} else {
		products, err = uc.productRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Delete elimina el producto. Los movimientos y líneas de venta conservan su
// referencia débil y sobreviven.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID,
		Code:              p.Code,
		ImageURL:          p.ImageURL,
		Type:              p.Type,
		Brand:             p.Brand,
		Model:             p.Model,
		YearRange:         p.YearRange,
		Stock:             p.Stock,
		MinStock:          p.MinStock,
		UnitPrice:         p.UnitPrice,
		SupplierID:        p.SupplierID,
		WarehouseLocation: p.WarehouseLocation,
		Description:       p.Description,
		LowStock:          p.Stock <= p.MinStock,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
