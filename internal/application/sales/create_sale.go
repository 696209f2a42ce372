// Package sales implementa la transacción de venta: consumo de stock, líneas
// con totales consistentes, numeración única y rastro auditable, todo como
// una sola unidad atómica.
package sales

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/repuestos-pos/internal/application/dto"
	"github.com/tu-usuario/repuestos-pos/internal/application/inventory"
	"github.com/tu-usuario/repuestos-pos/internal/domain"
	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
	"github.com/tu-usuario/repuestos-pos/internal/domain/repository"
)

// maxNumberAttempts intentos ante colisión del número de venta. Cada intento
// es una transacción completa con número fresco, así que un reintento nunca
// re-aplica stock.
const maxNumberAttempts = 3

// CreateSaleUseCase orquesta la creación de una venta.
type CreateSaleUseCase struct {
	txRunner TxRunner
	ledger   Ledger
	saleRepo repository.SaleRepository // lado de lectura (pool)
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(txRunner TxRunner, ledger Ledger, saleRepo repository.SaleRepository) *CreateSaleUseCase {
	return &CreateSaleUseCase{txRunner: txRunner, ledger: ledger, saleRepo: saleRepo}
}

// requestedLine línea ya depurada: producto único con cantidad acumulada.
type requestedLine struct {
	productID string
	quantity  int64
}

// validateAndMerge valida el request sin tocar la BD y fusiona líneas
// duplicadas del mismo producto sumando cantidades (la UI original hace esa
// fusión en el cliente; el servidor no confía en ello).
func validateAndMerge(in dto.CreateSaleRequest) ([]requestedLine, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, &domain.ValidationError{Field: "customer_name", Reason: "el nombre del cliente es obligatorio"}
	}
	if len(in.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "la venta exige al menos un producto"}
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, &domain.ValidationError{Field: "payment_method", Reason: "método de pago desconocido"}
	}
	if in.Discount.IsNegative() {
		return nil, &domain.ValidationError{Field: "discount", Reason: "el descuento no puede ser negativo"}
	}

	merged := make(map[string]int64)
	var order []string
	for _, item := range in.Items {
		if item.ProductID == "" {
			return nil, &domain.ValidationError{Field: "items", Reason: "product_id vacío"}
		}
		if item.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "items", Reason: "cantidad debe ser mayor que cero"}
		}
		if _, seen := merged[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		merged[item.ProductID] += item.Quantity
	}

	lines := make([]requestedLine, 0, len(order))
	for _, id := range order {
		lines = append(lines, requestedLine{productID: id, quantity: merged[id]})
	}
	// Orden estable de bloqueo: dos ventas concurrentes toman los locks de
	// producto en el mismo orden y no pueden interbloquearse.
	sort.Slice(lines, func(i, j int) bool { return lines[i].productID < lines[j].productID })
	return lines, nil
}

// CreateSale crea la venta: relee el stock dentro de la transacción, valora
// las líneas con el precio fresco del producto, obtiene un número único,
// registra una salida de inventario por línea referenciando la venta y
// persiste cabecera más items. Commit o nada.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, actorID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	lines, err := validateAndMerge(in)
	if err != nil {
		return nil, err
	}

	var sale *entity.Sale
	for attempt := 1; ; attempt++ {
		sale = nil
		err = uc.txRunner.RunSale(ctx, func(
			movRepo repository.InventoryMovementRepository,
			productRepo repository.ProductRepository,
			saleRepo repository.SaleRepository,
			numberRepo repository.SaleNumberRepository,
		) error {
			var txErr error
			sale, txErr = uc.createSaleTx(movRepo, productRepo, saleRepo, numberRepo, actorID, in, lines)
			return txErr
		})
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrNumberingConflict) && attempt < maxNumberAttempts {
			continue // transacción revertida; reintenta con número fresco
		}
		return nil, err
	}

	resp := ToSaleResponse(sale)
	return &resp, nil
}

// resolvedLine línea valorada con datos frescos del producto.
type resolvedLine struct {
	product   *entity.Product
	quantity  int64
	unitPrice decimal.Decimal
	total     decimal.Decimal
}

// createSaleTx cuerpo de un intento atómico. Se ejecuta con repositorios
// atados a la transacción del caller.
func (uc *CreateSaleUseCase) createSaleTx(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	numberRepo repository.SaleNumberRepository,
	actorID string,
	in dto.CreateSaleRequest,
	lines []requestedLine,
) (*entity.Sale, error) {
	// Relectura con bloqueo: esta es la ventana de carrera que se cierra.
	// El precio y el stock salen de la fila bloqueada, no del snapshot con el
	// que el cajero armó la venta.
	resolved := make([]resolvedLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		product, err := productRepo.GetForUpdate(line.productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.Stock < line.quantity {
			return nil, &domain.InsufficientStockError{
				ProductCode: product.Code,
				Requested:   line.quantity,
				Available:   product.Stock,
			}
		}
		lineTotal := product.UnitPrice.Mul(decimal.NewFromInt(line.quantity))
		resolved = append(resolved, resolvedLine{
			product:   product,
			quantity:  line.quantity,
			unitPrice: product.UnitPrice,
			total:     lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	if in.Discount.GreaterThan(subtotal) {
		return nil, &domain.ValidationError{Field: "discount", Reason: "el descuento no puede superar el subtotal"}
	}
	total := subtotal.Sub(in.Discount)

	number, err := numberRepo.Next()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		SaleNumber:    number,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Subtotal:      subtotal,
		Discount:      in.Discount,
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		CreatedBy:     actorID,
		CreatedAt:     now,
	}

	// Salida de inventario por línea, referenciando la venta aún no
	// commiteada. El ledger vuelve a verificar stock >= 0 sobre la fila
	// bloqueada; él es la autoridad de esa invariante.
	for _, line := range resolved {
		if _, _, err := uc.ledger.ApplyInTx(movRepo, productRepo, inventory.ApplyInput{
			ProductID:   line.product.ID,
			Type:        entity.MovementTypeExit,
			Quantity:    line.quantity,
			Reason:      "Venta " + number,
			ReferenceID: sale.ID,
			ActorID:     actorID,
		}); err != nil {
			return nil, err
		}
	}

	if err := saleRepo.Create(sale); err != nil {
		return nil, err
	}
	for _, line := range resolved {
		item := &entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			ProductID:   line.product.ID,
			ProductCode: line.product.Code,
			ProductName: line.product.DisplayName(),
			Quantity:    line.quantity,
			UnitPrice:   line.unitPrice,
			Total:       line.total,
		}
		if err := saleRepo.CreateItem(item); err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, item)
	}
	return sale, nil
}
