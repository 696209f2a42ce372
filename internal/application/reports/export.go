package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"
)

// Los tres exportes CSV de la pantalla de reportes: ventas del rango,
// inventario actual y productos más vendidos. Mismos encabezados que la
// versión original de la aplicación.

// ExportSalesCSV genera el CSV de ventas del rango [from, to].
func (uc *ReportUseCase) ExportSalesCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	rep, err := uc.SalesReport(ctx, from, to, true)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"N° Venta", "Fecha", "Cliente", "Subtotal", "Descuento", "Total", "Método Pago"})
	for _, s := range rep.Sales {
		_ = w.Write([]string{
			s.SaleNumber,
			s.CreatedAt.Format("02/01/2006"),
			s.CustomerName,
			s.Subtotal.StringFixed(2),
			s.Discount.StringFixed(2),
			s.Total.StringFixed(2),
			s.PaymentMethod,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportInventoryCSV genera el CSV del inventario actual.
func (uc *ReportUseCase) ExportInventoryCSV(ctx context.Context) ([]byte, error) {
	rep, err := uc.InventoryReport(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Código", "Tipo", "Marca", "Modelo", "Stock", "Stock Mín", "Precio", "Valor Total", "Proveedor"})
	for _, r := range rep.Rows {
		_ = w.Write([]string{
			r.Code,
			r.Type,
			r.Brand,
			r.Model,
			strconv.FormatInt(r.Stock, 10),
			strconv.FormatInt(r.MinStock, 10),
			r.UnitPrice.StringFixed(2),
			r.TotalValue.StringFixed(2),
			r.SupplierName,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportTopProductsCSV genera el CSV de productos más vendidos del rango.
func (uc *ReportUseCase) ExportTopProductsCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	rep, err := uc.SalesReport(ctx, from, to, false)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Código", "Producto", "Cantidad Vendida", "Ingresos"})
	for _, p := range rep.TopProducts {
		_ = w.Write([]string{
			p.Code,
			p.Name,
			strconv.FormatInt(p.QuantitySold, 10),
			p.Revenue.StringFixed(2),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
