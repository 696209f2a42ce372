package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/repuestos-pos/internal/application/dto"
	"github.com/tu-usuario/repuestos-pos/internal/application/reports"
)

// ReportHandler maneja reportes y exportaciones CSV (protegido).
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas por rango de fechas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from           query  string  false  "Desde (YYYY-MM-DD), por defecto 30 días atrás"
// @Param        to             query  string  false  "Hasta (YYYY-MM-DD), por defecto hoy"
// @Param        include_sales  query  bool    false  "Incluir el detalle de cada venta"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha inválido, usar YYYY-MM-DD"})
	}
	out, err := h.uc.SalesReport(c.Context(), from, to, c.QueryBool("include_sales", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Reporte de inventario actual
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryReportResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.uc.InventoryReport(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock en o bajo el mínimo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite (0 = todos)"
// @Success      200  {array}  dto.InventoryReportRow
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStockReport(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportSales godoc
// @Summary      Exportar ventas del rango a CSV
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200   {file}  file
// @Router       /api/reports/sales/export [get]
func (h *ReportHandler) ExportSales(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha inválido, usar YYYY-MM-DD"})
	}
	data, err := h.uc.ExportSalesCSV(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "ventas.csv", data)
}

// ExportInventory godoc
// @Summary      Exportar inventario actual a CSV
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  file
// @Router       /api/reports/inventory/export [get]
func (h *ReportHandler) ExportInventory(c *fiber.Ctx) error {
	data, err := h.uc.ExportInventoryCSV(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "inventario.csv", data)
}

// ExportTopProducts godoc
// @Summary      Exportar productos más vendidos del rango a CSV
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200   {file}  file
// @Router       /api/reports/top-products/export [get]
func (h *ReportHandler) ExportTopProducts(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha inválido, usar YYYY-MM-DD"})
	}
	data, err := h.uc.ExportTopProductsCSV(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return sendCSV(c, "mas_vendidos.csv", data)
}

func sendCSV(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
