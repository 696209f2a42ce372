package repository

// SaleNumberRepository genera el siguiente número de venta.
// Next debe ser seguro bajo llamadas concurrentes: dos llamadas nunca
// devuelven el mismo valor. Los números son únicos y crecen con el tiempo de
// creación, pero no se garantiza que sean contiguos (una venta revertida
// quema su número).
type SaleNumberRepository interface {
	Next() (string, error)
}
