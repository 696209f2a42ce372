package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDateRange_ElInicioArrancaAMedianoche(t *testing.T) {
	// Consulta a media tarde: la ventana implícita debe cubrir el primer día
	// completo, no solo desde las 15:45 de hace 30 días.
	now := time.Date(2026, time.August, 31, 15, 45, 12, 0, time.UTC)

	from, to := defaultDateRange(now)

	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, now, to)

	// Una venta de la mañana del primer día cae dentro del rango.
	morningSale := time.Date(2026, time.August, 1, 9, 30, 0, 0, time.UTC)
	assert.False(t, morningSale.Before(from))
	assert.False(t, morningSale.After(to))
}

func TestDefaultDateRange_ConservaLaZonaHoraria(t *testing.T) {
	loc := time.FixedZone("COT", -5*60*60)
	now := time.Date(2026, time.March, 15, 8, 0, 0, 0, loc)

	from, _ := defaultDateRange(now)

	assert.Equal(t, loc, from.Location())
	assert.Equal(t, 0, from.Hour())
}
