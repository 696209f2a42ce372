package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/repuestos-pos/internal/domain/entity"
)

func TestFoldAccents_QuitaDiacriticosYBajaACaja(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Nissán", "nissan"},
		{"NISSAN", "nissan"},
		{"Bujía", "bujia"},
		{"Citroën", "citroen"},
		{"Año 2020", "ano 2020"},
		{"FLT-001", "flt-001"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, foldAccents(tc.in), "plegando %q", tc.in)
	}
}

// Ambos lados de la búsqueda se pliegan: el término en Search y la columna
// search_text al escribir. Un valor acentuado en el catálogo debe encontrarse
// con término acentuado o sin acentuar, y viceversa.
func TestSearchText_PlegadoSimetricoConElTermino(t *testing.T) {
	stored := searchText(&entity.Product{
		Code:  "BUJ-004",
		Brand: "Nissán",
		Model: "Frontier",
	})

	for _, term := range []string{"Nissán", "nissan", "NISSAN", "Bujía", "buj-004"} {
		assert.True(t, strings.Contains(stored, foldAccents(term)),
			"el término %q debe encontrar la marca almacenada Nissán", term)
	}

	// Y el caso inverso: catálogo sin acentos, término con acentos.
	storedPlain := searchText(&entity.Product{Code: "FLT-001", Brand: "nissan", Model: "np300"})
	assert.True(t, strings.Contains(storedPlain, foldAccents("Nissán")))
}
