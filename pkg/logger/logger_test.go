package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"no-existe", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseLevel(tc.in), "nivel %q", tc.in)
	}
}

func TestNew_AplicaElNivelConfigurado(t *testing.T) {
	l := New(Config{Env: "production", Level: "warn", Service: "repuestos-pos"})
	assert.Equal(t, zerolog.WarnLevel, l.Zerolog().GetLevel())

	// Nivel desconocido cae a info en lugar de fallar.
	l = New(Config{Env: "production", Level: "verbose"})
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
}
