package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/parts-ledger/pkg/logger"
)

func TestNewWithWriter_JSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.Config{Env: "production", Service: "parts-ledger"}, &buf)

	log.Component("ledger").Info().Str("op", "issue").Msg("movimiento registrado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parts-ledger", entry["service"])
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "issue", entry["op"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewWithWriter_NivelPorDefecto(t *testing.T) {
	var prod, dev bytes.Buffer
	logger.NewWithWriter(logger.Config{Env: "production"}, &prod).Debug().Msg("oculto")
	logger.NewWithWriter(logger.Config{Env: "development"}, &dev).Debug().Msg("visible")

	assert.Empty(t, prod.String(), "fuera de development el nivel por defecto es info")
	assert.Contains(t, dev.String(), "visible")
}

func TestNewWithWriter_NivelExplicito(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.Config{Env: "production", Level: "WARN"}, &buf)
	log.Info().Msg("descartado")
	log.Warn().Msg("registrado")

	assert.NotContains(t, buf.String(), "descartado")
	assert.Contains(t, buf.String(), "registrado")
}
