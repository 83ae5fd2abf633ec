package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pos/pkg/config"
	"github.com/jhoicas/caja-pos/pkg/logger"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.Level("debug"))
	assert.Equal(t, zerolog.WarnLevel, logger.Level(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, logger.Level(""))
	assert.Equal(t, zerolog.InfoLevel, logger.Level("verboso"))
}

func TestNew_JSONConAppYComponente(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter(config.AppConfig{Env: "production", Name: "caja-pos", LogLevel: "info"}, &buf)
	comp := logger.Component(base, "sales")
	comp.Info().Int64("sale_id", 7).Msg("venta registrada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "caja-pos", line["app"])
	assert.Equal(t, "sales", line["component"])
	assert.EqualValues(t, 7, line["sale_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_RespetaElNivel(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter(config.AppConfig{Env: "production", LogLevel: "error"}, &buf)
	base.Info().Msg("descartado")
	assert.Zero(t, buf.Len())
}
