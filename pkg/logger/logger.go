// Package logger arma el zerolog.Logger del proceso a partir de la sección App de la configuración.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/caja-pos/pkg/config"
)

// New crea el logger raíz: consola legible en development, JSON en cualquier otro entorno.
// Cada línea lleva el nombre de la app. También reemplaza el logger global de zerolog.
func New(app config.AppConfig) zerolog.Logger {
	return newWithWriter(app, os.Stdout)
}

func newWithWriter(app config.AppConfig, out io.Writer) zerolog.Logger {
	w := out
	if app.Env == "development" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	ctx := zerolog.New(w).Level(Level(app.LogLevel)).With().Timestamp()
	if app.Name != "" {
		ctx = ctx.Str("app", app.Name)
	}
	zl := ctx.Logger()
	log.Logger = zl
	return zl
}

// Level interpreta LOG_LEVEL; vacío o desconocido equivale a info.
func Level(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component sublogger de un caso de uso o adaptador.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
