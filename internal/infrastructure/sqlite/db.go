// Package sqlite implementa el almacenamiento embebido del punto de venta sobre SQLite
// (modernc.org/sqlite, sin cgo).
//
// Configuración de la conexión:
//   - journal_mode=WAL: lecturas concurrentes durante escrituras
//   - busy_timeout: espera acotada por el bloqueo en vez de fallar de inmediato
//   - foreign_keys=ON: integridad referencial
//   - _txlock=immediate: cada transacción toma el bloqueo de escritura al iniciar
//   - una sola conexión abierta: un único escritor lógico por proceso
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // driver "sqlite"

	"github.com/jhoicas/caja-pos/pkg/config"
)

// Open abre (o crea) el archivo de base de datos y verifica la conexión.
// El handle devuelto vive todo el proceso: se crea al arrancar y se cierra al apagar.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de datos: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("abrir base de datos: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return db, nil
}

func dsn(cfg config.DBConfig) string {
	busy := cfg.BusyTimeoutMS
	if busy <= 0 {
		busy = 5000
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy))
	q.Set("_txlock", "immediate")
	return "file:" + cfg.Path + "?" + q.Encode()
}
