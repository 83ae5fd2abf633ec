// Package sqlitetest prepara bases SQLite migradas para pruebas de integración.
package sqlitetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pos/internal/domain/repository"
	"github.com/jhoicas/caja-pos/internal/infrastructure/sqlite"
	"github.com/jhoicas/caja-pos/pkg/config"
)

// Open abre una base vacía en un directorio temporal, sin migrar.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), config.DBConfig{
		Path:          filepath.Join(t.TempDir(), "pos.db"),
		BusyTimeoutMS: 5000,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// New abre una base temporal con el esquema al día.
func New(t *testing.T) *sql.DB {
	t.Helper()
	db := Open(t)
	require.NoError(t, sqlite.Migrate(context.Background(), db, zerolog.Nop()))
	return db
}

// Env base migrada con su runner de transacciones y repositorios sobre la conexión.
type Env struct {
	DB       *sql.DB
	TxRunner repository.TxRunner
	Repos    repository.Repos
}

// NewEnv arma el entorno completo que usan los casos de uso.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	db := New(t)
	return &Env{DB: db, TxRunner: sqlite.NewTxRunner(db), Repos: sqlite.NewRepos(db)}
}
