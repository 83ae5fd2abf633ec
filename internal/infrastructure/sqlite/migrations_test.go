package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pos/internal/infrastructure/sqlite"
	"github.com/jhoicas/caja-pos/internal/infrastructure/sqlite/sqlitetest"
)

// ──────────────────────────────────────────────────────────────────────────────
// Migraciones
// ──────────────────────────────────────────────────────────────────────────────

func TestMigrate_BaseVacia_QuedaEnUltimaVersion(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.New(t)

	v, err := sqlite.SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, sqlite.LatestVersion(), v)
}

func TestMigrate_EsIdempotente(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.New(t)

	require.NoError(t, sqlite.Migrate(ctx, db, zerolog.Nop()))
	require.NoError(t, sqlite.Migrate(ctx, db, zerolog.Nop()))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, sqlite.LatestVersion(), n, "cada versión se registra una sola vez")
}

func TestMigrate_ReduceRolesConservandoIDs(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.Open(t)

	// Esquema de una versión anterior: roles libres, sin CHECK.
	_, err := db.ExecContext(ctx, `
		CREATE TABLE users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			active        INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role) VALUES
			(3, 'ana', 'x', 'admin'),
			(7, 'beto', 'x', 'manager'),
			(9, 'caro', 'x', 'seller')`)
	require.NoError(t, err)

	require.NoError(t, sqlite.Migrate(ctx, db, zerolog.Nop()))

	roles := map[int64]string{}
	rows, err := db.QueryContext(ctx, `SELECT id, role FROM users ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var id int64
		var role string
		require.NoError(t, rows.Scan(&id, &role))
		roles[id] = role
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, map[int64]string{3: "admin", 7: "admin", 9: "cashier"}, roles)

	_, err = db.ExecContext(ctx, `INSERT INTO users (username, password_hash, role) VALUES ('dani', 'x', 'seller')`)
	assert.Error(t, err, "el nuevo CHECK solo admite admin y cashier")
}

func TestMigrate_ReduceRolesEnTablaSinColumnasDeEstado(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.Open(t)

	// Tabla heredada mínima: sin active ni marcas de tiempo.
	_, err := db.ExecContext(ctx, `
		CREATE TABLE users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL CHECK (role IN ('admin', 'manager', 'cashier', 'seller'))
		)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role) VALUES
			(4, 'eva', 'x', 'manager'),
			(5, 'fede', 'x', 'seller')`)
	require.NoError(t, err)

	require.NoError(t, sqlite.Migrate(ctx, db, zerolog.Nop()))

	var (
		role    string
		active  int
		created sql.NullString
	)
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT role, active, created_at FROM users WHERE id = 4`).Scan(&role, &active, &created))
	assert.Equal(t, "admin", role)
	assert.Equal(t, 1, active, "los usuarios heredados quedan activos")
	assert.True(t, created.Valid)

	require.NoError(t, db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = 5`).Scan(&role))
	assert.Equal(t, "cashier", role)
}

func TestMigrate_AgregaColumnasFaltantesEnProductos(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.Open(t)

	_, err := db.ExecContext(ctx, `
		CREATE TABLE products (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			sku         TEXT NOT NULL UNIQUE,
			barcode     TEXT UNIQUE,
			name        TEXT NOT NULL,
			unit        TEXT NOT NULL DEFAULT 'piece',
			price_cents INTEGER NOT NULL DEFAULT 0,
			quantity    NUMERIC NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO products (sku, name, price_cents, quantity) VALUES ('A-1', 'Lápiz', 150, 12)`)
	require.NoError(t, err)

	require.NoError(t, sqlite.Migrate(ctx, db, zerolog.Nop()))

	repos := sqlite.NewRepos(db)
	p, err := repos.Products.GetBySKU(ctx, "A-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.Active, "las filas existentes quedan activas")
	assert.EqualValues(t, 0, p.CostCents)
	assert.True(t, p.MinStock.IsZero())
	assert.Equal(t, "12", p.Quantity.String())
}

func TestMigrate_BitacorasSonAppendOnly(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.New(t)

	_, err := db.ExecContext(ctx, `INSERT INTO products (sku, name) VALUES ('B-1', 'Borrador')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO stock_movements (product_id, kind, quantity, old_quantity, new_quantity, created_at)
		VALUES (1, 'initial', 5, 0, 5, CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `UPDATE stock_movements SET quantity = 6`)
	assert.Error(t, err)
	_, err = db.ExecContext(ctx, `DELETE FROM stock_movements`)
	assert.Error(t, err)
}
