package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// migration paso versionado e idempotente del esquema. Cada paso corre en su propia
// transacción junto con el registro de su versión en schema_migrations.
type migration struct {
	version int
	name    string
	up      func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{1, "base_schema", migrateBaseSchema},
	{2, "products_min_stock_and_active", migrateProductColumns},
	{3, "sale_items_snapshot_columns", migrateSaleItemColumns},
	{4, "narrow_user_roles", migrateNarrowUserRoles},
	{5, "indexes_and_triggers", migrateIndexesAndTriggers},
}

// LatestVersion versión del esquema tras aplicar todas las migraciones.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate aplica en orden las migraciones pendientes. Es segura de ejecutar en cada arranque.
// Ante cualquier fallo se detiene y devuelve el error: el caller no debe seguir arrancando.
func Migrate(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)`); err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := runMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migración %d %s: %w", m.version, m.name, err)
		}
		log.Info().Int("version", m.version).Str("name", m.name).Msg("migración aplicada")
	}
	return nil
}

// SchemaVersion devuelve la mayor versión registrada (0 si no hay ninguna).
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("leer versión de esquema: %w", err)
	}
	return int(v.Int64), nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("leer schema_migrations: %w", err)
	}
	defer rows.Close()
	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan versión: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func runMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := m.up(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		m.version, m.name, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("registrar versión: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w\n%s", err, stmt)
		}
	}
	return nil
}

// hasColumn consulta pragma_table_info para saber si la columna ya existe.
func hasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspeccionar %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}

// addColumnIfMissing tolera que el cambio ya esté aplicado.
func addColumnIfMissing(ctx context.Context, tx *sql.Tx, table, column, definition string) (bool, error) {
	ok, err := hasColumn(ctx, tx, table, column)
	if err != nil || ok {
		return false, err
	}
	stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return false, fmt.Errorf("agregar %s.%s: %w", table, column, err)
	}
	return true, nil
}

func migrateBaseSchema(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS products (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			sku         TEXT NOT NULL UNIQUE,
			barcode     TEXT UNIQUE,
			name        TEXT NOT NULL,
			unit        TEXT NOT NULL DEFAULT 'piece' CHECK (unit IN ('piece', 'pack', 'liter', 'meter')),
			cost_cents  INTEGER NOT NULL DEFAULT 0,
			price_cents INTEGER NOT NULL DEFAULT 0 CHECK (price_cents >= 0),
			quantity    NUMERIC NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			min_stock   NUMERIC NOT NULL DEFAULT 0,
			active      INTEGER NOT NULL DEFAULT 1,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			phone      TEXT UNIQUE,
			email      TEXT,
			address    TEXT,
			debt_cents INTEGER NOT NULL DEFAULT 0 CHECK (debt_cents >= 0),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_id TEXT NOT NULL DEFAULT '',
			customer_id    INTEGER REFERENCES customers(id),
			sale_date      DATETIME NOT NULL,
			subtotal_cents INTEGER NOT NULL,
			discount_cents INTEGER NOT NULL DEFAULT 0,
			tax_cents      INTEGER NOT NULL DEFAULT 0,
			total_cents    INTEGER NOT NULL,
			payment_method TEXT NOT NULL CHECK (payment_method IN ('cash', 'card', 'mixed', 'debt')),
			note           TEXT NOT NULL DEFAULT '',
			CHECK (discount_cents >= 0 AND discount_cents <= subtotal_cents),
			CHECK (total_cents = subtotal_cents - discount_cents + tax_cents)
		)`,
		`CREATE TABLE IF NOT EXISTS sale_items (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			sale_id          INTEGER NOT NULL REFERENCES sales(id),
			product_id       INTEGER NOT NULL REFERENCES products(id),
			product_name     TEXT NOT NULL,
			barcode          TEXT,
			unit_price_cents INTEGER NOT NULL,
			cost_cents       INTEGER NOT NULL DEFAULT 0,
			quantity         NUMERIC NOT NULL CHECK (quantity > 0),
			line_total_cents INTEGER NOT NULL,
			profit_cents     INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			sale_id      INTEGER NOT NULL REFERENCES sales(id),
			method       TEXT NOT NULL CHECK (method IN ('cash', 'card', 'mixed')),
			amount_cents INTEGER NOT NULL CHECK (amount_cents >= 0),
			created_at   DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sale_returns (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_id     TEXT NOT NULL DEFAULT '',
			sale_id            INTEGER NOT NULL REFERENCES sales(id),
			total_cents        INTEGER NOT NULL CHECK (total_cents >= 0),
			debt_reduced_cents INTEGER NOT NULL DEFAULT 0 CHECK (debt_reduced_cents >= 0),
			refund_cents       INTEGER NOT NULL DEFAULT 0 CHECK (refund_cents >= 0),
			refund_method      TEXT CHECK (refund_method IS NULL OR refund_method IN ('cash', 'card')),
			note               TEXT NOT NULL DEFAULT '',
			created_at         DATETIME NOT NULL,
			CHECK (debt_reduced_cents + refund_cents <= total_cents)
		)`,
		`CREATE TABLE IF NOT EXISTS sale_return_items (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			return_id        INTEGER NOT NULL REFERENCES sale_returns(id),
			sale_item_id     INTEGER NOT NULL REFERENCES sale_items(id),
			product_id       INTEGER NOT NULL REFERENCES products(id),
			quantity         NUMERIC NOT NULL CHECK (quantity > 0),
			unit_price_cents INTEGER NOT NULL,
			line_total_cents INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stock_movements (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_id TEXT NOT NULL DEFAULT '',
			product_id     INTEGER NOT NULL REFERENCES products(id),
			kind           TEXT NOT NULL CHECK (kind IN ('initial', 'receive', 'sale', 'return', 'adjustment')),
			quantity       NUMERIC NOT NULL,
			old_quantity   NUMERIC NOT NULL,
			new_quantity   NUMERIC NOT NULL,
			cost_cents     INTEGER NOT NULL DEFAULT 0,
			price_cents    INTEGER NOT NULL DEFAULT 0,
			sale_id        INTEGER REFERENCES sales(id),
			return_id      INTEGER REFERENCES sale_returns(id),
			note           TEXT NOT NULL DEFAULT '',
			created_at     DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS debts (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL REFERENCES customers(id),
			sale_id     INTEGER REFERENCES sales(id),
			total_cents INTEGER NOT NULL CHECK (total_cents >= 0),
			paid_cents  INTEGER NOT NULL DEFAULT 0 CHECK (paid_cents >= 0),
			is_paid     INTEGER NOT NULL DEFAULT 0,
			due_date    DATETIME,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CHECK (paid_cents <= total_cents)
		)`,
		`CREATE TABLE IF NOT EXISTS debt_transactions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id  INTEGER NOT NULL REFERENCES customers(id),
			sale_id      INTEGER REFERENCES sales(id),
			return_id    INTEGER REFERENCES sale_returns(id),
			kind         TEXT NOT NULL CHECK (kind IN ('debt_added', 'payment')),
			amount_cents INTEGER NOT NULL CHECK (amount_cents > 0),
			note         TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS print_jobs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			kind         TEXT NOT NULL CHECK (kind IN ('barcode', 'receipt')),
			product_id   INTEGER REFERENCES products(id),
			sale_id      INTEGER REFERENCES sales(id),
			return_id    INTEGER REFERENCES sale_returns(id),
			copies       INTEGER NOT NULL DEFAULT 1 CHECK (copies >= 1),
			printer_name TEXT NOT NULL DEFAULT '',
			status       TEXT NOT NULL DEFAULT 'queued' CHECK (status IN ('queued', 'done', 'failed')),
			payload      TEXT NOT NULL DEFAULT '',
			error        TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			finished_at  DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL CHECK (role IN ('admin', 'cashier')),
			active        INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	)
}

// migrateProductColumns completa tablas products creadas por versiones anteriores.
func migrateProductColumns(ctx context.Context, tx *sql.Tx) error {
	cols := []struct{ name, def string }{
		{"cost_cents", "INTEGER NOT NULL DEFAULT 0"},
		{"min_stock", "NUMERIC NOT NULL DEFAULT 0"},
		{"active", "INTEGER NOT NULL DEFAULT 1"},
	}
	for _, c := range cols {
		if _, err := addColumnIfMissing(ctx, tx, "products", c.name, c.def); err != nil {
			return err
		}
	}
	return nil
}

// migrateSaleItemColumns agrega las columnas de foto (costo, utilidad, barcode) y
// recalcula la utilidad de las filas antiguas.
func migrateSaleItemColumns(ctx context.Context, tx *sql.Tx) error {
	if _, err := addColumnIfMissing(ctx, tx, "sale_items", "cost_cents", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		return err
	}
	if _, err := addColumnIfMissing(ctx, tx, "sale_items", "barcode", "TEXT"); err != nil {
		return err
	}
	added, err := addColumnIfMissing(ctx, tx, "sale_items", "profit_cents", "INTEGER NOT NULL DEFAULT 0")
	if err != nil {
		return err
	}
	if added {
		_, err := tx.ExecContext(ctx, `
			UPDATE sale_items
			SET profit_cents = line_total_cents - CAST(ROUND(cost_cents * quantity) AS INTEGER)`)
		if err != nil {
			return fmt.Errorf("recalcular utilidad: %w", err)
		}
	}
	return nil
}

// migrateNarrowUserRoles reconstruye users con el CHECK de roles reducido
// (admin, cashier). Los roles heredados se mapean y los ids se conservan. Las columnas
// que la tabla heredada no tenga se completan con su valor por defecto.
func migrateNarrowUserRoles(ctx context.Context, tx *sql.Tx) error {
	fallback := []struct{ column, expr, def string }{
		{"role", "CASE role WHEN 'admin' THEN 'admin' WHEN 'manager' THEN 'admin' ELSE 'cashier' END", "'cashier'"},
		{"active", "active", "1"},
		{"created_at", "created_at", "CURRENT_TIMESTAMP"},
		{"updated_at", "updated_at", "CURRENT_TIMESTAMP"},
	}
	cols := make([]string, 0, len(fallback))
	for _, f := range fallback {
		ok, err := hasColumn(ctx, tx, "users", f.column)
		if err != nil {
			return err
		}
		if ok {
			cols = append(cols, f.expr)
		} else {
			cols = append(cols, f.def)
		}
	}
	return execAll(ctx, tx,
		`CREATE TABLE users_new (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL CHECK (role IN ('admin', 'cashier')),
			active        INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`INSERT INTO users_new (id, username, password_hash, role, active, created_at, updated_at)
		SELECT id, username, password_hash, `+strings.Join(cols, ", ")+`
		FROM users`,
		`DROP TABLE users`,
		`ALTER TABLE users_new RENAME TO users`,
	)
}

func migrateIndexesAndTriggers(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode)`,
		`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date)`,
		`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements(product_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_debts_customer_paid ON debts(customer_id, is_paid)`,
		`CREATE INDEX IF NOT EXISTS idx_debt_transactions_customer ON debt_transactions(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sale_returns_sale ON sale_returns(sale_id)`,
		`CREATE INDEX IF NOT EXISTS idx_print_jobs_status ON print_jobs(status)`,
	}
	for _, table := range []string{"products", "customers", "debts", "users", "print_jobs"} {
		stmts = append(stmts, fmt.Sprintf(`
			CREATE TRIGGER IF NOT EXISTS trg_%[1]s_updated_at
			AFTER UPDATE ON %[1]s
			FOR EACH ROW WHEN NEW.updated_at = OLD.updated_at
			BEGIN
				UPDATE %[1]s SET updated_at = strftime('%%Y-%%m-%%d %%H:%%M:%%f', 'now') WHERE id = NEW.id;
			END`, table))
	}
	// Bitácoras append-only: el esquema rechaza UPDATE y DELETE.
	for _, table := range []string{"stock_movements", "debt_transactions"} {
		stmts = append(stmts,
			fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS trg_%[1]s_no_update BEFORE UPDATE ON %[1]s
				BEGIN SELECT RAISE(ABORT, '%[1]s es append-only'); END`, table),
			fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS trg_%[1]s_no_delete BEFORE DELETE ON %[1]s
				BEGIN SELECT RAISE(ABORT, '%[1]s es append-only'); END`, table),
		)
	}
	return execAll(ctx, tx, stmts...)
}
