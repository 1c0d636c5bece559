package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ridelens/ridelens/internal/model"

	_ "modernc.org/sqlite"
)

// baseStore implements every Store operation in dialect-neutral form.
// All SQL is written with ? placeholders and rebound through the dialect,
// so SQLite and PostgreSQL share one implementation.
type baseStore struct {
	path    string
	conn    *sqlx.DB
	dialect Dialect
	table   string
}

// SQLiteStore manages all SQLite operations for a rides database.
// It implements the Store interface.
type SQLiteStore struct {
	baseStore
}

// OpenSQLite opens an existing SQLite rides database and locates the ride
// table. If no candidate table (or the configured one) is present, the
// returned error wraps ErrNoTable and lists the tables actually found.
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	cfg := applyOptions(opts)
	d := &SQLiteDialect{}

	conn, err := sqlx.Open(d.DriverName(), d.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify the connection works
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db := &SQLiteStore{baseStore{path: path, conn: conn, dialect: d}}
	if err := db.resolveTable(cfg.table); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// CreateSQLite creates a new SQLite rides database with the bootstrap schema.
func CreateSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	cfg := applyOptions(opts)
	d := &SQLiteDialect{}

	conn, err := sqlx.Open(d.DriverName(), d.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	db := &SQLiteStore{baseStore{path: path, conn: conn, dialect: d}}
	db.table = cfg.table
	if db.table == "" {
		db.table = model.TableCandidates[0]
	}

	if err := db.createSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *baseStore) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the file path (or connection string) of the database.
func (db *baseStore) Path() string {
	return db.path
}

// Table returns the detected or configured ride table name.
func (db *baseStore) Table() string {
	return db.table
}

// DateExpr returns the dialect's normalized-date expression.
func (db *baseStore) DateExpr() string {
	return db.dialect.NormalizedDateSQL()
}

// Rebind converts ?-style placeholders to the dialect's bind style.
func (db *baseStore) Rebind(sqlStr string) string {
	return sqlx.Rebind(db.dialect.BindType(), sqlStr)
}

// resolveTable fixes the ride table: a configured name must be present in
// the store, otherwise the candidates are tried in order.
func (db *baseStore) resolveTable(configured string) error {
	tables, err := db.ListTables()
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}

	if configured != "" {
		for _, t := range tables {
			if t == configured {
				db.table = configured
				return nil
			}
		}
		return fmt.Errorf("configured table %q: %w", configured, errNoTable(tables))
	}

	table, err := detectTable(tables)
	if err != nil {
		return err
	}
	db.table = table
	return nil
}

// ListTables returns all table names in the store.
func (db *baseStore) ListTables() ([]string, error) {
	rows, err := db.conn.Query(db.dialect.ListTablesSQL())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DistinctValues returns the distinct non-null values of a column, ordered
// ascending. The field name is validated against the known columns before
// interpolation to prevent injection.
func (db *baseStore) DistinctValues(field string) ([]string, error) {
	if !model.IsValidField(field) {
		return nil, fmt.Errorf("invalid field name: %s", field)
	}

	q := fmt.Sprintf(
		"SELECT DISTINCT %s AS v FROM %s WHERE %s IS NOT NULL ORDER BY 1",
		field, db.table, field)

	rows, err := db.conn.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v != "" {
			values = append(values, v)
		}
	}
	return values, rows.Err()
}

// DateBounds returns the minimum and maximum normalized booking dates.
// Both are empty strings when the table has no rows.
func (db *baseStore) DateBounds() (minDate, maxDate string, err error) {
	expr := db.dialect.NormalizedDateSQL()
	q := fmt.Sprintf("SELECT MIN(%s), MAX(%s) FROM %s", expr, expr, db.table)

	var lo, hi sql.NullString
	if err = db.conn.QueryRow(q).Scan(&lo, &hi); err != nil {
		return "", "", fmt.Errorf("querying date bounds: %w", err)
	}
	return lo.String, hi.String, nil
}

// Query executes a read-only statement with positionally bound parameters
// and returns the full result table.
func (db *baseStore) Query(sqlStr string, args []interface{}) (*Result, error) {
	rows, err := db.conn.Queryx(db.Rebind(sqlStr), args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()
	return scanResult(rows)
}

// CountRides returns the number of rides matching an optional WHERE-shaped
// fragment (starting with " WHERE ") and its parameters.
func (db *baseStore) CountRides(whereClause string, args []interface{}) (int64, error) {
	q := "SELECT COUNT(*) FROM " + db.table + whereClause

	var count int64
	err := db.conn.QueryRow(db.Rebind(q), args...).Scan(&count)
	return count, err
}

// InsertRides loads a batch of rides inside a single transaction.
// The onProgress callback is called every 10,000 rides with the current
// count; pass nil if you don't need progress updates.
func (db *baseStore) InsertRides(rides []*model.Ride, onProgress func(int)) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(db.Rebind(db.dialect.InsertRideSQL(db.table)))
	if err != nil {
		return 0, fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range rides {
		_, err := stmt.Exec(
			r.BookingID, r.CustomerID, r.BookingTime, r.Weekday, r.HourOfDay,
			r.VehicleType, r.PickupLocation, r.DropLocation, r.BookingStatus,
			r.PaymentMethod, r.RideDistance, r.BookingValue, r.DriverRating,
			r.CustomerRating, r.CancelledByDriverReason, r.CancelledByCustomerReason,
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting ride %d: %w", inserted+1, err)
		}
		inserted++
		if onProgress != nil && inserted%10000 == 0 {
			onProgress(inserted)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted, nil
}

// createSchema builds the rides table and its indexes.
func (db *baseStore) createSchema() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(db.dialect.CreateTableSQL(db.table)); err != nil {
		return fmt.Errorf("creating %s table: %w", db.table, err)
	}

	for _, field := range DefaultIndexFields {
		_, err := tx.Exec(db.dialect.CreateIndexSQL(field+"_idx", db.table, field))
		if err != nil {
			return fmt.Errorf("creating index on %s: %w", field, err)
		}
	}

	return tx.Commit()
}
