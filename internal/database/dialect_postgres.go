package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresDialect implements the Dialect interface for PostgreSQL databases.
// None of the ride columns are PostgreSQL reserved words, so no quoting is
// needed. substr() and || concatenation behave the same as on SQLite, so the
// normalized-date expression is shared verbatim.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "pgx" }

func (d *PostgresDialect) DSN(pathOrConnStr string) string { return pathOrConnStr }

func (d *PostgresDialect) BindType() int { return sqlx.DOLLAR }

func (d *PostgresDialect) NormalizedDateSQL() string {
	return "substr(booking_time,7,4) || '-' || substr(booking_time,4,2) || '-' || substr(booking_time,1,2)"
}

func (d *PostgresDialect) ListTablesSQL() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema='public' ORDER BY table_name"
}

func (d *PostgresDialect) CreateTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		booking_id TEXT, customer_id TEXT, booking_time TEXT,
		weekday TEXT, hour_of_day INT, vehicle_type TEXT,
		pickup_location TEXT, drop_location TEXT,
		booking_status TEXT, payment_method TEXT,
		ride_distance DOUBLE PRECISION, booking_value DOUBLE PRECISION,
		driver_rating DOUBLE PRECISION, customer_rating DOUBLE PRECISION,
		cancelled_by_driver_reason TEXT, cancelled_by_customer_reason TEXT
	)`, table)
}

func (d *PostgresDialect) CreateIndexSQL(indexName, table, column string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", indexName, table, column)
}

func (d *PostgresDialect) InsertRideSQL(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (
		booking_id, customer_id, booking_time, weekday, hour_of_day,
		vehicle_type, pickup_location, drop_location, booking_status,
		payment_method, ride_distance, booking_value, driver_rating,
		customer_rating, cancelled_by_driver_reason, cancelled_by_customer_reason
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)
}
