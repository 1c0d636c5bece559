package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLiteDialect implements the Dialect interface for SQLite databases.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) DSN(pathOrConnStr string) string { return pathOrConnStr }

func (d *SQLiteDialect) BindType() int { return sqlx.QUESTION }

func (d *SQLiteDialect) NormalizedDateSQL() string {
	return "substr(booking_time,7,4) || '-' || substr(booking_time,4,2) || '-' || substr(booking_time,1,2)"
}

func (d *SQLiteDialect) ListTablesSQL() string {
	return "SELECT name FROM sqlite_master WHERE type='table' ORDER BY name"
}

func (d *SQLiteDialect) CreateTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		booking_id TEXT, customer_id TEXT, booking_time TEXT,
		weekday TEXT, hour_of_day INT, vehicle_type TEXT,
		pickup_location TEXT, drop_location TEXT,
		booking_status TEXT, payment_method TEXT,
		ride_distance REAL, booking_value REAL,
		driver_rating REAL, customer_rating REAL,
		cancelled_by_driver_reason TEXT, cancelled_by_customer_reason TEXT
	)`, table)
}

func (d *SQLiteDialect) CreateIndexSQL(indexName, table, column string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", indexName, table, column)
}

func (d *SQLiteDialect) InsertRideSQL(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (
		booking_id, customer_id, booking_time, weekday, hour_of_day,
		vehicle_type, pickup_location, drop_location, booking_status,
		payment_method, ride_distance, booking_value, driver_rating,
		customer_rating, cancelled_by_driver_reason, cancelled_by_customer_reason
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)
}
