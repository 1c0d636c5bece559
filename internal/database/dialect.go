package database

// Default fields to index when bootstrapping a new rides table.
var DefaultIndexFields = []string{
	"booking_id", "customer_id", "vehicle_type", "booking_status",
	"payment_method", "pickup_location",
}

// Dialect abstracts all database-specific SQL generation.
// Each backend (SQLite, PostgreSQL) implements this interface.
type Dialect interface {
	// DriverName returns the database/sql driver name (e.g. "sqlite", "pgx").
	DriverName() string

	// DSN returns the data source name for opening a connection.
	// For SQLite this is the file path; for PostgreSQL a connection string.
	DSN(pathOrConnStr string) string

	// BindType returns the sqlx bind type used to rebind ?-style
	// placeholders (sqlx.QUESTION for SQLite, sqlx.DOLLAR for PostgreSQL).
	BindType() int

	// NormalizedDateSQL returns the expression converting booking_time
	// ('DD-MM-YYYY HH:MM') to a sortable 'YYYY-MM-DD' string.
	NormalizedDateSQL() string

	// ListTablesSQL returns a query yielding one table name per row.
	ListTablesSQL() string

	// CreateTableSQL returns the DDL for the rides table.
	CreateTableSQL(table string) string

	// CreateIndexSQL returns DDL to create an index on a table column.
	CreateIndexSQL(indexName, table, column string) string

	// InsertRideSQL returns the ?-parameterized INSERT statement for a
	// single ride, with columns in model.Fields order. Callers rebind it
	// for the dialect before preparing.
	InsertRideSQL(table string) string
}
