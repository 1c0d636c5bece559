package query

// QueryDialect abstracts SQL syntax differences needed for query building.
// Each database backend provides an implementation. The default is SQLite.
type QueryDialect interface {
	// NormalizedDateSQL returns a SQL expression that converts the stored
	// booking_time string ('DD-MM-YYYY HH:MM') into an ISO 'YYYY-MM-DD'
	// string, sortable and comparable lexicographically. The expression is
	// pure string slicing so it can appear in SELECT, WHERE, and GROUP BY.
	NormalizedDateSQL() string
}

// sqliteQueryDialect is the default dialect, producing SQLite-compatible SQL.
// substr() and || concatenation behave identically on PostgreSQL, so the
// Postgres store reuses this expression and only rebinds placeholders.
type sqliteQueryDialect struct{}

func (d sqliteQueryDialect) NormalizedDateSQL() string {
	return "substr(booking_time,7,4) || '-' || substr(booking_time,4,2) || '-' || substr(booking_time,1,2)"
}

// DefaultDialect is the query dialect used when none is explicitly set.
var DefaultDialect QueryDialect = sqliteQueryDialect{}
