package database

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ridelens/ridelens/internal/model"
)

// ErrNoTable is returned when a store contains none of the candidate ride
// tables. Errors wrapping it enumerate the tables actually found.
var ErrNoTable = errors.New("no ride table found")

// Result is a structured query result: column names plus rows of typed
// values, in SELECT order. It is the unit that flows back to the
// presentation layer and out through CSV export.
type Result struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Empty reports whether the result has no rows. A legitimate empty result is
// not an error; the UI renders an explicit empty state for it.
func (r *Result) Empty() bool {
	return len(r.Rows) == 0
}

// Store defines the read-only analytics operations plus the bootstrap path.
// Every method the application needs is captured here so that app.go depends
// on the interface, not on a concrete database type.
type Store interface {
	// Table returns the detected (or configured) ride table name.
	Table() string

	// ListTables returns all table names in the store, for schema-mismatch
	// diagnostics.
	ListTables() ([]string, error)

	// DistinctValues returns the distinct non-null values of a categorical
	// column, ordered ascending. Used to populate filter widgets.
	DistinctValues(field string) ([]string, error)

	// DateBounds returns the minimum and maximum normalized booking dates
	// ('YYYY-MM-DD'), or empty strings for an empty table.
	DateBounds() (string, string, error)

	// Query executes a read-only statement with positionally bound
	// parameters and returns the full result table. The SQL uses ?
	// placeholders; the store rebinds them for its dialect.
	Query(sqlStr string, args []interface{}) (*Result, error)

	// CountRides returns the number of rides matching an optional
	// WHERE-shaped fragment (starting with " WHERE ") and its parameters.
	CountRides(whereClause string, args []interface{}) (int64, error)

	// InsertRides loads a batch of rides inside a single transaction.
	// Only used by the CSV bootstrap path. onProgress, if non-nil, is
	// called every 10,000 rows.
	InsertRides(rides []*model.Ride, onProgress func(int)) (int, error)

	// Rebind converts ?-style placeholders to the dialect's bind style.
	Rebind(sqlStr string) string

	// DateExpr returns the dialect's normalized-date SQL expression.
	DateExpr() string

	// Lifecycle
	Close() error
	Path() string
}

// scanResult drains sqlx rows into a Result. Byte slices are normalized to
// strings so results serialize cleanly to the frontend and to CSV.
func scanResult(rows *sqlx.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: cols, Rows: [][]interface{}{}}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, vals)
	}
	return res, rows.Err()
}

// detectTable picks the ride table from a list of table names, preferring
// candidates in order. Returns ErrNoTable (with the found list) if none match.
func detectTable(tables []string) (string, error) {
	present := make(map[string]bool, len(tables))
	for _, t := range tables {
		present[t] = true
	}
	for _, c := range model.TableCandidates {
		if present[c] {
			return c, nil
		}
	}
	return "", errNoTable(tables)
}

func errNoTable(found []string) error {
	return &noTableError{found: found}
}

// noTableError carries the list of tables actually present so the UI can
// show an actionable schema-mismatch message.
type noTableError struct {
	found []string
}

func (e *noTableError) Error() string {
	return "no ride table found: expected one of " +
		join(model.TableCandidates) + ", store contains " + join(e.found)
}

func (e *noTableError) Unwrap() error { return ErrNoTable }

func join(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
