package query

import (
	"fmt"
	"strings"
)

// WherePlaceholder is the token in catalog templates that marks where the
// dynamic predicate is injected.
const WherePlaceholder = "{where}"

// Top-N bounds for the one catalog entry that takes a trailing LIMIT value.
const (
	MinTopN     = 1
	MaxTopN     = 50
	DefaultTopN = 5
)

// ErrUnknownQuery is returned when a catalog lookup names no entry.
var ErrUnknownQuery = fmt.Errorf("unknown query name")

// Entry is one named query template in the catalog. SQL contains exactly one
// WherePlaceholder token. Templates that append "AND <fixed condition>" after
// the placeholder rely on Resolve never expanding it to pure emptiness.
type Entry struct {
	Name string `json:"name"`
	SQL  string `json:"-"`

	// NeedsLimit marks templates with a trailing LIMIT ? parameter that the
	// caller appends after the predicate parameters (the Top-N case).
	NeedsLimit bool `json:"needsLimit"`
}

// Catalog is the fixed set of named analytical queries offered to the user.
// It is built once per store (the templates embed the detected table name and
// the dialect's normalized-date expression) and never mutated afterwards.
type Catalog struct {
	names   []string
	entries map[string]Entry
}

// NewCatalog builds the query catalog for the given table name and
// normalized-date expression.
func NewCatalog(table, dateExpr string) *Catalog {
	entries := []Entry{
		// Overall
		{
			Name: "Completed rides (count)",
			SQL: fmt.Sprintf(
				"SELECT COUNT(*) AS completed_rides FROM %s {where} AND booking_status = 'Success'",
				table),
		},
		{
			Name: "Booking status breakdown",
			SQL: fmt.Sprintf(
				"SELECT booking_status, COUNT(*) AS rides FROM %s {where} GROUP BY booking_status ORDER BY rides DESC",
				table),
		},
		{
			Name: "Ride volume by day",
			SQL: fmt.Sprintf(
				"SELECT %s AS day, COUNT(*) AS total_rides FROM %s {where} GROUP BY %s ORDER BY day",
				dateExpr, table, dateExpr),
		},
		{
			Name: "Ride volume by weekday",
			SQL: fmt.Sprintf(
				"SELECT weekday, COUNT(*) AS total_rides FROM %s {where} GROUP BY weekday ORDER BY total_rides DESC",
				table),
		},
		{
			Name: "Ride volume by hour of day",
			SQL: fmt.Sprintf(
				"SELECT hour_of_day, COUNT(*) AS total_rides FROM %s {where} GROUP BY hour_of_day ORDER BY hour_of_day",
				table),
		},

		// Vehicle type
		{
			Name: "Avg ride distance by vehicle type",
			SQL: fmt.Sprintf(
				"SELECT vehicle_type, ROUND(AVG(ride_distance),2) AS avg_distance FROM %s {where} GROUP BY vehicle_type ORDER BY avg_distance DESC",
				table),
		},
		{
			Name: "Avg customer rating by vehicle type",
			SQL: fmt.Sprintf(
				"SELECT vehicle_type, ROUND(AVG(customer_rating),2) AS avg_customer_rating FROM %s {where} GROUP BY vehicle_type ORDER BY avg_customer_rating DESC",
				table),
		},
		{
			Name: "Avg driver rating by vehicle type",
			SQL: fmt.Sprintf(
				"SELECT vehicle_type, ROUND(AVG(driver_rating),2) AS avg_driver_rating FROM %s {where} GROUP BY vehicle_type ORDER BY avg_driver_rating DESC",
				table),
		},
		{
			Name: "Ride count by vehicle type",
			SQL: fmt.Sprintf(
				"SELECT vehicle_type, COUNT(*) AS ride_count FROM %s {where} GROUP BY vehicle_type ORDER BY ride_count DESC",
				table),
		},

		// Cross breakdowns
		{
			Name: "Ride count by vehicle & status",
			SQL: fmt.Sprintf(
				"SELECT vehicle_type, booking_status, COUNT(*) AS rides FROM %s {where} GROUP BY vehicle_type, booking_status ORDER BY rides DESC",
				table),
		},
		{
			Name: "Ride count by vehicle & payment",
			SQL: fmt.Sprintf(
				"SELECT vehicle_type, payment_method, COUNT(*) AS rides FROM %s {where} GROUP BY vehicle_type, payment_method ORDER BY rides DESC",
				table),
		},
		{
			Name: "Avg distance by vehicle & status",
			SQL: fmt.Sprintf(
				"SELECT vehicle_type, booking_status, ROUND(AVG(ride_distance),2) AS avg_distance FROM %s {where} GROUP BY vehicle_type, booking_status ORDER BY avg_distance DESC",
				table),
		},
		{
			Name: "Avg customer rating by vehicle & payment",
			SQL: fmt.Sprintf(
				"SELECT vehicle_type, payment_method, ROUND(AVG(customer_rating),2) AS avg_customer_rating FROM %s {where} GROUP BY vehicle_type, payment_method ORDER BY avg_customer_rating DESC",
				table),
		},

		// Revenue (completed rides only)
		{
			Name: "Revenue by payment method (completed only)",
			SQL: fmt.Sprintf(
				"SELECT payment_method, SUM(booking_value) AS revenue FROM %s {where} AND booking_status = 'Success' GROUP BY payment_method ORDER BY revenue DESC",
				table),
		},
		{
			Name: "Revenue by vehicle type (completed only)",
			SQL: fmt.Sprintf(
				"SELECT vehicle_type, SUM(booking_value) AS revenue FROM %s {where} AND booking_status = 'Success' GROUP BY vehicle_type ORDER BY revenue DESC",
				table),
		},
		{
			Name: "Revenue by status & payment (completed only)",
			SQL: fmt.Sprintf(
				"SELECT booking_status, payment_method, SUM(booking_value) AS revenue FROM %s {where} AND booking_status = 'Success' GROUP BY booking_status, payment_method ORDER BY revenue DESC",
				table),
		},
		{
			Name: "Top N customers by total booking value (completed only)",
			SQL: fmt.Sprintf(
				"SELECT customer_id, SUM(booking_value) AS total_value FROM %s {where} AND booking_status = 'Success' GROUP BY customer_id ORDER BY total_value DESC LIMIT ?",
				table),
			NeedsLimit: true,
		},

		// Cancellations. Blank or whitespace-only reasons collapse to the
		// 'Unspecified' sentinel at query time.
		{
			Name: "Driver cancellation reasons",
			SQL: fmt.Sprintf(
				"SELECT COALESCE(NULLIF(TRIM(cancelled_by_driver_reason),''),'Unspecified') AS reason, COUNT(*) AS cancels FROM %s {where} AND booking_status IN ('Canceled by Driver','Driver Not Found') GROUP BY reason ORDER BY cancels DESC",
				table),
		},
		{
			Name: "Customer cancellation reasons",
			SQL: fmt.Sprintf(
				"SELECT COALESCE(NULLIF(TRIM(cancelled_by_customer_reason),''),'Unspecified') AS reason, COUNT(*) AS cancels FROM %s {where} AND booking_status = 'Canceled by Customer' GROUP BY reason ORDER BY cancels DESC",
				table),
		},

		// Ratings
		{
			Name: "Driver ratings distribution (rounded)",
			SQL: fmt.Sprintf(
				"SELECT ROUND(driver_rating,1) AS rating, COUNT(*) AS rides FROM %s {where} AND driver_rating IS NOT NULL GROUP BY rating ORDER BY rating",
				table),
		},
		{
			Name: "Customer ratings distribution (rounded)",
			SQL: fmt.Sprintf(
				"SELECT ROUND(customer_rating,1) AS rating, COUNT(*) AS rides FROM %s {where} AND customer_rating IS NOT NULL GROUP BY rating ORDER BY rating",
				table),
		},
	}

	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		c.names = append(c.names, e.Name)
		c.entries[e.Name] = e
	}
	return c
}

// Names returns the query names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Entries returns all catalog entries in order, for UI listing.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.entries[n])
	}
	return out
}

// Get looks up a catalog entry by name.
func (c *Catalog) Get(name string) (Entry, error) {
	e, ok := c.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownQuery, name)
	}
	return e, nil
}

// Resolve substitutes the dynamic predicate into a template.
//
// A template without the placeholder is returned unchanged with its original
// parameters. An empty predicate expands to " WHERE 1=1" with an empty
// parameter list, so templates that append "AND ..." after the placeholder
// stay syntactically valid. Otherwise the fragment is substituted verbatim
// and the predicate parameters pass through unchanged. Trailing extra
// parameters (the Top-N LIMIT) are the caller's business, appended after
// resolution.
func Resolve(template, whereSQL string, params []interface{}) (string, []interface{}) {
	if !strings.Contains(template, WherePlaceholder) {
		return template, params
	}
	if strings.TrimSpace(whereSQL) == "" {
		return strings.Replace(template, WherePlaceholder, " WHERE 1=1", 1), nil
	}
	return strings.Replace(template, WherePlaceholder, whereSQL, 1), params
}

// ClampTopN bounds a user-supplied Top-N value to [MinTopN, MaxTopN].
// Zero or negative values fall back to DefaultTopN.
func ClampTopN(n int) int {
	if n <= 0 {
		return DefaultTopN
	}
	if n < MinTopN {
		return MinTopN
	}
	if n > MaxTopN {
		return MaxTopN
	}
	return n
}
