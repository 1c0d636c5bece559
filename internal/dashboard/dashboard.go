// Package dashboard runs the fixed set of executive-summary queries:
// headline KPIs plus the chart tables the frontend renders. All queries
// respect the current filter selection; the "completed only" charts append
// their fixed condition after the guaranteed WHERE-shaped predicate.
package dashboard

import (
	"fmt"

	"github.com/ridelens/ridelens/internal/database"
	"github.com/ridelens/ridelens/internal/query"
)

// Summary holds the headline KPI values for the current filter selection.
type Summary struct {
	TotalRides      int64   `json:"totalRides"`
	Completed       int64   `json:"completed"`
	Cancelled       int64   `json:"cancelled"`
	Revenue         float64 `json:"revenue"`
	TotalDistance   float64 `json:"totalDistance"`
	AvgDriverRating float64 `json:"avgDriverRating"`
}

// Chart pairs a display title with its result table. An empty result is
// rendered as an empty-state indicator, not an error.
type Chart struct {
	Title  string           `json:"title"`
	Result *database.Result `json:"result"`
}

// Report is the full dashboard payload for one filter selection.
type Report struct {
	Summary Summary `json:"summary"`
	Charts  []Chart `json:"charts"`
}

// Run executes the dashboard query set against the store.
func Run(store database.Store, f *query.Filter) (*Report, error) {
	where, params := f.WhereClause(store.DateExpr())

	// Charts that append "AND booking_status='Success'" need a non-empty
	// WHERE-shaped predicate.
	where1 := where
	if where1 == "" {
		where1 = " WHERE 1=1"
	}

	table := store.Table()
	dateExpr := store.DateExpr()

	summary, err := runSummary(store, table, where, params)
	if err != nil {
		return nil, err
	}

	charts := []struct {
		title string
		sql   string
	}{
		{
			"Ride Volume",
			fmt.Sprintf("SELECT %s AS day, COUNT(*) AS total_rides FROM %s%s GROUP BY %s ORDER BY day",
				dateExpr, table, where, dateExpr),
		},
		{
			"Revenue by Vehicle",
			fmt.Sprintf("SELECT vehicle_type, SUM(booking_value) AS revenue FROM %s%s AND booking_status='Success' GROUP BY vehicle_type ORDER BY revenue DESC",
				table, where1),
		},
		{
			"Revenue by Payment",
			fmt.Sprintf("SELECT payment_method, SUM(booking_value) AS revenue FROM %s%s AND booking_status='Success' GROUP BY payment_method ORDER BY revenue DESC",
				table, where1),
		},
		{
			"Status Breakdown",
			fmt.Sprintf("SELECT booking_status, COUNT(*) AS rides FROM %s%s GROUP BY booking_status ORDER BY rides DESC",
				table, where),
		},
		{
			"Avg Customer Rating by Vehicle",
			fmt.Sprintf("SELECT vehicle_type, ROUND(AVG(customer_rating),2) AS avg_customer_rating FROM %s%s GROUP BY vehicle_type ORDER BY avg_customer_rating DESC",
				table, where),
		},
		{
			"Top 5 Pickup Locations",
			fmt.Sprintf("SELECT pickup_location, COUNT(*) AS total_rides FROM %s%s GROUP BY pickup_location ORDER BY total_rides DESC LIMIT 5",
				table, where),
		},
	}

	report := &Report{Summary: *summary}
	for _, c := range charts {
		res, err := store.Query(c.sql, params)
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", c.title, err)
		}
		report.Charts = append(report.Charts, Chart{Title: c.title, Result: res})
	}

	return report, nil
}

// runSummary executes the single-row KPI aggregate. Sums and averages over
// zero rows come back NULL, hence the COALESCE wrapping.
func runSummary(store database.Store, table, where string, params []interface{}) (*Summary, error) {
	q := fmt.Sprintf(`SELECT
		COUNT(*) AS total_rides,
		COALESCE(SUM(CASE WHEN booking_status='Success' THEN 1 ELSE 0 END), 0) AS completed,
		COALESCE(SUM(CASE WHEN booking_status!='Success' THEN 1 ELSE 0 END), 0) AS cancelled,
		COALESCE(SUM(CASE WHEN booking_status='Success' THEN booking_value ELSE 0 END), 0) AS revenue,
		COALESCE(SUM(ride_distance), 0) AS total_km,
		COALESCE(AVG(driver_rating), 0) AS avg_driver_rating
	FROM %s%s`, table, where)

	res, err := store.Query(q, params)
	if err != nil {
		return nil, fmt.Errorf("summary query: %w", err)
	}
	if res.Empty() {
		return &Summary{}, nil
	}

	row := res.Rows[0]
	return &Summary{
		TotalRides:      toInt64(row[0]),
		Completed:       toInt64(row[1]),
		Cancelled:       toInt64(row[2]),
		Revenue:         toFloat64(row[3]),
		TotalDistance:   toFloat64(row[4]),
		AvgDriverRating: toFloat64(row[5]),
	}, nil
}

// toInt64 coerces a scanned aggregate value to int64.
func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return 0
	}
}

// toFloat64 coerces a scanned aggregate value to float64.
func toFloat64(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	default:
		return 0
	}
}
