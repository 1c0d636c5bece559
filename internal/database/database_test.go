package database

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ridelens/ridelens/internal/model"
	"github.com/ridelens/ridelens/internal/query"
)

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := CreateSQLite(tempDBPath(t))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func nf(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func ride(booking, customer, btime, vehicle, status, payment string, value sql.NullFloat64) *model.Ride {
	return &model.Ride{
		BookingID:      booking,
		CustomerID:     customer,
		BookingTime:    btime,
		Weekday:        "Monday",
		HourOfDay:      10,
		VehicleType:    vehicle,
		PickupLocation: "Koramangala",
		DropLocation:   "Indiranagar",
		BookingStatus:  status,
		PaymentMethod:  payment,
		RideDistance:   nf(5.5),
		BookingValue:   value,
		DriverRating:   nf(4.2),
		CustomerRating: nf(4.0),
	}
}

func seed(t *testing.T, db *SQLiteStore, rides ...*model.Ride) {
	t.Helper()
	if _, err := db.InsertRides(rides, nil); err != nil {
		t.Fatalf("seeding rides: %v", err)
	}
}

func runCatalog(t *testing.T, db *SQLiteStore, name string, f *query.Filter, topN int) *Result {
	t.Helper()
	c := query.NewCatalog(db.Table(), db.DateExpr())
	e, err := c.Get(name)
	if err != nil {
		t.Fatalf("catalog lookup: %v", err)
	}
	where, params := f.WhereClause(db.DateExpr())
	sqlStr, args := query.Resolve(e.SQL, where, params)
	if e.NeedsLimit {
		args = append(args, query.ClampTopN(topN))
	}
	res, err := db.Query(sqlStr, args)
	if err != nil {
		t.Fatalf("running %q: %v", name, err)
	}
	return res
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

func asInt(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return -1
	}
}

func TestCreateAndOpen(t *testing.T) {
	path := tempDBPath(t)

	db, err := CreateSQLite(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	db.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("database file was not created")
	}

	db2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db2.Close()

	if db2.Table() != "rides" {
		t.Errorf("expected table 'rides', got %q", db2.Table())
	}
}

func TestOpenWithoutRideTable(t *testing.T) {
	_, err := OpenSQLite(tempDBPath(t))
	if !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
	// The error must tell the user what the store actually contains
	if msg := err.Error(); !strings.Contains(msg, "rides, ola_rides_clean") {
		t.Errorf("error should list expected candidates: %q", msg)
	}
}

func TestFallbackTableDetection(t *testing.T) {
	path := tempDBPath(t)
	db, err := CreateSQLite(path, WithTable("ola_rides_clean"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	db.Close()

	db2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db2.Close()

	if db2.Table() != "ola_rides_clean" {
		t.Errorf("expected fallback table, got %q", db2.Table())
	}
}

func TestConfiguredTableMissing(t *testing.T) {
	path := tempDBPath(t)
	db, err := CreateSQLite(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	db.Close()

	_, err = OpenSQLite(path, WithTable("trips"))
	if !errors.Is(err, ErrNoTable) {
		t.Errorf("expected ErrNoTable for missing configured table, got %v", err)
	}
}

func TestDistinctValues(t *testing.T) {
	db := createTestStore(t)
	seed(t, db,
		ride("B1", "C1", "01-01-2024 10:00", "Sedan", "Success", "Cash", nf(100)),
		ride("B2", "C2", "02-01-2024 11:00", "Mini", "Success", "UPI", nf(50)),
		ride("B3", "C3", "03-01-2024 12:00", "Mini", "Success", "Cash", nf(75)),
	)

	got, err := db.DistinctValues("vehicle_type")
	if err != nil {
		t.Fatalf("DistinctValues: %v", err)
	}
	want := []string{"Mini", "Sedan"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDistinctValuesInvalidField(t *testing.T) {
	db := createTestStore(t)
	if _, err := db.DistinctValues("vehicle_type; DROP TABLE rides"); err == nil {
		t.Error("expected error for invalid field name")
	}
}

func TestDateBounds(t *testing.T) {
	db := createTestStore(t)

	// Empty table: both bounds empty, no error
	lo, hi, err := db.DateBounds()
	if err != nil {
		t.Fatalf("DateBounds on empty table: %v", err)
	}
	if lo != "" || hi != "" {
		t.Errorf("expected empty bounds, got %q..%q", lo, hi)
	}

	seed(t, db,
		ride("B1", "C1", "15-03-2024 08:30", "Mini", "Success", "Cash", nf(10)),
		ride("B2", "C2", "02-01-2024 23:10", "Mini", "Success", "Cash", nf(10)),
		ride("B3", "C3", "30-11-2024 06:00", "Mini", "Success", "Cash", nf(10)),
	)

	lo, hi, err = db.DateBounds()
	if err != nil {
		t.Fatalf("DateBounds: %v", err)
	}
	if lo != "2024-01-02" || hi != "2024-11-30" {
		t.Errorf("expected 2024-01-02..2024-11-30, got %s..%s", lo, hi)
	}
}

func TestCompletedRidesCount(t *testing.T) {
	db := createTestStore(t)
	seed(t, db,
		ride("B1", "C1", "01-01-2024 10:00", "Mini", "Success", "Cash", nf(50)),
		ride("B2", "C2", "02-01-2024 10:00", "Mini", "Success", "UPI", nf(30)),
		ride("B3", "C3", "03-01-2024 10:00", "Mini", "Canceled by Customer", "Cash", sql.NullFloat64{}),
	)

	res := runCatalog(t, db, "Completed rides (count)", &query.Filter{}, 0)
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	if got := asInt(res.Rows[0][0]); got != 2 {
		t.Errorf("expected completed_rides = 2, got %d", got)
	}
}

func TestCustomerCancellationReasons(t *testing.T) {
	db := createTestStore(t)
	r1 := ride("B1", "C1", "01-01-2024 10:00", "Mini", "Canceled by Customer", "Cash", sql.NullFloat64{})
	r1.CancelledByCustomerReason = ""
	r2 := ride("B2", "C2", "02-01-2024 10:00", "Mini", "Canceled by Customer", "Cash", sql.NullFloat64{})
	r2.CancelledByCustomerReason = "Driver too far"
	seed(t, db, r1, r2)

	res := runCatalog(t, db, "Customer cancellation reasons", &query.Filter{}, 0)
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}

	counts := map[string]int64{}
	for _, row := range res.Rows {
		counts[asString(row[0])] = asInt(row[1])
	}
	if counts["Unspecified"] != 1 || counts["Driver too far"] != 1 {
		t.Errorf("unexpected reason counts: %v", counts)
	}
}

func TestSearchSubstring(t *testing.T) {
	db := createTestStore(t)
	seed(t, db,
		ride("B1", "C1001", "01-01-2024 10:00", "Mini", "Success", "Cash", nf(10)),
		ride("B2", "C2002", "02-01-2024 10:00", "Mini", "Success", "Cash", nf(10)),
	)

	f := &query.Filter{Search: "C100"}
	where, params := f.WhereClause(db.DateExpr())

	count, err := db.CountRides(where, params)
	if err != nil {
		t.Fatalf("CountRides: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 match for C100, got %d", count)
	}
}

func TestTopNCustomers(t *testing.T) {
	db := createTestStore(t)
	seed(t, db,
		ride("B1", "C_A", "01-01-2024 10:00", "Mini", "Success", "Cash", nf(50)),
		ride("B2", "C_B", "02-01-2024 10:00", "Mini", "Success", "Cash", nf(30)),
		ride("B3", "C_C", "03-01-2024 10:00", "Mini", "Success", "Cash", nf(10)),
	)

	res := runCatalog(t, db, "Top N customers by total booking value (completed only)", &query.Filter{}, 2)
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if asString(res.Rows[0][0]) != "C_A" || asString(res.Rows[1][0]) != "C_B" {
		t.Errorf("unexpected top customers: %v", res.Rows)
	}
}

func TestNullBookingTime(t *testing.T) {
	db := createTestStore(t)
	r := ride("B1", "C1", "", "Mini", "Success", "Cash", nf(10))
	seed(t, db, r)

	// Malformed dates produce garbage normalized values but must not error
	if _, _, err := db.DateBounds(); err != nil {
		t.Errorf("DateBounds with null booking_time: %v", err)
	}
	res := runCatalog(t, db, "Ride volume by day", &query.Filter{}, 0)
	if len(res.Rows) != 1 {
		t.Errorf("expected the garbage-date row to group, got %d rows", len(res.Rows))
	}
}

func TestEmptyResultIsNotError(t *testing.T) {
	db := createTestStore(t)
	seed(t, db, ride("B1", "C1", "01-06-2024 10:00", "Mini", "Success", "Cash", nf(10)))

	f := &query.Filter{ApplyDate: true, DateFrom: "2030-01-01", DateTo: "2030-12-31"}
	res := runCatalog(t, db, "Booking status breakdown", f, 0)
	if !res.Empty() {
		t.Errorf("expected empty result, got %v", res.Rows)
	}
}

func TestFullSpanBoundaryInclusive(t *testing.T) {
	db := createTestStore(t)
	seed(t, db,
		ride("B1", "C1", "01-01-2024 00:00", "Mini", "Success", "Cash", nf(10)),
		ride("B2", "C2", "15-06-2024 12:00", "Mini", "Success", "Cash", nf(10)),
		ride("B3", "C3", "31-12-2024 23:59", "Mini", "Success", "Cash", nf(10)),
	)

	lo, hi, err := db.DateBounds()
	if err != nil {
		t.Fatal(err)
	}

	// With the full span applied, no row may be excluded
	applied := &query.Filter{ApplyDate: true, DateFrom: lo, DateTo: hi}
	where, params := applied.WhereClause(db.DateExpr())
	n1, err := db.CountRides(where, params)
	if err != nil {
		t.Fatal(err)
	}

	// With the date predicate suppressed, the count must be identical
	n2, err := db.CountRides("", nil)
	if err != nil {
		t.Fatal(err)
	}

	if n1 != 3 || n2 != 3 {
		t.Errorf("full span excluded rows: applied=%d suppressed=%d", n1, n2)
	}
}

func TestIdempotentExecution(t *testing.T) {
	db := createTestStore(t)
	seed(t, db,
		ride("B1", "C1", "01-01-2024 10:00", "Sedan", "Success", "Cash", nf(100)),
		ride("B2", "C2", "02-01-2024 11:00", "Mini", "Canceled by Driver", "UPI", nf(50)),
	)

	f := &query.Filter{VehicleTypes: []string{"Mini", "Sedan"}}
	first := runCatalog(t, db, "Ride count by vehicle type", f, 0)
	second := runCatalog(t, db, "Ride count by vehicle type", f, 0)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical query produced different results:\n%v\n%v", first, second)
	}
}

func TestListTables(t *testing.T) {
	db := createTestStore(t)
	tables, err := db.ListTables()
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}

	found := false
	for _, tbl := range tables {
		if tbl == "rides" {
			found = true
		}
	}
	if !found {
		t.Errorf("rides table missing from %v", tables)
	}
}

func TestRebindSQLitePassthrough(t *testing.T) {
	db := createTestStore(t)
	in := "SELECT * FROM rides WHERE vehicle_type IN (?,?)"
	if got := db.Rebind(in); got != in {
		t.Errorf("sqlite rebind changed sql: %q", got)
	}
}

func TestRebindPostgresDollar(t *testing.T) {
	db := PostgresStore{baseStore{dialect: &PostgresDialect{}}}
	got := db.Rebind("SELECT 1 FROM rides WHERE a = ? AND b = ?")
	if got != "SELECT 1 FROM rides WHERE a = $1 AND b = $2" {
		t.Errorf("unexpected rebind: %q", got)
	}
}
