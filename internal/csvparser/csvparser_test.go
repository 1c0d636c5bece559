package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ridelens/ridelens/internal/database"
	"github.com/ridelens/ridelens/internal/model"
)

var header = strings.Join(model.Fields, ",")

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rides.csv")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test csv: %v", err)
	}
	return path
}

func sampleRow(booking string) string {
	return booking + ",C1001,01-01-2024 10:30,Monday,10,Mini,Koramangala,Indiranagar,Success,Cash,5.5,120.0,4.5,4.0,,"
}

func TestValidateHeader(t *testing.T) {
	path := writeCSV(t, header, sampleRow("B1"))
	if err := ValidateHeader(path); err != nil {
		t.Errorf("expected valid header, got %v", err)
	}
}

func TestValidateHeaderMismatch(t *testing.T) {
	bad := strings.Replace(header, "booking_id", "ride_id", 1)
	path := writeCSV(t, bad, sampleRow("B1"))

	err := ValidateHeader(path)
	if err == nil {
		t.Fatal("expected header mismatch error")
	}
	if !strings.Contains(err.Error(), "booking_id") {
		t.Errorf("error should name the expected column: %v", err)
	}
}

func TestValidateHeaderTooShort(t *testing.T) {
	path := writeCSV(t, "booking_id,customer_id")
	if err := ValidateHeader(path); err == nil {
		t.Fatal("expected header-too-short error")
	}
}

func TestReadRides(t *testing.T) {
	path := writeCSV(t, header, sampleRow("B1"), sampleRow("B2"))

	result, err := ReadRides(path, 0, nil)
	if err != nil {
		t.Fatalf("ReadRides: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 rides, got %d", result.Count)
	}

	r := result.Rides[0]
	if r.BookingID != "B1" || r.CustomerID != "C1001" {
		t.Errorf("unexpected identifiers: %+v", r)
	}
	if r.BookingTime != "01-01-2024 10:30" {
		t.Errorf("booking_time mangled: %q", r.BookingTime)
	}
	if r.HourOfDay != 10 {
		t.Errorf("expected hour 10, got %d", r.HourOfDay)
	}
	if !r.BookingValue.Valid || r.BookingValue.Float64 != 120.0 {
		t.Errorf("unexpected booking value: %+v", r.BookingValue)
	}
}

func TestReadRidesBlankNumericsAreNull(t *testing.T) {
	row := "B9,C9,02-01-2024 09:00,Tuesday,9,Auto,HSR,BTM,Canceled by Customer,UPI,,,,,Driver asked,"
	path := writeCSV(t, header, row)

	result, err := ReadRides(path, 0, nil)
	if err != nil {
		t.Fatalf("ReadRides: %v", err)
	}

	r := result.Rides[0]
	if r.RideDistance.Valid || r.BookingValue.Valid || r.DriverRating.Valid || r.CustomerRating.Valid {
		t.Errorf("blank numerics should be NULL: %+v", r)
	}
	if r.CancelledByDriverReason != "Driver asked" {
		t.Errorf("reason mangled: %q", r.CancelledByDriverReason)
	}
}

func TestReadRidesLimit(t *testing.T) {
	path := writeCSV(t, header, sampleRow("B1"), sampleRow("B2"), sampleRow("B3"))

	result, err := ReadRides(path, 2, nil)
	if err != nil {
		t.Fatalf("ReadRides: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("expected limit of 2, got %d", result.Count)
	}
}

func TestReadRidesStripsNullBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirty.csv")
	content := header + "\n" + sampleRow("B1\x00") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := ReadRides(path, 0, nil)
	if err != nil {
		t.Fatalf("ReadRides on null-byte csv: %v", err)
	}
	if result.Rides[0].BookingID != "B1" {
		t.Errorf("null byte not stripped: %q", result.Rides[0].BookingID)
	}
}

func TestWriteResult(t *testing.T) {
	res := &database.Result{
		Columns: []string{"vehicle_type", "rides", "revenue", "note"},
		Rows: [][]interface{}{
			{"Mini", int64(12), 345.5, nil},
			{"Sedan", int64(3), 99.0, "ok"},
		},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteResult(path, res); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "vehicle_type,rides,revenue,note" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "Mini,12,345.5," {
		t.Errorf("unexpected row: %q", lines[1])
	}
	if lines[2] != "Sedan,3,99,ok" {
		t.Errorf("unexpected row: %q", lines[2])
	}
}

func TestWriteResultEmpty(t *testing.T) {
	res := &database.Result{Columns: []string{"day", "total_rides"}, Rows: [][]interface{}{}}

	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteResult(path, res); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "day,total_rides" {
		t.Errorf("empty result should still write the header: %q", data)
	}
}
