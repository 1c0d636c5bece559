package csvparser

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ridelens/ridelens/internal/database"
	"github.com/ridelens/ridelens/internal/model"
)

// rideHeader is the expected header of a cleaned ride CSV, in column order.
// It matches model.Fields: the bootstrap CSV is a straight export of the
// rides table. Column positions are used for field mapping.
var rideHeader = model.Fields

// ReadResult contains the outcome of a CSV import operation.
type ReadResult struct {
	Rides []*model.Ride
	Count int
}

// ValidateHeader checks if a CSV file has a valid ride-dataset header.
// Returns an error describing the mismatch if validation fails.
func ValidateHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(newNullStripper(f))
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	if len(header) < len(rideHeader) {
		return fmt.Errorf("header too short: got %d columns, expected at least %d",
			len(header), len(rideHeader))
	}

	for i, expected := range rideHeader {
		if strings.TrimSpace(header[i]) != expected {
			return fmt.Errorf("header mismatch at column %d: expected '%s', got '%s'",
				i, expected, header[i])
		}
	}

	return nil
}

// ReadRides reads all ride records from a cleaned ride CSV file.
// Optionally limits the number of rides (pass 0 for no limit).
// An onProgress callback is called every 10,000 rides if non-nil.
func ReadRides(path string, limit int, onProgress func(count int)) (*ReadResult, error) {
	if err := ValidateHeader(path); err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(newNullStripper(f))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable field counts

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	result := &ReadResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", result.Count+1, err)
		}

		if limit > 0 && result.Count >= limit {
			break
		}

		result.Rides = append(result.Rides, rowToRide(row))
		result.Count++

		if onProgress != nil && result.Count%10000 == 0 {
			onProgress(result.Count)
		}
	}

	return result, nil
}

// WriteResult writes a query result table to a CSV file, header row first,
// UTF-8 encoded.
func WriteResult(path string, res *database.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(res.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range res.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatValue(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	return nil
}

// formatValue renders a scanned SQL value as CSV cell text.
// NULL becomes the empty string.
func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// rowToRide converts a CSV row into a Ride. Column positions follow
// rideHeader. Blank or unparseable numeric cells become SQL NULL.
func rowToRide(row []string) *model.Ride {
	return &model.Ride{
		BookingID:                 safeIndex(row, 0),
		CustomerID:                safeIndex(row, 1),
		BookingTime:               safeIndex(row, 2),
		Weekday:                   safeIndex(row, 3),
		HourOfDay:                 parseInt(safeIndex(row, 4)),
		VehicleType:               safeIndex(row, 5),
		PickupLocation:            safeIndex(row, 6),
		DropLocation:              safeIndex(row, 7),
		BookingStatus:             safeIndex(row, 8),
		PaymentMethod:             safeIndex(row, 9),
		RideDistance:              parseNullFloat(safeIndex(row, 10)),
		BookingValue:              parseNullFloat(safeIndex(row, 11)),
		DriverRating:              parseNullFloat(safeIndex(row, 12)),
		CustomerRating:            parseNullFloat(safeIndex(row, 13)),
		CancelledByDriverReason:   safeIndex(row, 14),
		CancelledByCustomerReason: safeIndex(row, 15),
	}
}

// safeIndex returns the value at index i, or empty string if out of bounds.
func safeIndex(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseNullFloat(s string) sql.NullFloat64 {
	if s == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// nullStripper wraps a reader and strips null bytes from the stream,
// preventing csv.Reader errors on dirty exports.
type nullStripper struct {
	r io.Reader
}

func newNullStripper(r io.Reader) io.Reader {
	return &nullStripper{r: r}
}

func (ns *nullStripper) Read(p []byte) (int, error) {
	n, err := ns.r.Read(p)
	if n > 0 {
		cleaned := strings.ReplaceAll(string(p[:n]), "\x00", "")
		copy(p, cleaned)
		n = len(cleaned)
	}
	return n, err
}
