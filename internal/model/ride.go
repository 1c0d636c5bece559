package model

import "database/sql"

// Fields is the ordered list of column names in the rides table.
// Used for schema creation, CSV column mapping, and field validation.
var Fields = []string{
	"booking_id", "customer_id", "booking_time", "weekday", "hour_of_day",
	"vehicle_type", "pickup_location", "drop_location", "booking_status",
	"payment_method", "ride_distance", "booking_value", "driver_rating",
	"customer_rating", "cancelled_by_driver_reason", "cancelled_by_customer_reason",
}

// TableCandidates lists the table names a backing store may use for the
// ride dataset, in priority order. Detection picks the first one present.
var TableCandidates = []string{"rides", "ola_rides_clean"}

// FilterFields are the categorical columns offered as multi-select filters.
var FilterFields = []string{"vehicle_type", "booking_status", "payment_method"}

// StatusCompleted is the booking_status value of a successfully completed ride.
const StatusCompleted = "Success"

// Ride represents a single trip record from the cleaned ride dataset.
// Records are read-only from this application's perspective; the only writes
// happen during CSV bootstrap. booking_time keeps the source's
// 'DD-MM-YYYY HH:MM' string form; queries reformat it in SQL when a sortable
// date is needed.
type Ride struct {
	BookingID                 string          `json:"booking_id" db:"booking_id"`
	CustomerID                string          `json:"customer_id" db:"customer_id"`
	BookingTime               string          `json:"booking_time" db:"booking_time"`
	Weekday                   string          `json:"weekday" db:"weekday"`
	HourOfDay                 int64           `json:"hour_of_day" db:"hour_of_day"`
	VehicleType               string          `json:"vehicle_type" db:"vehicle_type"`
	PickupLocation            string          `json:"pickup_location" db:"pickup_location"`
	DropLocation              string          `json:"drop_location" db:"drop_location"`
	BookingStatus             string          `json:"booking_status" db:"booking_status"`
	PaymentMethod             string          `json:"payment_method" db:"payment_method"`
	RideDistance              sql.NullFloat64 `json:"ride_distance" db:"ride_distance"`
	BookingValue              sql.NullFloat64 `json:"booking_value" db:"booking_value"`
	DriverRating              sql.NullFloat64 `json:"driver_rating" db:"driver_rating"`
	CustomerRating            sql.NullFloat64 `json:"customer_rating" db:"customer_rating"`
	CancelledByDriverReason   string          `json:"cancelled_by_driver_reason" db:"cancelled_by_driver_reason"`
	CancelledByCustomerReason string          `json:"cancelled_by_customer_reason" db:"cancelled_by_customer_reason"`
}

// IsValidField checks a column name against the known rides columns.
// This prevents SQL injection when field names are interpolated into queries.
func IsValidField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}
