package query

import "strings"

// Filter holds one interaction's worth of user-selected restrictions.
// The zero value means "no restriction": an empty slice or string on any
// dimension matches everything on that dimension, never nothing.
type Filter struct {
	// DateFrom and DateTo are ISO 'YYYY-MM-DD' strings compared inclusively
	// against the normalized booking date. Only used when ApplyDate is true
	// and both ends are set.
	DateFrom  string `json:"dateFrom"`
	DateTo    string `json:"dateTo"`
	ApplyDate bool   `json:"applyDate"`

	VehicleTypes   []string `json:"vehicleTypes"`
	Statuses       []string `json:"statuses"`
	PaymentMethods []string `json:"paymentMethods"`

	// Search is matched as a substring against booking_id and customer_id.
	// Case sensitivity is backend-dependent: SQLite LIKE is case-insensitive
	// for ASCII, PostgreSQL LIKE is case-sensitive.
	Search string `json:"search"`
}

// WhereClause translates the filter into a SQL predicate and its ordered
// parameter values. dateExpr is the normalized-date expression from the
// store's dialect. The returned fragment starts with " WHERE " or is empty
// when no restriction is active; the parameter count always equals the
// number of ? placeholders in the fragment.
//
// Fragment order is fixed: date, vehicle type, status, payment, search.
func (f *Filter) WhereClause(dateExpr string) (string, []interface{}) {
	var parts []string
	var params []interface{}

	if f.ApplyDate && f.DateFrom != "" && f.DateTo != "" {
		parts = append(parts, dateExpr+" BETWEEN ? AND ?")
		params = append(params, f.DateFrom, f.DateTo)
	}

	if len(f.VehicleTypes) > 0 {
		parts = append(parts, inList("vehicle_type", len(f.VehicleTypes)))
		for _, v := range f.VehicleTypes {
			params = append(params, v)
		}
	}

	if len(f.Statuses) > 0 {
		parts = append(parts, inList("booking_status", len(f.Statuses)))
		for _, v := range f.Statuses {
			params = append(params, v)
		}
	}

	if len(f.PaymentMethods) > 0 {
		parts = append(parts, inList("payment_method", len(f.PaymentMethods)))
		for _, v := range f.PaymentMethods {
			params = append(params, v)
		}
	}

	if f.Search != "" {
		parts = append(parts, "(booking_id LIKE ? OR customer_id LIKE ?)")
		like := "%" + f.Search + "%"
		params = append(params, like, like)
	}

	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), params
}

// inList builds "field IN (?, ?, ...)" with n placeholders.
func inList(field string, n int) string {
	return field + " IN (" + strings.TrimSuffix(strings.Repeat("?,", n), ",") + ")"
}
