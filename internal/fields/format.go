package fields

import (
	"time"
)

// NotAvailable is shown for unset values.
const NotAvailable = "N/A"

// InvalidDate is shown for date values that cannot be parsed.
const InvalidDate = "Invalid Date"

// ShortDateLayout is the month/day/year form used for dates.
const ShortDateLayout = "1/2/2006"

var dateLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", false},
}

// ParseDate parses an ISO-8601 date or timestamp string. Timestamps
// without an offset are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	return ParseDateIn(s, time.UTC)
}

// ParseDateIn parses like ParseDate but reads timestamps without an offset
// as wall-clock time in loc. Date-only strings stay UTC midnight.
func ParseDateIn(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, l := range dateLayouts {
		in := time.UTC
		if l.local {
			in = loc
		}
		if t, err := time.ParseInLocation(l.layout, s, in); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Format renders v for display against a field type. Dates are rendered in
// the given location.
func Format(v Value, t Type, currencySymbol string, loc *time.Location) string {
	if v.IsNull() {
		return NotAvailable
	}
	if loc == nil {
		loc = time.UTC
	}
	switch t {
	case TypeBoolean:
		if v.Truthy() {
			return "Yes"
		}
		return "No"
	case TypeDate:
		return formatDate(v, loc)
	case TypeCurrency:
		return currencySymbol + v.String()
	default:
		return v.String()
	}
}

func formatDate(v Value, loc *time.Location) string {
	if ms, ok := v.Num(); ok {
		return time.UnixMilli(int64(ms)).In(loc).Format(ShortDateLayout)
	}
	s, ok := v.Str()
	if !ok {
		return InvalidDate
	}
	parsed, ok := ParseDateIn(s, loc)
	if !ok {
		return InvalidDate
	}
	return parsed.In(loc).Format(ShortDateLayout)
}
