package quickstatements

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Precision is the Wikibase time precision code.
type Precision int

const (
	PrecisionYear   Precision = 9
	PrecisionMonth  Precision = 10
	PrecisionDay    Precision = 11
	PrecisionHour   Precision = 12
	PrecisionMinute Precision = 13
	PrecisionSecond Precision = 14
)

// Valid reports whether p is one of the supported precision codes.
func (p Precision) Valid() bool {
	return p >= PrecisionYear && p <= PrecisionSecond
}

// String returns the name of the precision.
func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	case PrecisionHour:
		return "hour"
	case PrecisionMinute:
		return "minute"
	case PrecisionSecond:
		return "second"
	default:
		return strconv.Itoa(int(p))
	}
}

var encodedDateRegex = regexp.MustCompile(`^\+(\d{4,})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})Z/(\d{1,2})$`)

// EncodeDate renders t as a QuickStatements time value: +YYYY-MM-DDThh:mm:ssZ/precision.
// Fields finer than the precision are written as zeros.
func EncodeDate(t time.Time, p Precision) string {
	t = t.UTC()
	var month, day, hour, minute, second int
	if p >= PrecisionMonth {
		month = int(t.Month())
	}
	if p >= PrecisionDay {
		day = t.Day()
	}
	if p >= PrecisionHour {
		hour = t.Hour()
	}
	if p >= PrecisionMinute {
		minute = t.Minute()
	}
	if p >= PrecisionSecond {
		second = t.Second()
	}
	return fmt.Sprintf("+%04d-%02d-%02dT%02d:%02d:%02dZ/%d", t.Year(), month, day, hour, minute, second, int(p))
}

// DecodeDate parses an encoded time value back into a time and precision.
// Zero-filled month and day fields decode to the first month or day.
func DecodeDate(s string) (time.Time, Precision, error) {
	m := encodedDateRegex.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, 0, fmt.Errorf("not an encoded date: %q", s)
	}
	n := make([]int, len(m)-1)
	for i, part := range m[1:] {
		v, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("parsing %q: %w", part, err)
		}
		n[i] = v
	}
	p := Precision(n[6])
	if !p.Valid() {
		return time.Time{}, 0, fmt.Errorf("unsupported precision %d in %q", n[6], s)
	}
	month, day := n[1], n[2]
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	return time.Date(n[0], time.Month(month), day, n[3], n[4], n[5], 0, time.UTC), p, nil
}
