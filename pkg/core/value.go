package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutTime     = "15:04:05"

	sqlNull = "NULL"
)

// Formatter turns typed values into SQL literal text. The zero value escapes
// with MySQL rules and interprets dates in UTC.
type Formatter struct {
	// Escape overrides the string escaping rules of the target engine.
	Escape EscapeFunc
	// Location is used for zone-less date strings and epoch conversions.
	Location *time.Location
}

// Format renders v as a literal of the declared type t.
//
// It panics when t is not one of the declared Type constants: an unknown
// type is a configuration error, not a recoverable failure.
func (f Formatter) Format(v Value, t Type) string {
	switch t {
	case TypeText:
		s := v.Text()
		if s == "" {
			if v.Kind == KindString {
				return "''"
			}
			return sqlNull
		}
		return f.quote(s)

	case TypeEnum:
		if d, ok := numeric(v); ok {
			return "'" + d.Truncate(0).String() + "'"
		}
		if !v.IsEmpty() {
			return f.quote(v.Text())
		}
		return sqlNull

	case TypeNumber:
		if d, ok := numeric(v); ok {
			return "'" + d.Truncate(0).String() + "'"
		}
		return sqlNull

	case TypeDouble:
		if v.Kind == KindFloat && !math.IsNaN(v.Flt) && !math.IsInf(v.Flt, 0) {
			return "'" + formatFloat(v.Flt) + "'"
		}
		if d, ok := numeric(v); ok {
			return "'" + d.String() + "'"
		}
		return sqlNull

	case TypeBoolean:
		if GetBooleanValue(v) {
			return "'1'"
		}
		return "'0'"

	case TypeYN:
		if GetBooleanValue(v) {
			return "'Y'"
		}
		return "'N'"

	case TypeTF:
		if GetBooleanValue(v) {
			return "'T'"
		}
		return "'F'"

	case TypeDate:
		return f.formatTime(v, layoutDate)

	case TypeDateTime:
		return f.formatTime(v, layoutDateTime)

	case TypeTime:
		return f.formatTime(v, layoutTime)

	case TypeNull:
		return sqlNull
	}
	panic(fmt.Errorf("%w: %s", ErrInvalidType, t))
}

func (f Formatter) quote(s string) string {
	esc := f.Escape
	if esc == nil {
		esc = Escape
	}
	return "'" + esc(s) + "'"
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

func (f Formatter) formatTime(v Value, layout string) string {
	switch v.Kind {
	case KindString:
		if t, ok := parseDate(v.Str, f.location()); ok {
			return "'" + t.Format(layout) + "'"
		}
	case KindInt:
		if v.Int > 0 {
			return "'" + time.Unix(v.Int, 0).In(f.location()).Format(layout) + "'"
		}
	}
	return sqlNull
}

// Format renders v with the default Formatter.
func Format(v Value, t Type) string {
	return Formatter{}.Format(v, t)
}

// SQLValue formats an arbitrary Go value by declared type name. An unknown
// type name panics with ErrInvalidType.
func SQLValue(v any, typeName string) string {
	t, err := ParseType(typeName)
	if err != nil {
		panic(err)
	}
	return Format(ValueOf(v), t)
}

// BuildSQLValue formats v using the declared type implied by its native
// kind: strings as text, integers as numbers and so on.
func BuildSQLValue(v any) string {
	val := ValueOf(v)
	return Format(val, val.NativeType())
}

// SQLBooleanValue formats trueValue when v is truthy and falseValue
// otherwise, both with declared type t.
func SQLBooleanValue(v, trueValue, falseValue any, t Type) string {
	if GetBooleanValue(v) {
		return Format(ValueOf(trueValue), t)
	}
	return Format(ValueOf(falseValue), t)
}

// GetBooleanValue interprets any value as a boolean. Booleans are returned
// as is, numbers are true when their integer part is positive and strings
// are matched against a fixed vocabulary (ON, SELECTED, CHECKED, YES, Y,
// TRUE, T) after trimming and upper-casing.
func GetBooleanValue(v any) bool {
	val := ValueOf(v)
	if val.Kind == KindBool {
		return val.Bool
	}
	if d, ok := numeric(val); ok {
		return d.Truncate(0).Sign() > 0
	}
	_, ok := truthyWords[strings.ToUpper(strings.TrimSpace(val.Text()))]
	return ok
}

// IsDateStr reports whether s parses as a date or time. Unparsable input and
// anything at or before the epoch are rejected, so garbage that happens to
// parse as zero is not mistaken for 1970-01-01.
func IsDateStr(s string) bool {
	_, ok := parseDate(s, time.UTC)
	return ok
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseClock(s, loc); ok {
		return t, true
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil || t.Unix() <= 0 {
		return time.Time{}, false
	}
	return t.In(loc), true
}

// clockLayouts are the time-of-day forms read as a time on the current day.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05PM",
	"3:04PM",
	"3:04:05 PM",
	"3:04 PM",
}

func parseClock(s string, loc *time.Location) (time.Time, bool) {
	s = strings.ToUpper(s)
	for _, layout := range clockLayouts {
		c, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc), true
	}
	return time.Time{}, false
}

// numeric reports whether v is a number or a numeric string, returning its
// decimal form.
func numeric(v Value) (decimal.Decimal, bool) {
	switch v.Kind {
	case KindInt:
		return decimal.NewFromInt(v.Int), true
	case KindFloat:
		if math.IsNaN(v.Flt) || math.IsInf(v.Flt, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(v.Flt), true
	case KindString:
		s := strings.TrimSpace(v.Str)
		s = strings.TrimPrefix(s, "+")
		if s == "" || !startsNumeric(s) {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}

// startsNumeric rejects strings decimal would accept but are not plain
// numbers, such as a leading exponent.
func startsNumeric(s string) bool {
	if s[0] == '-' {
		s = s[1:]
	}
	return s != "" && (isDigit(s[0]) || (s[0] == '.' && len(s) > 1 && isDigit(s[1])))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
