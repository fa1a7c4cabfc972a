package core

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Type is the semantic tag a caller attaches to a value to select its SQL
// literal formatting rule.
type Type int

const (
	TypeText Type = iota
	TypeEnum
	TypeNumber
	TypeDouble
	TypeBoolean
	TypeYN
	TypeTF
	TypeDate
	TypeDateTime
	TypeTime
	TypeNull
)

var typeNames = map[string]Type{
	"text":     TypeText,
	"string":   TypeText,
	"varchar":  TypeText,
	"char":     TypeText,
	"enum":     TypeEnum,
	"number":   TypeNumber,
	"integer":  TypeNumber,
	"int":      TypeNumber,
	"double":   TypeDouble,
	"float":    TypeDouble,
	"boolean":  TypeBoolean,
	"bool":     TypeBoolean,
	"bit":      TypeBoolean,
	"y-n":      TypeYN,
	"t-f":      TypeTF,
	"date":     TypeDate,
	"datetime": TypeDateTime,
	"time":     TypeTime,
	"null":     TypeNull,
}

// ParseType resolves a declared type name. Matching is case-insensitive and
// ignores surrounding whitespace.
func ParseType(name string) (Type, error) {
	t, ok := typeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidType, name)
	}
	return t, nil
}

func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeEnum:
		return "enum"
	case TypeNumber:
		return "number"
	case TypeDouble:
		return "double"
	case TypeBoolean:
		return "boolean"
	case TypeYN:
		return "y-n"
	case TypeTF:
		return "t-f"
	case TypeDate:
		return "date"
	case TypeDateTime:
		return "datetime"
	case TypeTime:
		return "time"
	case TypeNull:
		return "null"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Kind records the native shape a Value was constructed from.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// Value is an input value tagged with its native kind. The kind decides
// whether an empty text value becomes '' (it was an empty string) or NULL
// (it was absent or some other type that stringifies to nothing).
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Flt  float64
	Bool bool
}

// Null returns the absent value.
func Null() Value { return Value{Kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{Kind: KindFloat, Flt: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// ValueOf wraps an arbitrary Go value. A Value passes through unchanged.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return unsigned(uint64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return unsigned(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case time.Time:
		return String(x.Format(layoutDateTime))
	case fmt.Stringer:
		return String(x.String())
	}
	return String(fmt.Sprintf("%v", v))
}

// unsigned keeps values past the int64 range exact by carrying them as
// numeric text.
func unsigned(x uint64) Value {
	if x > math.MaxInt64 {
		return String(strconv.FormatUint(x, 10))
	}
	return Int(int64(x))
}

// Text stringifies the value the way a loosely typed runtime would: null and
// false become "", true becomes "1".
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Flt)
	case KindBool:
		if v.Bool {
			return "1"
		}
		return ""
	}
	return ""
}

// IsEmpty reports whether the value counts as empty: null, false, zero
// numbers, "" and "0".
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return v.Str == "" || v.Str == "0"
	case KindInt:
		return v.Int == 0
	case KindFloat:
		return v.Flt == 0
	case KindBool:
		return !v.Bool
	}
	return true
}

// NativeType returns the declared type implied by the value's kind.
func (v Value) NativeType() Type {
	switch v.Kind {
	case KindString:
		return TypeText
	case KindInt:
		return TypeNumber
	case KindFloat:
		return TypeDouble
	case KindBool:
		return TypeBoolean
	}
	return TypeNull
}

// Field is one entry of an ordered column to literal mapping. Keyed entries
// render as `key` = literal; positional entries are inserted verbatim.
type Field struct {
	Key        string
	Value      Value
	Positional bool
}

// Fields is an ordered column to literal mapping. Values are expected to be
// SQL ready already (quoted strings, formatted dates).
type Fields []Field

// F builds a keyed entry.
func F(key string, literal any) Field {
	return Field{Key: key, Value: ValueOf(literal)}
}

// Expr builds a positional entry holding a hand-written SQL fragment.
func Expr(fragment any) Field {
	return Field{Value: ValueOf(fragment), Positional: true}
}

// Column is one entry of a column list. A non-empty Alias is rendered as
// AS "alias" when aliases are enabled.
type Column struct {
	Alias string
	Name  string
}

// Columns is an ordered column list.
type Columns []Column

// Cols builds an unaliased column list.
func Cols(names ...string) Columns {
	cols := make(Columns, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n}
	}
	return cols
}

var limitPattern = regexp.MustCompile(`^[0-9, ]*$`)

// Limit is the text of a LIMIT clause. Only digits, commas and spaces are
// accepted so the text can be embedded verbatim.
type Limit string

// LimitN limits the result to n rows.
func LimitN(n int) Limit { return Limit(strconv.Itoa(n)) }

// LimitRange skips offset rows and returns at most count rows.
func LimitRange(offset, count int) Limit {
	return Limit(strconv.Itoa(offset) + ", " + strconv.Itoa(count))
}

// Validate checks the limit against the accepted character set.
func (l Limit) Validate() error {
	if !limitPattern.MatchString(string(l)) {
		return ErrInvalidLimit
	}
	return nil
}

// Selection describes the optional parts of a SELECT statement.
//
// Where accepts a verbatim string or Fields. Columns and Sort accept a single
// column string, a []string or Columns. Sort entries may carry a leading + or
// - to pick the direction.
type Selection struct {
	Where   any
	Columns any
	Sort    any
	Limit   Limit
}

// ResultType selects the shape of rows returned by the array accessors.
type ResultType int

const (
	// Assoc keys values by column name.
	Assoc ResultType = iota
	// Num keys values by column position ("0", "1", ...).
	Num
	// Both carries both key sets.
	Both
)

// Row represents a single record/row of data retrieved from the database.
type Row map[string]any
