package db

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ValueKind is the storage class of a cell.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindReal
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a single cell. Only the field matching Kind is meaningful.
type Value struct {
	Kind ValueKind
	Int  int64
	Real float64
	Text string
}

func Null() Value { return Value{Kind: KindNull} }

func Integer(v int64) Value { return Value{Kind: KindInteger, Int: v} }

func Real(v float64) Value { return Value{Kind: KindReal, Real: v} }

func Text(v string) Value { return Value{Kind: KindText, Text: v} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

// Arg returns the value in the form database/sql binds.
func (v Value) Arg() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindReal:
		return v.Real
	case KindText:
		return v.Text
	default:
		return nil
	}
}

// String renders the value the way it is written to CSV. NULL is empty.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

// MarshalJSON encodes integers and reals as numbers, text as strings and
// NULL as null. Non-finite reals cannot be represented.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInteger:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case KindReal:
		if math.IsNaN(v.Real) || math.IsInf(v.Real, 0) {
			return nil, fmt.Errorf("real value %v has no JSON form", v.Real)
		}
		return json.Marshal(v.Real)
	case KindText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// blobMode selects how blobs that are not UTF-8 text are read.
type blobMode int

const (
	blobStrict blobMode = iota // fail, the value has no text form
	blobHex                    // render as an X'..' literal for display
)

const (
	sqliteDateLayout = "2006-01-02"
	sqliteTimeLayout = "2006-01-02 15:04:05.999999999"
)

// valueFromColumn converts what the sqlite driver scanned into a Value.
// declType is the column's declared type, used to render parsed dates.
func valueFromColumn(src any, declType string, blobs blobMode) (Value, error) {
	switch v := src.(type) {
	case nil:
		return Null(), nil
	case int64:
		return Integer(v), nil
	case float64:
		return Real(v), nil
	case string:
		return Text(v), nil
	case []byte:
		if utf8.Valid(v) {
			return Text(string(v)), nil
		}
		if blobs == blobHex {
			return Text(fmt.Sprintf("X'%X'", v)), nil
		}
		return Value{}, fmt.Errorf("blob of %d bytes is not valid UTF-8", len(v))
	case time.Time:
		return Text(formatTime(v, declType)), nil
	case bool:
		if v {
			return Integer(1), nil
		}
		return Integer(0), nil
	default:
		return Value{}, fmt.Errorf("unsupported column value of type %T", v)
	}
}

// formatTime renders a time the driver parsed out of a DATE, DATETIME or
// TIMESTAMP column back into SQLite's text layout. Fractional seconds and
// the zone offset appear only when the value carries them.
func formatTime(t time.Time, declType string) string {
	utc := t.Location() == time.UTC
	midnight := t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
	if utc && midnight && strings.EqualFold(strings.TrimSpace(declType), "DATE") {
		return t.Format(sqliteDateLayout)
	}
	layout := sqliteTimeLayout
	if !utc {
		layout += "-07:00"
	}
	return t.Format(layout)
}

// Record is one row: column names and values in matching order.
type Record struct {
	Keys   []string
	Values []Value
}

// Len returns the number of columns in the record.
func (r Record) Len() int {
	return len(r.Keys)
}

// Get returns the value stored under key.
func (r Record) Get(key string) (Value, bool) {
	for i, k := range r.Keys {
		if k == key {
			return r.Values[i], true
		}
	}
	return Value{}, false
}

// Set appends key or overwrites its existing value.
func (r *Record) Set(key string, v Value) {
	for i, k := range r.Keys {
		if k == key {
			r.Values[i] = v
			return
		}
	}
	r.Keys = append(r.Keys, key)
	r.Values = append(r.Values, v)
}

// Args returns the values as bind parameters, in key order.
func (r Record) Args() []any {
	args := make([]any, len(r.Values))
	for i, v := range r.Values {
		args[i] = v.Arg()
	}
	return args
}

// sameKeys reports whether r has exactly the keys of other, in the same order.
func (r Record) sameKeys(other Record) bool {
	if len(r.Keys) != len(other.Keys) {
		return false
	}
	for i, k := range r.Keys {
		if other.Keys[i] != k {
			return false
		}
	}
	return true
}

// MarshalJSON writes the record as an object whose key order follows Keys.
func (r Record) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range r.Keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := r.Values[i].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", k, err)
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}
