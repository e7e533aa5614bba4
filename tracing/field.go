// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"fmt"
	"math"
	"time"
)

// ErrorKey is the conventional field key for recorded errors.
const ErrorKey = "error"

type fieldKind uint8

const (
	kindAny fieldKind = iota
	kindBool
	kindInt64
	kindUint64
	kindFloat64
	kindString
	kindError
	kindStringer
)

// Field is a single structured key/value pair attached to a span or event.
// The zero value is a field with an empty key and a nil value.
type Field struct {
	Key string

	kind  fieldKind
	num   uint64
	str   string
	iface interface{}
}

// Visitor receives the typed values of fields, one callback per value kind.
// VisitAny is the fallback for values with no first-class representation.
type Visitor interface {
	VisitBool(key string, value bool)
	VisitInt64(key string, value int64)
	VisitUint64(key string, value uint64)
	VisitFloat64(key string, value float64)
	VisitString(key string, value string)
	VisitError(key string, value error)
	VisitAny(key string, value interface{})
}

// Visit dispatches this field's value to the appropriate Visitor callback.
func (f Field) Visit(v Visitor) {
	switch f.kind {
	case kindBool:
		v.VisitBool(f.Key, f.num != 0)
	case kindInt64:
		v.VisitInt64(f.Key, int64(f.num))
	case kindUint64:
		v.VisitUint64(f.Key, f.num)
	case kindFloat64:
		v.VisitFloat64(f.Key, math.Float64frombits(f.num))
	case kindString:
		v.VisitString(f.Key, f.str)
	case kindError:
		err, _ := f.iface.(error)
		v.VisitError(f.Key, err)
	case kindStringer:
		s, _ := f.iface.(fmt.Stringer)
		v.VisitString(f.Key, stringerValue(s))
	default:
		v.VisitAny(f.Key, f.iface)
	}
}

// Value returns the field's value as an interface{}.
func (f Field) Value() interface{} {
	switch f.kind {
	case kindBool:
		return f.num != 0
	case kindInt64:
		return int64(f.num)
	case kindUint64:
		return f.num
	case kindFloat64:
		return math.Float64frombits(f.num)
	case kindString:
		return f.str
	case kindStringer:
		s, _ := f.iface.(fmt.Stringer)
		return stringerValue(s)
	default:
		return f.iface
	}
}

func stringerValue(s fmt.Stringer) string {
	if s == nil {
		return ""
	}

	return s.String()
}

func Bool(key string, value bool) Field {
	var num uint64
	if value {
		num = 1
	}

	return Field{Key: key, kind: kindBool, num: num}
}

func Int(key string, value int) Field {
	return Int64(key, int64(value))
}

func Int64(key string, value int64) Field {
	return Field{Key: key, kind: kindInt64, num: uint64(value)}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, kind: kindUint64, num: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, kind: kindFloat64, num: math.Float64bits(value)}
}

func String(key, value string) Field {
	return Field{Key: key, kind: kindString, str: value}
}

// Stringer defers rendering of the value until the field is visited.
func Stringer(key string, value fmt.Stringer) Field {
	return Field{Key: key, kind: kindStringer, iface: value}
}

// Err produces a field under ErrorKey.  A nil error produces a field whose
// value is nil.
func Err(value error) Field {
	if value == nil {
		return Field{Key: ErrorKey}
	}

	return Field{Key: ErrorKey, kind: kindError, iface: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, kind: kindStringer, iface: value}
}

// Any stores an arbitrary value.  Values with first-class constructors are
// normalized to their typed representations.
func Any(key string, value interface{}) Field {
	switch v := value.(type) {
	case bool:
		return Bool(key, v)
	case int:
		return Int(key, v)
	case int64:
		return Int64(key, v)
	case uint64:
		return Uint64(key, v)
	case float64:
		return Float64(key, v)
	case string:
		return String(key, v)
	case error:
		return Field{Key: key, kind: kindError, iface: v}
	case fmt.Stringer:
		return Stringer(key, v)
	default:
		return Field{Key: key, kind: kindAny, iface: value}
	}
}

// Keyvals flattens fields into alternating key/value pairs suitable for
// passing to a go-kit Logger.
func Keyvals(fields []Field) []interface{} {
	keyvals := make([]interface{}, 0, 2*len(fields))
	for _, f := range fields {
		keyvals = append(keyvals, f.Key, f.Value())
	}

	return keyvals
}
