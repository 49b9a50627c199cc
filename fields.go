package parseable

import (
	"fmt"
	"time"
)

// FieldType selects which member of Field holds the value.
type FieldType uint8

const (
	UnknownType FieldType = iota
	StringType
	Int64Type
	Uint64Type
	Float64Type
	BoolType
	DurationType
	ErrorType
	StringerType
	AnyType
)

// Field is one key/value attached to a log entry. Scalars live inline so the
// typed constructors do not allocate; only Any, Uint64, Stringer and errors
// box through Interface.
type Field struct {
	Key       string
	Type      FieldType
	Integer   int64
	StringVal string
	Float     float64
	Interface any
}

// F picks the typed constructor matching value's dynamic type. An error is
// stored under key rather than "error", unlike Err.
func F(key string, value any) Field {
	switch v := value.(type) {
	case string:
		return String(key, v)
	case int:
		return Int(key, v)
	case int32:
		return Int64(key, int64(v))
	case int64:
		return Int64(key, v)
	case uint64:
		return Uint64(key, v)
	case float64:
		return Float64(key, v)
	case bool:
		return Bool(key, v)
	case time.Duration:
		return Duration(key, v)
	case error:
		return NamedErr(key, v)
	case fmt.Stringer:
		return Stringer(key, v)
	default:
		return Field{Key: key, Type: AnyType, Interface: value}
	}
}

func String(key, value string) Field {
	return Field{Key: key, Type: StringType, StringVal: value}
}

// Int stores value as an int64.
func Int(key string, value int) Field {
	return Field{Key: key, Type: Int64Type, Integer: int64(value)}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Type: Int64Type, Integer: value}
}

// Uint64 keeps the full unsigned range; it is not folded into Integer.
func Uint64(key string, value uint64) Field {
	return Field{Key: key, Type: Uint64Type, Interface: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Type: Float64Type, Float: value}
}

func Bool(key string, value bool) Field {
	var i int64
	if value {
		i = 1
	}
	return Field{Key: key, Type: BoolType, Integer: i}
}

// Duration is encoded the way the zap encoder renders durations.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Type: DurationType, Integer: int64(value)}
}

// Stringer creates a field rendered with value.String() at encode time.
func Stringer(key string, value fmt.Stringer) Field {
	return Field{Key: key, Type: StringerType, Interface: value}
}

// Err is NamedErr("error", err).
func Err(err error) Field {
	return NamedErr("error", err)
}

// NamedErr stores err under key. A nil err yields a null value, not a panic.
func NamedErr(key string, err error) Field {
	if err == nil {
		return Field{Key: key, Type: AnyType, Interface: nil}
	}
	return Field{Key: key, Type: ErrorType, Interface: err}
}
