package rules

import (
	"reflect"
	"unicode/utf8"
)

// Numeric is the constraint accepted by the numeric rules.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// indirect dereferences pointers and interfaces. The result is invalid for nil.
func indirect(value any) reflect.Value {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// length returns the rune count of strings and the element count of collections.
func length(value any) (int, bool) {
	v := indirect(value)
	switch v.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(v.String()), true
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return v.Len(), true
	default:
		return 0, false
	}
}

func number(value any) (float64, bool) {
	v := indirect(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

func text(value any) (string, bool) {
	v := indirect(value)
	if v.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}
