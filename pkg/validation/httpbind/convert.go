package httpbind

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// bindable reports whether values of t can be produced from strings.
func bindable(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer:
		return bindable(t.Elem())
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Slice && bindable(t.Elem())
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Interface:
		return reflect.TypeFor[string]().AssignableTo(t)
	}
	return false
}

// convert builds a value of type t from raw request values.
func convert(t reflect.Type, values []string) (any, error) {
	v := reflect.New(t).Elem()
	if err := setValue(v, values); err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func setValue(v reflect.Value, values []string) error {
	t := v.Type()

	if reflect.PointerTo(t).Implements(textUnmarshalerType) && t.Kind() != reflect.Pointer {
		if len(values) == 0 {
			return nil
		}
		u := v.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(values[0])); err != nil {
			return fmt.Errorf("invalid %s value %q", t, values[0])
		}
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return setValue(v.Elem(), values)
	case reflect.Slice:
		return setSlice(v, values)
	}

	if len(values) == 0 {
		return nil
	}
	value := values[0]

	switch t.Kind() {
	case reflect.String:
		v.SetString(value)

	case reflect.Interface:
		v.Set(reflect.ValueOf(value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid integer value %q", value)
		}
		v.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer value %q", value)
		}
		v.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid number value %q", value)
		}
		v.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			switch strings.ToLower(value) {
			case "on", "yes":
				b = true
			case "off", "no", "":
				b = false
			default:
				return fmt.Errorf("invalid boolean value %q", value)
			}
		}
		v.SetBool(b)

	default:
		return fmt.Errorf("unsupported type %s", t)
	}

	return nil
}

// setSlice accepts repeated values as well as comma separated lists.
func setSlice(v reflect.Value, values []string) error {
	var all []string
	for _, s := range values {
		all = append(all, strings.Split(s, ",")...)
	}

	slice := reflect.MakeSlice(v.Type(), len(all), len(all))
	for i, s := range all {
		if err := setValue(slice.Index(i), []string{strings.TrimSpace(s)}); err != nil {
			return err
		}
	}
	v.Set(slice)
	return nil
}
