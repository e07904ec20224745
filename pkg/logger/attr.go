package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Parameter records an operation parameter name under the key "parameter".
func Parameter(name string) slog.Attr {
	return slog.String("parameter", name)
}

// FieldPath records a dotted field path under the key "field_path".
func FieldPath(path string) slog.Attr {
	return slog.String("field_path", path)
}

// RuleName records a validation rule name under the key "rule".
func RuleName(name string) slog.Attr {
	return slog.String("rule", name)
}

// AsyncPolicy records the async compatibility policy under the key "async_policy".
func AsyncPolicy(policy any) slog.Attr {
	return slog.Any("async_policy", policy)
}

// FailureCount records the number of validation failures under the key "failures".
func FailureCount(n int) slog.Attr {
	return slog.Int("failures", n)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}
