package validation

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is joined into every configuration fault so callers can
	// tell wiring defects apart from canceled runs.
	ErrConfiguration = errors.New("validation: configuration fault")

	ErrDuplicateParameter   = errors.New("validation: duplicate parameter name")
	ErrUnknownParameter     = errors.New("validation: unknown parameter")
	ErrEmptyParameterName   = errors.New("validation: parameter name is empty")
	ErrMissingParameterType = errors.New("validation: parameter has no declared type")
	ErrTypeMismatch         = errors.New("validation: value is not assignable to the declared type")
	ErrAsyncRuleInSyncPath  = errors.New("validation: asynchronous rule invoked from a synchronous call path")
	ErrNilDiscovery         = errors.New("validation: rule discovery is nil")
	ErrNilSkipPredicate     = errors.New("validation: skip predicate is nil")
	ErrNilValidator         = errors.New("validation: validator is nil")
	ErrDiscovery            = errors.New("validation: rule discovery failed")
	ErrMaxDepthExceeded     = errors.New("validation: maximum nesting depth exceeded")
	ErrInvalidAsyncPolicy   = errors.New("validation: invalid async policy")

	// ErrRuleEvaluation wraps an error returned by an asynchronous rule's future.
	ErrRuleEvaluation = errors.New("validation: rule evaluation failed")

	// ErrCanceled is joined with the context error when a run is abandoned.
	ErrCanceled = errors.New("validation: canceled")
)

func configFault(kind error, format string, args ...any) error {
	return errors.Join(ErrConfiguration, kind, fmt.Errorf(format, args...))
}

func canceled(cause error) error {
	return errors.Join(ErrCanceled, cause)
}

// IsConfigurationFault reports whether err is a wiring or setup defect.
func IsConfigurationFault(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsCanceled reports whether err reports an abandoned run.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// ExtractFailures returns the Failures carried by err, or nil.
func ExtractFailures(err error) Failures {
	if err == nil {
		return nil
	}
	var f Failures
	if errors.As(err, &f) {
		return f
	}
	return nil
}

// ExtractResults returns the *Results carried by err, or nil.
func ExtractResults(err error) *Results {
	if err == nil {
		return nil
	}
	var r *Results
	if errors.As(err, &r) {
		return r
	}
	return nil
}
