package httpbind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/validkit/pkg/logger"
	"github.com/dmitrymomot/validkit/pkg/validation"
)

// DefaultMaxBodySize is the default maximum size of a JSON request body (1MB).
const DefaultMaxBodySize = 1 << 20

// BindRuleName names the rule carried by failures that come from converting
// request input, before any parameter rule ran.
const BindRuleName = "validation.bind"

var bindRule = validation.Sync(BindRuleName, func(validation.Context, any) validation.Verdict {
	return validation.Pass()
}, validation.WithMessage("has an invalid format"))

type sourceKind uint8

const (
	sourcePath sourceKind = iota + 1
	sourceQuery
	sourceForm
	sourceBody
)

func (k sourceKind) String() string {
	switch k {
	case sourcePath:
		return "path"
	case sourceQuery:
		return "query"
	case sourceForm:
		return "form"
	case sourceBody:
		return "body"
	}
	return "unknown"
}

// Binding maps one declared parameter to a part of the request.
type Binding struct {
	parameter string
	key       string
	source    sourceKind
}

// Path binds a parameter to the chi URL parameter of the same name.
func Path(parameter string) Binding {
	return Binding{parameter: parameter, key: parameter, source: sourcePath}
}

// Query binds a parameter to the query string value of the same name.
func Query(parameter string) Binding {
	return Binding{parameter: parameter, key: parameter, source: sourceQuery}
}

// Form binds a parameter to the url-encoded form value of the same name.
func Form(parameter string) Binding {
	return Binding{parameter: parameter, key: parameter, source: sourceForm}
}

// Body binds a parameter to the whole JSON request body.
func Body(parameter string) Binding { return Binding{parameter: parameter, source: sourceBody} }

// As returns a copy of the binding reading the request key instead of the
// parameter name. It has no effect on body bindings.
func (b Binding) As(key string) Binding {
	if b.source != sourceBody {
		b.key = key
	}
	return b
}

// Option configures a Binder.
type Option func(*Binder)

// WithMaxBodySize limits the size of JSON request bodies.
func WithMaxBodySize(n int64) Option {
	return func(b *Binder) { b.maxBody = n }
}

// WithURLParam replaces chi.URLParam as the path parameter extractor.
func WithURLParam(fn func(r *http.Request, key string) string) Option {
	return func(b *Binder) {
		if fn != nil {
			b.urlParam = fn
		}
	}
}

// WithLogger sets the logger used for binding diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Binder converts HTTP requests into parameter bags and validates them.
type Binder struct {
	set      *validation.ParameterSet
	bindings []Binding
	maxBody  int64
	urlParam func(r *http.Request, key string) string
	logger   *slog.Logger
}

// New wires bindings to the parameters declared by set. Every binding must
// name a declared parameter whose type can be produced from its source.
// Parameters without a binding are not read from the request.
func New(set *validation.ParameterSet, bindings []Binding, opts ...Option) (*Binder, error) {
	if set == nil {
		return nil, errors.Join(validation.ErrConfiguration, ErrNilParameterSet)
	}

	b := &Binder{
		set:      set,
		bindings: bindings,
		maxBody:  DefaultMaxBodySize,
		urlParam: chi.URLParam,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxBody <= 0 {
		return nil, errors.Join(validation.ErrConfiguration, ErrInvalidBodyLimit)
	}

	seen := make(map[string]struct{}, len(bindings))
	bodies := 0
	for _, bd := range bindings {
		p, ok := set.Parameter(bd.parameter)
		if !ok {
			return nil, errors.Join(validation.ErrConfiguration, ErrUnknownParameter,
				fmt.Errorf("%s binding %q", bd.source, bd.parameter))
		}
		if _, dup := seen[bd.parameter]; dup {
			return nil, errors.Join(validation.ErrConfiguration, ErrDuplicateBinding,
				fmt.Errorf("parameter %q", bd.parameter))
		}
		seen[bd.parameter] = struct{}{}

		if bd.source == sourceBody {
			bodies++
			continue
		}
		if !bindable(p.Type()) {
			return nil, errors.Join(validation.ErrConfiguration, ErrUnsupportedType,
				fmt.Errorf("parameter %q of type %v from %s", bd.parameter, p.Type(), bd.source))
		}
	}
	if bodies > 1 {
		return nil, errors.Join(validation.ErrConfiguration, ErrMultipleBodies)
	}

	return b, nil
}

// Bind reads every bound parameter from r and validates the resulting bag.
// A value missing from the request is bound as absent, so only its required
// rule runs. Input that cannot be converted to the parameter's type is
// reported as a failure of the parameter under BindRuleName and its other
// rules are skipped. The returned error is a configuration fault or a
// canceled run, never a validation failure.
func (b *Binder) Bind(r *http.Request) (map[string]any, validation.Failures, error) {
	args := make(map[string]any, len(b.bindings))
	var rejected validation.Failures

	reject := func(name, reason string, extra map[string]any) {
		if rejected == nil {
			rejected = make(validation.Failures)
		}
		extra["reason"] = reason
		rejected[name] = validation.Reject(name, bindRule, "", extra)
		b.logger.DebugContext(r.Context(), "request value rejected",
			logger.Parameter(name),
			slog.String("reason", reason),
		)
	}

	for _, bd := range b.bindings {
		p, _ := b.set.Parameter(bd.parameter)

		if bd.source == sourceBody {
			value, err := b.decodeBody(r, p.Type())
			if err != nil {
				reject(bd.parameter, err.Error(), map[string]any{})
				continue
			}
			args[bd.parameter] = value
			continue
		}

		values, err := b.lookup(r, bd)
		if err != nil {
			reject(bd.parameter, err.Error(), map[string]any{})
			continue
		}
		if len(values) == 0 {
			args[bd.parameter] = nil
			continue
		}

		value, err := convert(p.Type(), values)
		if err != nil {
			reject(bd.parameter, err.Error(), map[string]any{"value": values[0]})
			continue
		}
		args[bd.parameter] = value
	}

	failures, err := b.set.ValidateAll(r.Context(), args)
	if err != nil {
		return nil, nil, err
	}

	for name, res := range rejected {
		if failures == nil {
			failures = make(validation.Failures, len(rejected))
		}
		failures[name] = res
	}
	return args, failures, nil
}

func (b *Binder) lookup(r *http.Request, bd Binding) ([]string, error) {
	switch bd.source {
	case sourcePath:
		if v := b.urlParam(r, bd.key); v != "" {
			return []string{v}, nil
		}
		return nil, nil
	case sourceQuery:
		return r.URL.Query()[bd.key], nil
	case sourceForm:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("malformed form data")
		}
		return r.PostForm[bd.key], nil
	}
	return nil, nil
}

// decodeBody strictly decodes a JSON body into a new value of type t.
// An empty body decodes as absent.
func (b *Binder) decodeBody(r *http.Request, t reflect.Type) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, b.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body")
	}
	if int64(len(body)) > b.maxBody {
		return nil, fmt.Errorf("request body too large (max %d bytes)", b.maxBody)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, fmt.Errorf("unsupported content type, expected application/json")
	}

	target := reflect.New(t)
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target.Interface()); err != nil {
		return nil, fmt.Errorf("malformed JSON body")
	}
	if dec.More() {
		return nil, fmt.Errorf("request body must contain a single JSON value")
	}
	return target.Elem().Interface(), nil
}
