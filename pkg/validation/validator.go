package validation

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dmitrymomot/validkit/pkg/logger"
)

const tracerName = "github.com/dmitrymomot/validkit/pkg/validation"

// Validator is the object-graph validator. It holds no per-call state: the
// visited set and the result store live in a run created for each call, so a
// Validator is safe for concurrent use.
type Validator struct {
	discovery   Discovery
	skip        SkipFunc
	policy      AsyncPolicy
	policySet   bool
	maxDepth    int
	concurrency int
	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer

	types sync.Map // reflect.Type -> *typeInfo
}

// Option configures a Validator.
type Option func(*Validator)

// WithAsyncPolicy fixes the async compatibility policy of the validator,
// overriding the process-wide default.
func WithAsyncPolicy(p AsyncPolicy) Option {
	return func(v *Validator) {
		v.policy = p
		v.policySet = true
	}
}

// WithMaxDepth limits object-graph nesting. Exceeding it is a configuration fault.
// Non-positive values mean unlimited.
func WithMaxDepth(depth int) Option {
	return func(v *Validator) { v.maxDepth = max(depth, 0) }
}

// WithConcurrency bounds how many parameters ValidateAll validates in parallel.
// Non-positive values mean unbounded.
func WithConcurrency(n int) Option {
	return func(v *Validator) { v.concurrency = max(n, 0) }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

// WithTracer sets the OpenTelemetry tracer. A nil tracer is ignored.
func WithTracer(t trace.Tracer) Option {
	return func(v *Validator) {
		if t != nil {
			v.tracer = t
		}
	}
}

// WithConfig applies a loaded Config: its policy, depth limit and concurrency.
func WithConfig(cfg Config) Option {
	return func(v *Validator) {
		WithAsyncPolicy(cfg.AsyncPolicy)(v)
		WithMaxDepth(cfg.MaxDepth)(v)
		WithConcurrency(cfg.Concurrency)(v)
	}
}

// New creates a Validator. Both collaborators are required: d supplies the
// rules of struct members and skip excludes special types from recursion.
func New(d Discovery, skip SkipFunc, opts ...Option) (*Validator, error) {
	if d == nil {
		return nil, configFault(ErrNilDiscovery, "validation.New")
	}
	if skip == nil {
		return nil, configFault(ErrNilSkipPredicate, "validation.New")
	}

	v := &Validator{
		discovery: d,
		skip:      skip,
		logger:    logger.Discard(),
		tracer:    noop.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.policySet && !v.policy.valid() {
		return nil, configFault(ErrInvalidAsyncPolicy, "validation.New: %s", v.policy)
	}
	v.logger = v.logger.With(logger.Component("validation"))
	return v, nil
}

// AsyncPolicy returns the policy applied on synchronous call paths.
func (v *Validator) AsyncPolicy() AsyncPolicy {
	if v.policySet {
		return v.policy
	}
	return DefaultAsyncPolicy()
}

// Validate walks root and every reachable member, awaiting asynchronous rules.
// Failures are returned as data; the error is non-nil only for configuration
// faults, rule evaluation errors and cancellation, in which case no store is returned.
// A struct root passed by value is validated as a copy distinct from any
// pointer to the original; pass a pointer for identity-sensitive graphs.
func (v *Validator) Validate(ctx context.Context, root any) (*Results, error) {
	return v.validate(ctx, true, "", root)
}

// ValidateSync is the synchronous-only call path. Asynchronous rules are handled
// according to AsyncPolicy.
func (v *Validator) ValidateSync(root any) (*Results, error) {
	return v.validate(context.Background(), false, "", root)
}

func (v *Validator) validate(ctx context.Context, async bool, label string, root any) (*Results, error) {
	r := v.newRun(ctx, async)
	if root == nil {
		return r.results, nil
	}

	var path []string
	if label != "" {
		path = []string{label}
	}
	if err := r.walk(reflect.ValueOf(root), path, 0); err != nil {
		return nil, err
	}
	if async {
		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}
	}
	return r.results, nil
}

func (v *Validator) newRun(ctx context.Context, async bool) *run {
	return &run{
		v:       v,
		ctx:     ctx,
		async:   async,
		policy:  v.AsyncPolicy(),
		results: newResults(),
		visited: make(map[visitKey]struct{}),
	}
}

// typeInfo returns the cached descriptors of struct type t.
// Discovery errors are not cached.
func (v *Validator) typeInfo(t reflect.Type) (*typeInfo, error) {
	if cached, ok := v.types.Load(t); ok {
		return cached.(*typeInfo), nil
	}
	info, err := describe(v.discovery, t)
	if err != nil {
		return nil, err
	}
	actual, _ := v.types.LoadOrStore(t, info)
	return actual.(*typeInfo), nil
}
