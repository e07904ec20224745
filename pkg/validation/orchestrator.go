package validation

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/validkit/pkg/logger"
)

// Failures maps parameter names to their failure stores. ValidateAll returns a
// nil Failures when every parameter passed.
type Failures map[string]*Results

// Has reports whether parameter has failures.
func (f Failures) Has(parameter string) bool {
	return f[parameter].HasFailures()
}

// Get returns the failures of parameter, or nil.
func (f Failures) Get(parameter string) *Results {
	return f[parameter]
}

// Parameters returns the sorted names of the failing parameters.
func (f Failures) Parameters() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Paths returns every failing dotted path across parameters, sorted.
func (f Failures) Paths() []string {
	var paths []string
	for _, res := range f {
		paths = append(paths, res.Paths()...)
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}

// Lookup returns the failures at a dotted path such as "item.tag". The first
// segment selects the parameter.
func (f Failures) Lookup(path string) []Outcome {
	name := path
	if i := strings.IndexAny(path, ".["); i >= 0 {
		name = path[:i]
	}
	return f[name].Lookup(path)
}

// Len returns the total number of failures.
func (f Failures) Len() int {
	n := 0
	for _, res := range f {
		n += res.Len()
	}
	return n
}

func (f Failures) Error() string {
	if len(f) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(f))
	for _, name := range f.Parameters() {
		parts = append(parts, strings.TrimPrefix(f[name].Error(), "validation failed: "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ParameterSet is the orchestrator of a multi-parameter operation.
type ParameterSet struct {
	validator *Validator
	params    map[string]*Parameter
	names     []string
}

// NewParameterSet builds one Parameter per spec. Duplicate names are a configuration fault.
func NewParameterSet(v *Validator, specs ...ParameterSpec) (*ParameterSet, error) {
	if v == nil {
		return nil, configFault(ErrNilValidator, "validation.NewParameterSet")
	}

	s := &ParameterSet{
		validator: v,
		params:    make(map[string]*Parameter, len(specs)),
		names:     make([]string, 0, len(specs)),
	}
	for _, spec := range specs {
		if _, exists := s.params[spec.Name]; exists {
			return nil, configFault(ErrDuplicateParameter, "parameter %q", spec.Name)
		}
		p, err := v.Parameter(spec)
		if err != nil {
			return nil, err
		}
		s.params[spec.Name] = p
		s.names = append(s.names, spec.Name)
	}
	return s, nil
}

// Parameter returns the metadata of the named parameter.
func (s *ParameterSet) Parameter(name string) (*Parameter, bool) {
	p, ok := s.params[name]
	return p, ok
}

// Names returns parameter names in declaration order.
func (s *ParameterSet) Names() []string {
	return slices.Clone(s.names)
}

// ValidateAll validates each entry of args with its parameter. Parameters run
// concurrently (bounded by WithConcurrency) and each owns its own store until
// the final keyed merge. It returns nil Failures when nothing failed.
//
// Unknown names, type mismatches and rejected async rules abort the whole call
// with a configuration fault. Cancellation aborts with ErrCanceled. In both
// cases no partial Failures are returned.
func (s *ParameterSet) ValidateAll(ctx context.Context, args map[string]any) (Failures, error) {
	start := time.Now()
	ctx, span := s.validator.tracer.Start(ctx, "validation.ValidateAll",
		trace.WithAttributes(attribute.Int("validation.arguments", len(args))))
	defer span.End()

	failures, err := s.validateAll(ctx, args)
	s.finish(ctx, span, start, failures, err)
	return failures, err
}

func (s *ParameterSet) validateAll(ctx context.Context, args map[string]any) (Failures, error) {
	names, err := s.resolve(args)
	if err != nil {
		return nil, err
	}

	results := make([]*Results, len(names))
	g, gctx := errgroup.WithContext(ctx)
	if s.validator.concurrency > 0 {
		g.SetLimit(s.validator.concurrency)
	}
	for i, name := range names {
		g.Go(func() error {
			res, err := s.validateParameter(gctx, s.params[name], args[name])
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}
	return collect(names, results), nil
}

func (s *ParameterSet) validateParameter(ctx context.Context, p *Parameter, value any) (*Results, error) {
	ctx, span := s.validator.tracer.Start(ctx, "validation.Parameter",
		trace.WithAttributes(attribute.String("validation.parameter", p.name)))
	defer span.End()

	res, err := p.Validate(ctx, value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("validation.failures", res.Len()))
	return res, nil
}

// ValidateAllSync is the synchronous-only form of ValidateAll. Parameters are
// validated one after another on the calling goroutine.
func (s *ParameterSet) ValidateAllSync(args map[string]any) (Failures, error) {
	start := time.Now()
	failures, err := s.validateAllSync(args)
	s.finish(context.Background(), nil, start, failures, err)
	return failures, err
}

func (s *ParameterSet) validateAllSync(args map[string]any) (Failures, error) {
	names, err := s.resolve(args)
	if err != nil {
		return nil, err
	}
	results := make([]*Results, len(names))
	for i, name := range names {
		res, err := s.params[name].ValidateSync(args[name])
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return collect(names, results), nil
}

// resolve checks every argument name up front so unknown names fail before any work starts.
func (s *ParameterSet) resolve(args map[string]any) ([]string, error) {
	names := make([]string, 0, len(args))
	for name := range args {
		if _, ok := s.params[name]; !ok {
			return nil, configFault(ErrUnknownParameter, "argument %q", name)
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func collect(names []string, results []*Results) Failures {
	var failures Failures
	for i, res := range results {
		if res.IsEmpty() {
			continue
		}
		if failures == nil {
			failures = make(Failures)
		}
		failures[names[i]] = res
	}
	return failures
}

func (s *ParameterSet) finish(ctx context.Context, span trace.Span, start time.Time, failures Failures, err error) {
	elapsed := time.Since(start)
	log := s.validator.logger

	switch {
	case IsCanceled(err):
		s.validator.metrics.observeRun(outcomeCanceled, elapsed)
		log.DebugContext(ctx, "validation canceled", logger.Duration(elapsed), logger.Error(err))
	case err != nil:
		s.validator.metrics.observeRun(outcomeFault, elapsed)
		log.WarnContext(ctx, "validation aborted by configuration fault", logger.Duration(elapsed), logger.Error(err))
	case failures != nil:
		s.validator.metrics.observeRun(outcomeFailed, elapsed)
		for name, res := range failures {
			s.validator.metrics.addFailures(name, res.Len())
		}
		log.DebugContext(ctx, "validation failed", logger.Duration(elapsed), logger.FailureCount(failures.Len()))
	default:
		s.validator.metrics.observeRun(outcomePassed, elapsed)
		log.DebugContext(ctx, "validation passed", logger.Duration(elapsed))
	}

	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("validation.failures", failures.Len()))
}
