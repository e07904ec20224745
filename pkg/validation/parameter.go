package validation

import (
	"context"
	"reflect"
	"slices"
)

// ParameterSpec declares one named input of an operation.
type ParameterSpec struct {
	Name        string
	Type        reflect.Type
	DisplayName string
	Rules       []*Rule
}

// Param declares a parameter of type T. A struct argument passed by value is
// a copy with its own identity, so a graph that refers back to the original
// is walked twice; declare a pointer type for identity-sensitive graphs.
func Param[T any](name string, rules ...*Rule) ParameterSpec {
	return ParamOf(name, reflect.TypeFor[T](), rules...)
}

// ParamOf declares a parameter of a type known only at runtime.
func ParamOf(name string, t reflect.Type, rules ...*Rule) ParameterSpec {
	return ParameterSpec{Name: name, Type: t, Rules: rules}
}

// WithDisplayName returns a copy of the spec with a display name for message formatting.
func (s ParameterSpec) WithDisplayName(name string) ParameterSpec {
	s.DisplayName = name
	return s
}

// Parameter is the validation metadata of one named input.
type Parameter struct {
	name        string
	displayName string
	typ         reflect.Type
	required    *Rule
	rules       []*Rule
	validator   *Validator
}

// Parameter builds the validation metadata for spec.
func (v *Validator) Parameter(spec ParameterSpec) (*Parameter, error) {
	if spec.Name == "" {
		return nil, configFault(ErrEmptyParameterName, "parameter of type %v", spec.Type)
	}
	if spec.Type == nil {
		return nil, configFault(ErrMissingParameterType, "parameter %q", spec.Name)
	}
	required, rules := splitRequired(spec.Rules)
	return &Parameter{
		name:        spec.Name,
		displayName: spec.DisplayName,
		typ:         spec.Type,
		required:    required,
		rules:       rules,
		validator:   v,
	}, nil
}

func (p *Parameter) Name() string        { return p.name }
func (p *Parameter) DisplayName() string { return p.displayName }
func (p *Parameter) Type() reflect.Type  { return p.typ }

// RequiredRule returns the presence rule, or nil.
func (p *Parameter) RequiredRule() *Rule { return p.required }

// Rules returns the attached rules other than the presence rule.
func (p *Parameter) Rules() []*Rule { return slices.Clone(p.rules) }

// Validate checks value against the parameter: the presence rule when value is
// absent, otherwise the attached rules followed by a full object-graph walk of
// value. It returns nil when nothing failed.
func (p *Parameter) Validate(ctx context.Context, value any) (*Results, error) {
	return p.validate(ctx, true, value)
}

// ValidateSync is the synchronous-only form of Validate. Asynchronous rules are
// handled according to the validator's AsyncPolicy.
func (p *Parameter) ValidateSync(value any) (*Results, error) {
	return p.validate(context.Background(), false, value)
}

func (p *Parameter) validate(ctx context.Context, async bool, value any) (*Results, error) {
	if value != nil {
		if t := reflect.TypeOf(value); !t.AssignableTo(p.typ) {
			return nil, configFault(ErrTypeMismatch, "parameter %q declared %s, got %s", p.name, p.typ, t)
		}
	}

	r := p.validator.newRun(ctx, async)
	vc := Context{Member: p.name, DisplayName: p.displayName, Path: p.name}
	if err := r.evaluate(TopLevel(p.name), []string{p.name}, p.required, p.rules, vc, value); err != nil {
		return nil, err
	}

	if !isAbsent(value) {
		nested, err := p.validator.validate(ctx, async, p.name, value)
		if err != nil {
			return nil, err
		}
		r.results.merge(nested)
	}

	if r.results.IsEmpty() {
		return nil, nil
	}
	return r.results, nil
}
