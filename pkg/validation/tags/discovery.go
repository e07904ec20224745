package tags

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

const (
	defaultRuleTag    = "validate"
	defaultNameTag    = "json"
	defaultDisplayTag = "display"
	hiddenTag         = "-"
)

// Discovery reads validation rules from struct tags. Built-in tags are
// executed by go-playground/validator; additional tags map to engine rules
// registered with WithRule. It implements validation.Discovery and is safe for
// concurrent use.
type Discovery struct {
	validate    *validator.Validate
	rules       map[string]*validation.Rule
	validations map[string]validator.Func
	ruleTag     string
	nameTag     string
	displayTag  string

	cache sync.Map // reflect.Type -> []validation.FieldDescriptor
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithRule maps tag to an engine rule, which may be asynchronous. Registered
// tags take precedence over go-playground/validator tags of the same name.
func WithRule(tag string, rule *validation.Rule) Option {
	return func(d *Discovery) { d.rules[tag] = rule }
}

// WithValidation registers a go-playground/validator function under tag.
func WithValidation(tag string, fn validator.Func) Option {
	return func(d *Discovery) { d.validations[tag] = fn }
}

// WithRuleTag changes the tag holding rules. Default "validate".
func WithRuleTag(name string) Option {
	return func(d *Discovery) { d.ruleTag = name }
}

// WithNameTag changes the tag whose first element names a member in field
// paths. Default "json"; members without it use the Go field name.
func WithNameTag(name string) Option {
	return func(d *Discovery) { d.nameTag = name }
}

// WithDisplayTag changes the tag holding a member's display name. Default "display".
func WithDisplayTag(name string) Option {
	return func(d *Discovery) { d.displayTag = name }
}

// New creates a Discovery. The rule registry is fixed once New returns.
func New(opts ...Option) (*Discovery, error) {
	d := &Discovery{
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		rules:       make(map[string]*validation.Rule),
		validations: make(map[string]validator.Func),
		ruleTag:     defaultRuleTag,
		nameTag:     defaultNameTag,
		displayTag:  defaultDisplayTag,
	}
	for _, opt := range opts {
		opt(d)
	}

	for tag, fn := range d.validations {
		if err := d.validate.RegisterValidation(tag, fn); err != nil {
			return nil, errors.Join(ErrRegisterValidation, fmt.Errorf("tag %q: %w", tag, err))
		}
	}
	for tag, rule := range d.rules {
		if rule == nil {
			return nil, fmt.Errorf("%w: nil rule for tag %q", ErrInvalidTag, tag)
		}
	}
	return d, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Discovery {
	d, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Describe returns the members of struct type t. Every exported member is
// returned unless its rule tag is "-", in which case neither the member nor
// anything promoted through it is validated. Tags are checked once per type:
// unknown tags and malformed parameters are reported here, not at validation time.
func (d *Discovery) Describe(t reflect.Type) ([]validation.FieldDescriptor, error) {
	if cached, ok := d.cache.Load(t); ok {
		return cached.([]validation.FieldDescriptor), nil
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	var (
		descs  []validation.FieldDescriptor
		hidden [][]int
	)
	for _, sf := range reflect.VisibleFields(t) {
		if hiddenBy(hidden, sf.Index) {
			continue
		}
		tag := sf.Tag.Get(d.ruleTag)
		if tag == hiddenTag {
			hidden = append(hidden, sf.Index)
			continue
		}
		if sf.Anonymous || !sf.IsExported() {
			continue
		}

		rules, err := d.parse(sf, tag)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, sf.Name, err)
		}
		descs = append(descs, validation.FieldDescriptor{
			Name:        d.memberName(sf),
			DisplayName: sf.Tag.Get(d.displayTag),
			Index:       slices.Clone(sf.Index),
			Rules:       rules,
		})
	}

	actual, _ := d.cache.LoadOrStore(t, descs)
	return actual.([]validation.FieldDescriptor), nil
}

func (d *Discovery) memberName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get(d.nameTag), ",")
	if name == "" || name == hiddenTag {
		return sf.Name
	}
	return name
}

// parse turns a rule tag into engine rules in tag order.
func (d *Discovery) parse(sf reflect.StructField, tag string) ([]*validation.Rule, error) {
	if tag == "" {
		return nil, nil
	}

	tokens := strings.Split(tag, ",")
	omitEmpty := slices.Contains(tokens, "omitempty")

	rules := make([]*validation.Rule, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		name, param, _ := strings.Cut(token, "=")

		switch name {
		case "", "omitempty", "omitnil":
			continue
		case "dive", "keys", "endkeys", "structonly", "nostructlevel":
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedTag, name)
		}
		if crossField(name) {
			return nil, fmt.Errorf("%w: %q compares sibling fields, use an engine rule reading Context.Owner", ErrUnsupportedTag, name)
		}

		if rule, ok := d.rules[name]; ok {
			if param != "" {
				return nil, fmt.Errorf("%w: %q takes no parameter", ErrInvalidTag, name)
			}
			rules = append(rules, rule)
			continue
		}

		if err := d.probe(sf.Type, token); err != nil {
			return nil, err
		}
		if name == "required" {
			rules = append(rules, d.requiredRule())
			continue
		}
		rules = append(rules, d.tagRule(name, param, token, omitEmpty))
	}
	return rules, nil
}

// probe runs token once against a nil and a zero value of t, turning
// go-playground/validator panics on unknown tags or bad parameters into errors.
// Struct and interface kinds are only parsed.
func (d *Discovery) probe(t reflect.Type, token string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			kind := ErrInvalidTag
			if strings.Contains(fmt.Sprint(r), "Undefined validation function") {
				kind = ErrUnknownTag
			}
			err = fmt.Errorf("%w: %q: %v", kind, token, r)
		}
	}()

	_ = d.validate.Var(nil, token)

	base := t
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	switch base.Kind() {
	case reflect.Struct, reflect.Interface:
		return nil
	}
	_ = d.validate.Var(reflect.Zero(base).Interface(), token)
	return nil
}

func (d *Discovery) requiredRule() *validation.Rule {
	return validation.Sync(ruleKey("required"), func(_ validation.Context, value any) validation.Verdict {
		if value == nil {
			return validation.Fail("")
		}
		return d.check(value, "required")
	}, validation.AsRequired(), validation.WithMessage(messageFor("required")))
}

func (d *Discovery) tagRule(name, param, token string, omitEmpty bool) *validation.Rule {
	opts := []validation.RuleOption{validation.WithMessage(messageFor(name))}
	if param != "" {
		opts = append(opts, validation.WithArgs(map[string]any{"param": param}))
	}
	return validation.Sync(ruleKey(name), func(_ validation.Context, value any) validation.Verdict {
		if omitEmpty && isEmpty(value) {
			return validation.Pass()
		}
		return d.check(value, token)
	}, opts...)
}

// check runs a go-playground tag expression. Values whose dynamic type the
// tag cannot handle fail instead of panicking.
func (d *Discovery) check(value any, token string) (verdict validation.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			verdict = validation.Fail("cannot be validated").With("reason", fmt.Sprint(r))
		}
	}()
	return validation.Check(d.validate.Var(value, token) == nil)
}

// Tags returns the names registered with WithRule, sorted.
func (d *Discovery) Tags() []string {
	return slices.Sorted(maps.Keys(d.rules))
}

// isEmpty mirrors go-playground's omitempty: pointers are dereferenced before
// the zero check.
func isEmpty(value any) bool {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	return !v.IsValid() || v.IsZero()
}

func crossField(name string) bool {
	return strings.HasSuffix(name, "field") ||
		strings.HasPrefix(name, "required_") ||
		strings.HasPrefix(name, "excluded_")
}

func hiddenBy(hidden [][]int, index []int) bool {
	for _, prefix := range hidden {
		if len(index) > len(prefix) && slices.Equal(index[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}
