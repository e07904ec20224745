package validation

import (
	"context"
	"maps"

	"github.com/dmitrymomot/validkit/pkg/async"
)

// Kind tags the evaluation entry point of a Rule.
type Kind uint8

const (
	// KindSync rules evaluate inline and return a Verdict immediately.
	KindSync Kind = iota + 1
	// KindAsync rules return a Future that the engine awaits.
	KindAsync
)

func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindAsync:
		return "async"
	default:
		return "unknown"
	}
}

// Context describes the member a rule is evaluated against.
type Context struct {
	// Member is the member name; empty for a bare top-level value.
	Member string
	// DisplayName is the optional human readable name of the member.
	DisplayName string
	// Owner is a pointer to the object that owns the member, nil for top-level values.
	// Cross-field rules read sibling members through it.
	Owner any
	// Path is the dotted path of the member, e.g. "order.items[0].sku".
	Path string
}

// Label returns DisplayName when set and Member otherwise.
func (c Context) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Member
}

// Verdict is what a rule reports for a single value.
type Verdict struct {
	Valid   bool
	Message string
	Args    map[string]any
}

// Pass reports a valid value.
func Pass() Verdict {
	return Verdict{Valid: true}
}

// Fail reports an invalid value. An empty message falls back to the rule's message.
func Fail(message string) Verdict {
	return Verdict{Message: message}
}

// Check converts a boolean check into a Verdict.
func Check(ok bool) Verdict {
	return Verdict{Valid: ok}
}

// With returns a copy of the verdict carrying an extra formatting argument.
func (v Verdict) With(key string, value any) Verdict {
	args := make(map[string]any, len(v.Args)+1)
	maps.Copy(args, v.Args)
	args[key] = value
	v.Args = args
	return v
}

// SyncFunc evaluates a value synchronously.
type SyncFunc func(vc Context, value any) Verdict

// AsyncFunc starts evaluation of a value and returns a Future settled with the verdict.
// The Future is the single suspension point of the rule; ctx carries cancellation.
type AsyncFunc func(ctx context.Context, vc Context, value any) *async.Future[Verdict]

// Rule is a pluggable check attached to a member. It is a tagged union over
// KindSync and KindAsync; exactly one of the evaluation functions is set.
// Rules are immutable after construction and safe for concurrent use.
type Rule struct {
	name     string
	message  string
	args     map[string]any
	required bool
	kind     Kind
	sync     SyncFunc
	async    AsyncFunc
}

// RuleOption configures a Rule at construction.
type RuleOption func(*Rule)

// AsRequired marks the rule as the presence rule of a member. It is the only
// rule evaluated when the member's value is absent.
func AsRequired() RuleOption {
	return func(r *Rule) { r.required = true }
}

// WithMessage sets the default failure message used when a verdict has none.
func WithMessage(message string) RuleOption {
	return func(r *Rule) { r.message = message }
}

// WithArgs attaches static formatting arguments (e.g. {"max": 5}) to every outcome of the rule.
func WithArgs(args map[string]any) RuleOption {
	return func(r *Rule) {
		if len(args) == 0 {
			return
		}
		if r.args == nil {
			r.args = make(map[string]any, len(args))
		}
		maps.Copy(r.args, args)
	}
}

// Sync creates a synchronous rule. name doubles as the translation key
// consumed by message formatters. Panics on a nil fn.
func Sync(name string, fn SyncFunc, opts ...RuleOption) *Rule {
	if fn == nil {
		panic("validation: nil SyncFunc for rule " + name)
	}
	return newRule(name, KindSync, opts, func(r *Rule) { r.sync = fn })
}

// Async creates an asynchronous rule. Panics on a nil fn.
func Async(name string, fn AsyncFunc, opts ...RuleOption) *Rule {
	if fn == nil {
		panic("validation: nil AsyncFunc for rule " + name)
	}
	return newRule(name, KindAsync, opts, func(r *Rule) { r.async = fn })
}

func newRule(name string, kind Kind, opts []RuleOption, set func(*Rule)) *Rule {
	r := &Rule{name: name, kind: kind, message: "is invalid"}
	set(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Rule) Name() string     { return r.name }
func (r *Rule) Kind() Kind       { return r.kind }
func (r *Rule) IsRequired() bool { return r.required }
func (r *Rule) Message() string  { return r.message }

// Args returns a copy of the rule's static formatting arguments.
func (r *Rule) Args() map[string]any {
	return maps.Clone(r.args)
}

func (r *Rule) String() string {
	return r.name + "(" + r.kind.String() + ")"
}

// splitRequired picks the first required rule of a member. Any later rule
// flagged as required is kept as an ordinary rule.
func splitRequired(rules []*Rule) (*Rule, []*Rule) {
	var required *Rule
	others := make([]*Rule, 0, len(rules))
	for _, r := range rules {
		if r == nil {
			continue
		}
		if required == nil && r.required {
			required = r
			continue
		}
		others = append(others, r)
	}
	return required, others
}
