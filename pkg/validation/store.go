package validation

import (
	"slices"
	"strings"
)

// Outcome is a single stored failure.
type Outcome struct {
	// Message is the verdict message or, when empty, the rule's default message.
	Message string
	// Path holds the member path segments, e.g. ["item", "tags", "[0]", "sku"].
	Path []string
	// Rule is the originating rule, kept for downstream message formatting.
	Rule *Rule
	// Args are formatting arguments: "field" plus rule and verdict arguments.
	Args map[string]any
}

// Key returns the fully qualified dotted field path of the outcome.
func (o Outcome) Key() string {
	return joinPath(o.Path)
}

// Results maps field identifiers to their ordered failures. Only failures are
// stored and an identifier is present only when it has at least one outcome.
// A nil *Results is a valid empty store.
type Results struct {
	entries map[FieldID]*entry
	order   []FieldID
}

type entry struct {
	path     string
	outcomes []Outcome
}

func newResults() *Results {
	return &Results{entries: make(map[FieldID]*entry)}
}

// Reject builds a store holding a single failure of the top-level value label.
// Collaborators that refuse input before validation runs, such as request
// binders, report through it so their failures format like rule failures.
// rule must not be nil; an empty message falls back to the rule's message.
func Reject(label string, rule *Rule, message string, args map[string]any) *Results {
	res := newResults()
	vc := Context{Member: label, Path: label}
	res.add(TopLevel(label), newOutcome([]string{label}, rule, vc, Verdict{Message: message, Args: args}))
	return res
}

func (r *Results) add(id FieldID, o Outcome) {
	e, ok := r.entries[id]
	if !ok {
		e = &entry{path: o.Key()}
		r.entries[id] = e
		r.order = append(r.order, id)
	}
	e.outcomes = append(e.outcomes, o)
}

// merge appends every outcome of other, keeping other's field order.
func (r *Results) merge(other *Results) {
	if other.IsEmpty() {
		return
	}
	for _, id := range other.order {
		for _, o := range other.entries[id].outcomes {
			r.add(id, o)
		}
	}
}

// Get returns the failures recorded for id in evaluation order.
func (r *Results) Get(id FieldID) []Outcome {
	if r == nil {
		return nil
	}
	if e, ok := r.entries[id]; ok {
		return slices.Clone(e.outcomes)
	}
	return nil
}

// Lookup returns the failures recorded at a dotted field path such as "item.tag".
func (r *Results) Lookup(path string) []Outcome {
	if r == nil {
		return nil
	}
	var out []Outcome
	for _, id := range r.order {
		if e := r.entries[id]; e.path == path {
			out = append(out, e.outcomes...)
		}
	}
	return out
}

// Has reports whether the dotted field path has at least one failure.
func (r *Results) Has(path string) bool {
	if r == nil {
		return false
	}
	for _, id := range r.order {
		if r.entries[id].path == path {
			return true
		}
	}
	return false
}

// Messages returns the failure messages recorded at a dotted field path.
func (r *Results) Messages(path string) []string {
	outcomes := r.Lookup(path)
	if len(outcomes) == 0 {
		return nil
	}
	msgs := make([]string, len(outcomes))
	for i, o := range outcomes {
		msgs[i] = o.Message
	}
	return msgs
}

// Fields returns the identifiers that have failures, in first-failure order.
func (r *Results) Fields() []FieldID {
	if r == nil {
		return nil
	}
	return slices.Clone(r.order)
}

// Paths returns the sorted, de-duplicated dotted paths that have failures.
func (r *Results) Paths() []string {
	if r == nil {
		return nil
	}
	paths := make([]string, 0, len(r.order))
	for _, id := range r.order {
		paths = append(paths, r.entries[id].path)
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}

// All returns every failure, grouped by field in first-failure order.
func (r *Results) All() []Outcome {
	if r == nil {
		return nil
	}
	out := make([]Outcome, 0, r.Len())
	for _, id := range r.order {
		out = append(out, r.entries[id].outcomes...)
	}
	return out
}

// Len returns the total number of failures.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, e := range r.entries {
		n += len(e.outcomes)
	}
	return n
}

func (r *Results) IsEmpty() bool {
	return r == nil || len(r.entries) == 0
}

// HasFailures is the negation of IsEmpty.
func (r *Results) HasFailures() bool {
	return !r.IsEmpty()
}

func (r *Results) Error() string {
	if r.IsEmpty() {
		return "validation failed"
	}
	parts := make([]string, 0, r.Len())
	for _, o := range r.All() {
		parts = append(parts, o.Key()+": "+o.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
