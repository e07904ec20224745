package validation

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"unsafe"

	"github.com/dmitrymomot/validkit/pkg/logger"
)

// run carries the state of a single validation call.
type run struct {
	v       *Validator
	ctx     context.Context
	async   bool
	policy  AsyncPolicy
	results *Results
	visited map[visitKey]struct{}
}

// visitKey is the identity of a reference in the cycle guard.
type visitKey struct {
	addr unsafe.Pointer
	typ  reflect.Type
	n    int
}

// enter marks a reference as visited and reports whether it was new.
func (r *run) enter(k visitKey) bool {
	if _, seen := r.visited[k]; seen {
		return false
	}
	r.visited[k] = struct{}{}
	return true
}

// interrupted observes cancellation on the context-aware path.
func (r *run) interrupted() error {
	if !r.async {
		return nil
	}
	if err := r.ctx.Err(); err != nil {
		return canceled(err)
	}
	return nil
}

// walk recursively validates the members of v.
func (r *run) walk(v reflect.Value, path []string, depth int) error {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() || r.v.skip(v.Type()) {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() || r.v.skip(v.Type()) {
		return nil
	}
	if r.v.maxDepth > 0 && depth > r.v.maxDepth {
		return configFault(ErrMaxDepthExceeded, "%q is nested deeper than %d", joinPath(path), r.v.maxDepth)
	}

	switch v.Kind() {
	case reflect.Struct:
		return r.walkStruct(addressable(v), path, depth)
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 || !composite(v.Type().Elem()) {
			return nil
		}
		if !r.enter(visitKey{addr: v.UnsafePointer(), typ: v.Type(), n: v.Len()}) {
			return nil
		}
		return r.walkElems(v, path, depth)
	case reflect.Array:
		if v.Len() == 0 || !composite(v.Type().Elem()) {
			return nil
		}
		return r.walkElems(v, path, depth)
	case reflect.Map:
		if v.IsNil() || v.Len() == 0 || !composite(v.Type().Elem()) {
			return nil
		}
		if !r.enter(visitKey{addr: v.UnsafePointer(), typ: v.Type()}) {
			return nil
		}
		return r.walkMap(v, path, depth)
	default:
		return nil
	}
}

func (r *run) walkStruct(v reflect.Value, path []string, depth int) error {
	if !r.enter(visitKey{addr: v.Addr().UnsafePointer(), typ: v.Type()}) {
		return nil
	}
	if err := r.interrupted(); err != nil {
		return err
	}

	info, err := r.v.typeInfo(v.Type())
	if err != nil {
		return err
	}

	owner := v.Addr().Interface()
	for _, f := range info.fields {
		fv, err := v.FieldByIndexErr(f.Index)
		if err != nil {
			// nil embedded pointer: the promoted member is absent
			fv = reflect.Value{}
		} else if !fv.CanInterface() {
			return configFault(ErrDiscovery, "%s.%s is not accessible", v.Type(), f.Name)
		}

		fpath := extend(path, f.Name)
		vc := Context{Member: f.Name, DisplayName: f.DisplayName, Owner: owner, Path: joinPath(fpath)}

		var value any
		if fv.IsValid() {
			value = fv.Interface()
		}
		if err := r.evaluate(memberOf(v, f.Name), fpath, f.required, f.rules, vc, value); err != nil {
			return err
		}

		if fv.IsValid() && composite(fv.Type()) {
			if err := r.walk(fv, fpath, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *run) walkElems(v reflect.Value, path []string, depth int) error {
	for i := range v.Len() {
		if err := r.walk(v.Index(i), extend(path, indexSegment(i)), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) walkMap(v reflect.Value, path []string, depth int) error {
	keys := v.MapKeys()
	// Sorted by printed form, then dynamic type, so interface keys such as 1
	// and "1" keep a stable order. Pointer keys print as addresses.
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Or(
			cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface())),
			cmp.Compare(keyType(a), keyType(b)),
		)
	})
	for _, k := range keys {
		if err := r.walk(v.MapIndex(k), extend(path, keySegment(k)), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func keyType(k reflect.Value) string {
	if k.Kind() == reflect.Interface && !k.IsNil() {
		return k.Elem().Type().String()
	}
	return k.Type().String()
}

// evaluate applies a member's rules. An absent value only sees the required
// rule; a present value sees the required rule first and then every other rule
// in discovery order.
func (r *run) evaluate(id FieldID, path []string, required *Rule, rules []*Rule, vc Context, value any) error {
	if isAbsent(value) {
		if required == nil {
			return nil
		}
		return r.check(id, path, required, vc, nil)
	}

	if required != nil {
		if err := r.check(id, path, required, vc, value); err != nil {
			return err
		}
	}
	for _, rule := range rules {
		if err := r.check(id, path, rule, vc, value); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) check(id FieldID, path []string, rule *Rule, vc Context, value any) error {
	verdict, evaluated, err := r.invoke(rule, vc, value)
	if err != nil || !evaluated || verdict.Valid {
		return err
	}
	r.results.add(id, newOutcome(path, rule, vc, verdict))
	return nil
}

// invoke runs one rule. evaluated is false when the rule was skipped.
func (r *run) invoke(rule *Rule, vc Context, value any) (verdict Verdict, evaluated bool, err error) {
	if err := r.interrupted(); err != nil {
		return Verdict{}, false, err
	}

	if rule.kind == KindSync {
		return rule.sync(vc, value), true, nil
	}

	if r.async {
		r.v.metrics.countAsync(asyncAwaited)
		return r.await(r.ctx, rule, vc, value)
	}

	switch r.policy {
	case AsyncIgnore:
		r.v.metrics.countAsync(asyncIgnored)
		r.v.logger.Debug("asynchronous rule skipped on synchronous path",
			logger.RuleName(rule.name), logger.FieldPath(vc.Path), logger.AsyncPolicy(r.policy))
		return Verdict{}, false, nil
	case AsyncTrySync:
		r.v.metrics.countAsync(asyncBlocked)
		r.v.logger.Debug("blocking on asynchronous rule",
			logger.RuleName(rule.name), logger.FieldPath(vc.Path), logger.AsyncPolicy(r.policy))
		return r.await(context.Background(), rule, vc, value)
	default:
		r.v.metrics.countAsync(asyncRejected)
		return Verdict{}, false, configFault(ErrAsyncRuleInSyncPath,
			"rule %q on %q under policy %s", rule.name, vc.Path, r.policy)
	}
}

// await is the single suspension point of an asynchronous rule.
func (r *run) await(ctx context.Context, rule *Rule, vc Context, value any) (Verdict, bool, error) {
	future := rule.async(ctx, vc, value)
	if future == nil {
		return Verdict{}, false, errors.Join(ErrRuleEvaluation,
			fmt.Errorf("rule %q on %q returned no future", rule.name, vc.Path))
	}

	verdict, err := future.AwaitContext(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Verdict{}, false, canceled(ctxErr)
		}
		return Verdict{}, false, errors.Join(ErrRuleEvaluation,
			fmt.Errorf("rule %q on %q: %w", rule.name, vc.Path, err))
	}
	return verdict, true, nil
}

func newOutcome(path []string, rule *Rule, vc Context, verdict Verdict) Outcome {
	msg := verdict.Message
	if msg == "" {
		msg = rule.message
	}

	args := make(map[string]any, len(rule.args)+len(verdict.Args)+1)
	args["field"] = vc.Label()
	maps.Copy(args, rule.args)
	maps.Copy(args, verdict.Args)

	return Outcome{
		Message: msg,
		Path:    path,
		Rule:    rule,
		Args:    args,
	}
}

// isAbsent reports whether value is nil or a nil reference.
func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// composite reports whether values of t may hold validatable members.
// Collections count when their element, after dereferencing, is itself
// a struct, collection or interface.
func composite(t reflect.Type) bool {
	t = deref(t)
	switch t.Kind() {
	case reflect.Struct, reflect.Interface:
		return true
	case reflect.Slice, reflect.Array, reflect.Map:
		switch deref(t.Elem()).Kind() {
		case reflect.Struct, reflect.Interface, reflect.Slice, reflect.Array, reflect.Map:
			return true
		}
	}
	return false
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// addressable returns v itself when it can be addressed and an addressable
// copy otherwise, so member identities are stable for the rest of the run.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	return cp
}
