package rules

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

// ErrInvalidExpression is returned by Expr for expressions that do not compile to a boolean.
var ErrInvalidExpression = errors.New("rules: invalid expression")

// Expr compiles a boolean expr-lang predicate. The expression sees the member
// value as `value`, the owning object as `owner` (nil for top-level values)
// and the member name as `field`:
//
//	rules.Expr("validation.after_start", "value > owner.StartsAt", "must be after the start")
//
// A runtime evaluation error fails the rule with the error text under the
// "reason" argument.
func Expr(name, expression, message string) (*validation.Rule, error) {
	program, err := expr.Compile(expression, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, errors.Join(ErrInvalidExpression, fmt.Errorf("%q: %w", expression, err))
	}
	return validation.Sync(name, func(vc validation.Context, value any) validation.Verdict {
		return evalBool(program, exprEnv{Value: value, Owner: vc.Owner, Field: vc.Member})
	}, validation.WithMessage(message), validation.WithArgs(map[string]any{"expression": expression})), nil
}

// MustExpr is like Expr but panics if the expression does not compile.
func MustExpr(name, expression, message string) *validation.Rule {
	r, err := Expr(name, expression, message)
	if err != nil {
		panic(err)
	}
	return r
}

// exprEnv is the expression environment. Value and Owner are typed any so
// member access and arithmetic on them are checked at run time.
type exprEnv struct {
	Value any    `expr:"value"`
	Owner any    `expr:"owner"`
	Field string `expr:"field"`
}

func evalBool(program *vm.Program, env exprEnv) validation.Verdict {
	out, err := expr.Run(program, env)
	if err != nil {
		return validation.Fail("").With("reason", err.Error())
	}
	ok, _ := out.(bool)
	return validation.Check(ok)
}
