// Package rules provides ready-made validation rules for the validation engine.
//
// Every constructor returns a *validation.Rule whose name is a translation key
// in the "validation." namespace ("validation.required", "validation.max_length",
// ...) and whose static arguments ({"min": 3}) feed message templates.
// Values arrive untyped: pointers are dereferenced, and a value of a type a
// rule cannot handle fails the rule rather than panicking.
//
// # Architecture
//
// Rules are grouped by concern:
//   - presence_rules.go  - Required
//   - length_rules.go    - MinLen, MaxLen, Len for strings, slices, arrays and maps
//   - numeric_rules.go   - Min, Max, Between over any integer or float kind
//   - choice_rules.go    - OneOf, NoneOf
//   - format_rules.go    - Email, UUID, Pattern
//   - expr_rules.go      - Expr, boolean expr-lang predicates over the value and its owner
//   - lookup_rules.go    - Lookup, an asynchronous rule over an arbitrary check
//   - redis_rules.go     - RedisSetMember, RedisNotSetMember
//   - pg_rules.go        - PgExists, PgNotExists
//
// # Usage
//
//	set, err := validation.NewParameterSet(v,
//	    validation.Param[string]("email",
//	        rules.Required(),
//	        rules.Email(),
//	        rules.PgNotExists(pool, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)"),
//	    ),
//	    validation.Param[int]("seats", rules.Between(1, 50)),
//	)
//
// # Asynchronous Rules
//
// Lookup, the Redis rules and the Postgres rules are asynchronous: they run
// their query on a goroutine and hand the engine an async.Future. A failing
// query settles the future with an error, which the engine reports as a rule
// evaluation fault rather than as a validation failure.
package rules
