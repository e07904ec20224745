// Package validation validates object graphs and the named parameters of an
// operation.
//
// Rules are attached to struct members by a Discovery collaborator and to
// parameters directly through ParameterSpec. A Rule is either synchronous
// (SyncFunc) or asynchronous (AsyncFunc returning an async.Future). Failures
// are recorded per member instance in a Results store keyed by FieldID, so two
// equal-looking objects reached along different paths never share failures.
//
// # Architecture
//
// Core building blocks:
//   - Rule          - tagged union of a sync or async check plus message metadata
//   - Validator     - recursive object-graph walker with a per-call cycle guard
//   - Parameter     - presence rule, attached rules and graph walk of one input
//   - ParameterSet  - orchestrates many parameters and merges their stores
//   - Results       - failures of one parameter keyed by FieldID
//   - Failures      - parameter name to Results, nil when everything passed
//
// The walker dereferences pointers and interfaces, descends into struct
// members, slice and array elements and map values, and stops at types
// rejected by the skip predicate. Each reference is visited at most once per
// call, which makes self-referential graphs terminate.
//
// # Usage
//
//	v, err := validation.New(tags.MustNew(), validation.SkipNone)
//	if err != nil {
//	    return err
//	}
//
//	set, err := validation.NewParameterSet(v,
//	    validation.Param[string]("email", rules.Required(), rules.Email()),
//	    validation.Param[*Order]("order", rules.Required()),
//	)
//	if err != nil {
//	    return err
//	}
//
//	failures, err := set.ValidateAll(ctx, map[string]any{"email": email, "order": order})
//	switch {
//	case err != nil:
//	    // configuration fault or cancellation, not a validation failure
//	case failures != nil:
//	    // failures.Lookup("order.items[0].sku")
//	}
//
// # Async Rules on Synchronous Paths
//
// ValidateSync and ValidateAllSync never suspend. When they reach an
// asynchronous rule the AsyncPolicy decides: AsyncThrow (default) aborts with
// ErrAsyncRuleInSyncPath, AsyncIgnore skips the rule and AsyncTrySync blocks
// until the future settles. The process default is set with
// SetDefaultAsyncPolicy or VALIDATION_ASYNC_POLICY through LoadConfig.
//
// # Error Handling
//
// Validation failures are returned as data. A non-nil error means the call was
// aborted and carries no partial result:
//   - configuration faults match ErrConfiguration plus a specific sentinel
//   - errors returned by async rule futures match ErrRuleEvaluation
//   - cancellation matches ErrCanceled and the context error
//
// Results and Failures also implement error so transport layers can return them directly.
package validation
