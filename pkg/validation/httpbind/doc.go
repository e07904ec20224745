// Package httpbind binds HTTP request input to a validation.ParameterSet.
//
// Each Binding maps a declared parameter to a URL path parameter, a query
// value, a form value or the JSON body. Bind converts the raw strings to the
// parameter's declared type, validates the resulting bag with ValidateAll and
// reports conversion problems as failures under the "validation.bind" rule.
//
//	set, _ := validation.NewParameterSet(v,
//		validation.Param[uuid.UUID]("id", rules.Required()),
//		validation.Param[int]("page", rules.Min(1)),
//		validation.Param[CreateUser]("body", rules.Required()),
//	)
//	b, _ := httpbind.New(set, []httpbind.Binding{
//		httpbind.Path("id"),
//		httpbind.Query("page").As("p"),
//		httpbind.Body("body"),
//	})
//	r.Post("/users/{id}", b.Handler(func(w http.ResponseWriter, r *http.Request, args map[string]any) {
//		user := args["body"].(CreateUser)
//		// ...
//	}).ServeHTTP)
//
// Handler writes 422 with field messages when validation fails, 500 on
// configuration faults and 499 when the request context ends first.
package httpbind
