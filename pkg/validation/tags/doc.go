// Package tags discovers validation rules from struct tags.
//
// Rules live in the `validate` tag using go-playground/validator syntax, and
// each token becomes one engine rule in tag order. The member's path name comes
// from the first element of its `json` tag (falling back to the Go field
// name) and its display name from the `display` tag:
//
//	type SignUp struct {
//	    Email string `json:"email" validate:"required,email,unique_email" display:"E-mail"`
//	    Nick  string `json:"nick" validate:"omitempty,min=3,max=20"`
//	    Owner *User  `json:"owner"`
//	    Token string `validate:"-"`
//	}
//
//	d, err := tags.New(tags.WithRule("unique_email", rules.RedisNotSetMember(client, "emails")))
//	v, err := validation.New(d, validation.SkipNone)
//
// The "required" token becomes the member's presence rule. "omitempty" makes the
// remaining go-playground tokens pass on zero values. "-" hides a member and
// everything promoted through it. Members without tags are still returned so
// nested structs and collections are traversed.
//
// Tags are checked the first time a type is described: unknown tags,
// malformed parameters and tags that need the enclosing struct (eqfield,
// required_if, dive...) are reported as errors, which the engine surfaces as
// configuration faults. Cross-field checks belong in engine rules reading
// validation.Context.Owner.
package tags
