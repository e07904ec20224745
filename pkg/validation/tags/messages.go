package tags

// ruleKey is the translation key reported for a tag, e.g. "validation.max".
func ruleKey(tag string) string {
	return "validation." + tag
}

var messages = map[string]string{
	"required": "is required",
	"min":      "is too small",
	"max":      "is too large",
	"len":      "has the wrong length",
	"eq":       "must be equal",
	"ne":       "must not be equal",
	"gt":       "must be greater",
	"gte":      "must be greater or equal",
	"lt":       "must be less",
	"lte":      "must be less or equal",
	"oneof":    "must be one of the allowed values",
	"email":    "must be a valid email address",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"alpha":    "must contain only letters",
	"alphanum": "must contain only letters and digits",
	"numeric":  "must be numeric",
}

func messageFor(tag string) string {
	if msg, ok := messages[tag]; ok {
		return msg
	}
	return "failed " + tag + " validation"
}
