package rules

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/validkit/pkg/validation"
)

// Email validates an RFC 5322 address with a dotted domain, as typed into web forms.
func Email() *validation.Rule {
	return stringRule("validation.email", "must be a valid email address", nil, func(s string) bool {
		if strings.TrimSpace(s) == "" {
			return false
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return false
		}
		local, domain, ok := strings.Cut(addr.Address, "@")
		if !ok || local == "" {
			return false
		}
		return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
	})
}

// UUID validates the canonical 36 character UUID form.
func UUID() *validation.Rule {
	return stringRule("validation.uuid", "must be a valid UUID", nil, func(s string) bool {
		// Cheap shape check before parsing
		if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	})
}

// Pattern requires a match of the regular expression. description names the
// expected shape in messages ("a hex color"). Panics on an invalid pattern.
func Pattern(pattern, description string) *validation.Rule {
	re := regexp.MustCompile(pattern)
	return stringRule("validation.regex_pattern", fmt.Sprintf("must match %s", description),
		map[string]any{"pattern": pattern, "description": description}, re.MatchString)
}

func stringRule(key, message string, args map[string]any, ok func(string) bool) *validation.Rule {
	return validation.Sync(key, func(_ validation.Context, value any) validation.Verdict {
		s, isText := text(value)
		if !isText {
			return validation.Fail("must be a string")
		}
		return validation.Check(ok(s))
	}, validation.WithMessage(message), validation.WithArgs(args))
}
