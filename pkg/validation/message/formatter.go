package message

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/validkit/pkg/logger"
	"github.com/dmitrymomot/validkit/pkg/validation"
)

// Message is a formatted failure.
type Message struct {
	// Key is the translation key, the name of the originating rule.
	Key string `json:"key"`
	// Text is the localized message, or the rule's own message when the
	// catalog has no template for Key.
	Text string `json:"text"`
	// Args are the outcome's formatting arguments.
	Args map[string]any `json:"args,omitempty"`
}

// Formatter renders outcomes through a Catalog. It is immutable and safe for
// concurrent use.
type Formatter struct {
	catalog     *Catalog
	defaultLang string
	langs       []string
	matcher     language.Matcher
	logger      *slog.Logger
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithLogger logs missing templates at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(f *Formatter) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFormatter creates a formatter falling back to defaultLang, which must be
// one of the catalog's languages.
func NewFormatter(c *Catalog, defaultLang string, opts ...Option) (*Formatter, error) {
	if c == nil {
		return nil, ErrNilCatalog
	}
	if _, ok := c.entries[defaultLang]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, defaultLang)
	}

	// The matcher falls back to its first tag
	langs := []string{defaultLang}
	for _, lang := range c.Languages() {
		if lang != defaultLang {
			langs = append(langs, lang)
		}
	}
	tags := make([]language.Tag, len(langs))
	for i, lang := range langs {
		tags[i] = c.tags[lang]
	}

	f := &Formatter{
		catalog:     c,
		defaultLang: defaultLang,
		langs:       langs,
		matcher:     language.NewMatcher(tags),
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(logger.Component("validation.message"))
	return f, nil
}

// Languages returns the supported languages, default first.
func (f *Formatter) Languages() []string {
	return slices.Clone(f.langs)
}

// Match negotiates an Accept-Language header (or a single tag such as
// "pt-BR") against the catalog and returns the best language key.
func (f *Formatter) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return f.defaultLang
	}
	if _, ok := f.catalog.entries[acceptLanguage]; ok {
		return acceptLanguage
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return f.defaultLang
	}
	_, idx, conf := f.matcher.Match(desired...)
	if conf == language.No {
		return f.defaultLang
	}
	return f.langs[idx]
}

// Format renders one outcome in lang. The template is looked up under the
// rule's name in lang, then in the default language; without one the
// outcome's own message is used.
func (f *Formatter) Format(lang string, o validation.Outcome) Message {
	msg := Message{Text: o.Message, Args: o.Args}
	if o.Rule == nil {
		return msg
	}
	msg.Key = o.Rule.Name()

	lang = f.Match(lang)
	tmpl, ok := f.catalog.Lookup(lang, msg.Key)
	if !ok && lang != f.defaultLang {
		tmpl, ok = f.catalog.Lookup(f.defaultLang, msg.Key)
	}
	if !ok {
		f.logger.Debug("message template not found",
			slog.String("lang", lang), slog.String("key", msg.Key), logger.FieldPath(o.Key()))
		return msg
	}
	msg.Text = substitute(tmpl, o.Args)
	return msg
}

// FormatResults renders every failure of res keyed by dotted field path.
func (f *Formatter) FormatResults(lang string, res *validation.Results) map[string][]Message {
	if res.IsEmpty() {
		return nil
	}
	out := make(map[string][]Message)
	for _, o := range res.All() {
		out[o.Key()] = append(out[o.Key()], f.Format(lang, o))
	}
	return out
}

// FormatFailures renders every failure of every parameter keyed by dotted field path.
func (f *Formatter) FormatFailures(lang string, failures validation.Failures) map[string][]Message {
	if len(failures) == 0 {
		return nil
	}
	out := make(map[string][]Message)
	for _, name := range failures.Parameters() {
		for path, msgs := range f.FormatResults(lang, failures[name]) {
			out[path] = append(out[path], msgs...)
		}
	}
	return out
}

// Texts reduces formatted messages to their text.
func Texts(messages map[string][]Message) map[string][]string {
	if messages == nil {
		return nil
	}
	out := make(map[string][]string, len(messages))
	for path, msgs := range messages {
		texts := make([]string, len(msgs))
		for i, m := range msgs {
			texts[i] = m.Text
		}
		out[path] = texts
	}
	return out
}

var placeholder = regexp.MustCompile(`%\{([^}]+)\}`)

// substitute replaces %{name} placeholders. Unknown names are left as they are.
func substitute(tmpl string, args map[string]any) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		if v, ok := args[match[2:len(match)-1]]; ok {
			return fmt.Sprint(v)
		}
		return match
	})
}
