// Package message turns validation outcomes into localized, human readable
// messages.
//
// A Catalog is parsed once from YAML and never changes. Templates are keyed by
// the originating rule's name and use %{name} placeholders filled from the
// outcome's arguments ("field", plus rule arguments such as "max"):
//
//	catalog, err := message.ParseCatalog(catalogYAML)
//	formatter, err := message.NewFormatter(catalog, "en")
//
//	lang := formatter.Match(r.Header.Get("Accept-Language"))
//	fields := formatter.FormatFailures(lang, failures)
//
// Language negotiation uses golang.org/x/text/language, so "en-GB" matches an
// "en" catalog and unknown languages fall back to the default.
package message
