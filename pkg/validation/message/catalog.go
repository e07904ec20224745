package message

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Catalog is an immutable set of message templates keyed by language and
// dotted translation key. Build it once at startup and share it.
type Catalog struct {
	entries map[string]map[string]string
	tags    map[string]language.Tag
}

// ParseCatalog parses a YAML document whose top-level keys are language tags.
// Nested maps are flattened into dotted keys:
//
//	en:
//	  validation:
//	    required: "%{field} is required"
//	    max_length: "%{field} must be at most %{max} characters"
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrParseCatalog, err)
	}
	c := &Catalog{
		entries: make(map[string]map[string]string, len(raw)),
		tags:    make(map[string]language.Tag, len(raw)),
	}
	if err := c.add(raw); err != nil {
		return nil, err
	}
	if len(c.entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

// LoadCatalog reads and merges YAML catalogs from fsys. Later files override
// keys of earlier ones.
func LoadCatalog(fsys fs.FS, paths ...string) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[string]map[string]string),
		tags:    make(map[string]language.Tag),
	}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, errors.Join(ErrParseCatalog, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Join(ErrParseCatalog, fmt.Errorf("%s: %w", path, err))
		}
		if err := c.add(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if len(c.entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

func (c *Catalog) add(raw map[string]any) error {
	for lang, val := range raw {
		tag, err := language.Parse(lang)
		if err != nil {
			return errors.Join(ErrInvalidLanguage, fmt.Errorf("%q: %w", lang, err))
		}
		tree, ok := val.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: language %q must map keys to templates, got %T", ErrInvalidEntry, lang, val)
		}
		entries := c.entries[lang]
		if entries == nil {
			entries = make(map[string]string)
			c.entries[lang] = entries
			c.tags[lang] = tag
		}
		if err := flatten(entries, "", tree); err != nil {
			return fmt.Errorf("language %q: %w", lang, err)
		}
	}
	return nil
}

func flatten(dst map[string]string, prefix string, tree map[string]any) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case string:
			dst[key] = v
		case map[string]any:
			if err := flatten(dst, key, v); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %q is %T", ErrInvalidEntry, key, v)
		}
	}
	return nil
}

// Languages returns the catalog's language keys, sorted.
func (c *Catalog) Languages() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Lookup returns the template for key in lang.
func (c *Catalog) Lookup(lang, key string) (string, bool) {
	tmpl, ok := c.entries[lang][key]
	return tmpl, ok
}

// Keys returns the sorted translation keys defined for lang.
func (c *Catalog) Keys(lang string) []string {
	return slices.Sorted(maps.Keys(c.entries[lang]))
}
