package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler used by New.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

var (
	ErrInvalidFormat = errors.New("logger: invalid format")
	ErrInvalidLevel  = errors.New("logger: invalid level")
)

// ParseFormat accepts "json" or "text" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// ParseLevel accepts slog level names such as "debug", "INFO" or "warn+2".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return l, nil
}

type settings struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// Option configures New.
type Option func(*settings)

func WithLevel(l slog.Level) Option {
	return func(s *settings) { s.level = l }
}

// WithFormat sets the output format. Unknown formats panic: a misconfigured
// logger should stop startup.
func WithFormat(f Format) Option {
	if _, err := ParseFormat(string(f)); err != nil {
		panic(err)
	}
	return func(s *settings) { s.format = f }
}

// WithOutput redirects records to w. A nil writer is ignored.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// WithService tags every record with the service name.
func WithService(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.attrs = append(s.attrs, slog.String("service", name))
		}
	}
}

// WithContextExtractors registers callbacks that add attributes from the
// record's context. Nil extractors are dropped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(s *settings) {
		for _, ex := range extractors {
			if ex != nil {
				s.extractors = append(s.extractors, ex)
			}
		}
	}
}

// WithContextValue copies ctx.Value(key) into each record under name, e.g. a
// request id stored by HTTP middleware.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*settings) {}
	}
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		if v := ctx.Value(key); v != nil {
			return slog.Any(name, v), true
		}
		return slog.Attr{}, false
	})
}

// New builds a logger writing JSON at info level to stdout unless configured
// otherwise.
func New(opts ...Option) *slog.Logger {
	s := &settings{level: slog.LevelInfo, format: FormatJSON, output: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}

	ho := &slog.HandlerOptions{Level: s.level}
	var h slog.Handler = slog.NewJSONHandler(s.output, ho)
	if s.format == FormatText {
		h = slog.NewTextHandler(s.output, ho)
	}
	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}
	if len(s.extractors) > 0 {
		h = &contextHandler{next: h, extractors: s.extractors}
	}
	return slog.New(h)
}

// Discard returns a logger that drops every record.
// Library components use it when the caller supplies no logger.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
