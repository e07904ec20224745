package httpbind

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/validkit/pkg/logger"
	"github.com/dmitrymomot/validkit/pkg/validation"
	"github.com/dmitrymomot/validkit/pkg/validation/message"
)

// StatusClientClosedRequest is written when the request context ends before
// validation completes.
const StatusClientClosedRequest = 499

// HandlerFunc receives the validated parameter bag.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, args map[string]any)

// ErrorResponse is the JSON body written when a request is rejected.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// HandlerOption configures the handler returned by Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	formatter *message.Formatter
	logger    *slog.Logger
}

// WithFormatter localizes failure messages using the request's
// Accept-Language header.
func WithFormatter(f *message.Formatter) HandlerOption {
	return func(c *handlerConfig) { c.formatter = f }
}

// WithHandlerLogger sets the logger used for rejected and failed requests.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Handler binds and validates each request before calling fn. Requests with
// validation failures get 422 with the failures keyed by dotted field path.
// Configuration faults get 500 and canceled runs get 499.
func (b *Binder) Handler(fn HandlerFunc, opts ...HandlerOption) http.Handler {
	if fn == nil {
		panic(ErrNilHandler)
	}
	cfg := &handlerConfig{logger: b.logger}
	for _, opt := range opts {
		opt(cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		args, failures, err := b.Bind(r)
		switch {
		case validation.IsCanceled(err):
			cfg.logger.InfoContext(r.Context(), "request validation canceled", logger.Error(err))
			writeJSON(w, StatusClientClosedRequest, ErrorResponse{
				Error: "request canceled",
				Code:  "canceled",
			})
			return
		case err != nil:
			cfg.logger.ErrorContext(r.Context(), "request validation fault", logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error: "internal server error",
				Code:  "internal_error",
			})
			return
		case failures.Len() > 0:
			cfg.logger.DebugContext(r.Context(), "request rejected",
				logger.FailureCount(failures.Len()),
			)
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  "validation failed",
				Code:   "validation_failed",
				Fields: cfg.fieldMessages(r, failures),
			})
			return
		}

		fn(w, r, args)
	})
}

func (c *handlerConfig) fieldMessages(r *http.Request, failures validation.Failures) map[string][]string {
	if c.formatter != nil {
		lang := c.formatter.Match(r.Header.Get("Accept-Language"))
		return message.Texts(c.formatter.FormatFailures(lang, failures))
	}

	fields := make(map[string][]string)
	for _, name := range failures.Parameters() {
		for _, o := range failures.Get(name).All() {
			fields[o.Key()] = append(fields[o.Key()], o.Message)
		}
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
