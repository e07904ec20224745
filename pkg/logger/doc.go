// Package logger builds slog loggers for validkit and provides the attribute
// constructors the validation engine and its HTTP adapter log with.
//
// New selects a JSON or text handler and, when context extractors are
// registered, wraps it so attributes such as a request id are pulled from the
// record's context at Handle time. ParseLevel and ParseFormat turn
// configuration strings into options:
//
//	cfg, _ := validation.LoadConfig()
//	log, err := cfg.Logger(os.Stderr)
//	if err != nil {
//	    return err
//	}
//	v, err := validation.New(tags.MustNew(), skip,
//	    validation.WithConfig(cfg),
//	    validation.WithLogger(log),
//	)
//
// Library code that receives no logger falls back to Discard.
//
// Error and Errors produce attributes only for non-nil errors, so
//
//	log.Info("validated", logger.Error(err))
//
// needs no nil check.
package logger
