// Package config provides a type-safe, generic and cached way to load
// configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - LoadEnv reads one or more `.env` files into the process environment
//     (the default `.env` is loaded lazily and silently by Load).
//   - Load parses the environment into any struct using `env` field tags and
//     caches each configuration type so it is parsed once per process.
//   - Reload and ResetCache drop cached copies, which is handy in tests.
//
// # Usage
//
//	var cfg validation.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// Fields whose types implement encoding.TextUnmarshaler (for example
// validation.AsyncPolicy) are decoded through that interface.
//
// # Error Handling
//
// Sentinel errors can be compared with errors.Is:
//
//   - ErrParsingConfig  - failed to parse env vars into struct.
//   - ErrLoadingEnvFile - an explicit .env file could not be loaded.
//   - ErrNilPointer     - nil pointer passed to Load, MustLoad or Reload.
package config
