package validation

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// AsyncPolicy decides what happens when an asynchronous rule is reached from
// a synchronous-only call path (ValidateSync, ValidateAllSync).
type AsyncPolicy uint8

const (
	// AsyncThrow aborts the call with ErrAsyncRuleInSyncPath.
	AsyncThrow AsyncPolicy = iota
	// AsyncIgnore skips asynchronous rules silently.
	AsyncIgnore
	// AsyncTrySync blocks the calling goroutine until the rule's future settles.
	//
	// WARNING: the rule runs with context.Background and cannot be cancelled.
	// If the rule's completion depends on the blocked goroutine (a lock it holds,
	// a channel only it drains, a single-threaded executor) the call deadlocks.
	// Use it only when no context-aware call path exists.
	AsyncTrySync
)

var defaultAsyncPolicy atomic.Uint32

// SetDefaultAsyncPolicy sets the process-wide policy used by validators built
// without WithAsyncPolicy. The zero default is AsyncThrow.
func SetDefaultAsyncPolicy(p AsyncPolicy) error {
	if !p.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidAsyncPolicy, p)
	}
	defaultAsyncPolicy.Store(uint32(p))
	return nil
}

// DefaultAsyncPolicy returns the process-wide policy.
func DefaultAsyncPolicy() AsyncPolicy {
	return AsyncPolicy(defaultAsyncPolicy.Load())
}

// ParseAsyncPolicy accepts "throw", "ignore" and "try_sync" (also "try-sync",
// "trysync"), case-insensitively.
func ParseAsyncPolicy(s string) (AsyncPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "throw":
		return AsyncThrow, nil
	case "ignore":
		return AsyncIgnore, nil
	case "try_sync", "try-sync", "trysync":
		return AsyncTrySync, nil
	default:
		return AsyncThrow, fmt.Errorf("%w: %q", ErrInvalidAsyncPolicy, s)
	}
}

func (p AsyncPolicy) valid() bool {
	return p <= AsyncTrySync
}

func (p AsyncPolicy) String() string {
	switch p {
	case AsyncThrow:
		return "throw"
	case AsyncIgnore:
		return "ignore"
	case AsyncTrySync:
		return "try_sync"
	default:
		return fmt.Sprintf("AsyncPolicy(%d)", uint8(p))
	}
}

func (p AsyncPolicy) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAsyncPolicy, p)
	}
	return []byte(p.String()), nil
}

func (p *AsyncPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseAsyncPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
