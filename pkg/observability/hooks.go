// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about resolution runs, remote tag queries, GitHub API calls
// and installs.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the core packages stay
// free of any particular metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetResolveHooks(&myResolveHooks{})
//	    observability.SetRemoteHooks(&myRemoteHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Remote().OnQueryStart(ctx, "git", url)
//	// ... run ls-remote ...
//	observability.Remote().OnQueryComplete(ctx, "git", url, tagCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from a resolution run.
type ResolveHooks interface {
	// OnRunStart is called once per run before any dependency is processed.
	OnRunStart(ctx context.Context, runID string, deps int)

	// OnDependencyResolved is called once per processed dependency. outcome is
	// one of "update", "current", "skipped" or "failed".
	OnDependencyResolved(ctx context.Context, name, outcome string, duration time.Duration, err error)

	// OnRunComplete is called when the run finishes, successfully or not.
	OnRunComplete(ctx context.Context, runID string, updates int, duration time.Duration, err error)
}

// =============================================================================
// Remote Hooks
// =============================================================================

// RemoteHooks receives events from remote tag queries.
type RemoteHooks interface {
	// OnQueryStart records an outgoing tag query. transport is "git" or "github".
	OnQueryStart(ctx context.Context, transport, url string)

	// OnQueryComplete records the outcome of a tag query.
	OnQueryComplete(ctx context.Context, transport, url string, tags int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Install Hooks
// =============================================================================

// InstallHooks receives events from the package-manager invocation.
type InstallHooks interface {
	OnInstallStart(ctx context.Context, locators []string)
	OnInstallComplete(ctx context.Context, locators []string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnRunStart(context.Context, string, int) {}
func (NoopResolveHooks) OnDependencyResolved(context.Context, string, string, time.Duration, error) {
}
func (NoopResolveHooks) OnRunComplete(context.Context, string, int, time.Duration, error) {}

// NoopRemoteHooks is a no-op implementation of RemoteHooks.
type NoopRemoteHooks struct{}

func (NoopRemoteHooks) OnQueryStart(context.Context, string, string) {}
func (NoopRemoteHooks) OnQueryComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopInstallHooks is a no-op implementation of InstallHooks.
type NoopInstallHooks struct{}

func (NoopInstallHooks) OnInstallStart(context.Context, []string)                           {}
func (NoopInstallHooks) OnInstallComplete(context.Context, []string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	resolveHooks ResolveHooks = NoopResolveHooks{}
	remoteHooks  RemoteHooks  = NoopRemoteHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	installHooks InstallHooks = NoopInstallHooks{}
	hooksMu      sync.RWMutex
)

// SetResolveHooks registers custom resolve hooks.
// This should be called once at application startup before any run.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetRemoteHooks registers custom remote query hooks.
func SetRemoteHooks(h RemoteHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		remoteHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetInstallHooks registers custom install hooks.
func SetInstallHooks(h InstallHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		installHooks = h
	}
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Remote returns the registered remote query hooks.
func Remote() RemoteHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return remoteHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Install returns the registered install hooks.
func Install() InstallHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return installHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	resolveHooks = NoopResolveHooks{}
	remoteHooks = NoopRemoteHooks{}
	httpHooks = NoopHTTPHooks{}
	installHooks = NoopInstallHooks{}
}
