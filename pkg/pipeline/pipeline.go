// Package pipeline resolves git-pinned dependencies to newer release tags.
//
// For each requested dependency the pipeline looks up the declared source in
// package.json, drops registry-pinned entries, and then runs three stages in
// order: derive the tag-listing and install URLs from the installed copy's
// descriptor, list the remote's release tags, and decide whether the highest
// tag is newer than what is installed. Dependencies are processed
// concurrently up to [Options.Concurrency].
//
// # Failure policy
//
// By default the first failure aborts the run and cancels every in-flight
// remote query; nothing is installed. With [Options.KeepGoing], remote-query
// and unresolvable-source failures are recorded in [Result.Failed] and the
// remaining dependencies still resolve. Manifest, descriptor, missing
// dependency and version errors abort the run in either mode.
//
// # Usage
//
//	runner := pipeline.NewRunner(lister, installer, logger)
//	result, err := runner.Update(ctx, []string{"widget"}, ".", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Locators())
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitbump/pkg/deps"
	"github.com/matzehuels/gitbump/pkg/errors"
	"github.com/matzehuels/gitbump/pkg/update"
)

// DefaultConcurrency is the number of dependencies resolved at once.
const DefaultConcurrency = 8

// MaxConcurrency caps Options.Concurrency.
const MaxConcurrency = 64

// Options configures a run.
type Options struct {
	Concurrency int  `json:"concurrency,omitempty"`
	KeepGoing   bool `json:"keep_going,omitempty"`
	DryRun      bool `json:"dry_run,omitempty"`

	// Logger receives progress; a discarding logger is used when nil.
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it again has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency must be positive, got %d", o.Concurrency)
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Concurrency > MaxConcurrency {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency %d exceeds maximum of %d", o.Concurrency, MaxConcurrency)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result is the outcome of a run.
type Result struct {
	// RunID correlates log lines and hook events of one run.
	RunID string

	// Updates holds one entry per dependency with a newer release, in
	// manifest order.
	Updates []update.Update

	// Current lists git-sourced dependencies already at their newest release.
	Current []deps.Spec

	// Skipped lists dependencies not eligible for resolution (registry or
	// local sources). They are never queried.
	Skipped []deps.Spec

	// Failed is only populated with Options.KeepGoing.
	Failed []Failure

	// Installed reports whether the installer ran.
	Installed bool

	Stats Stats
}

// Failure records a dependency skipped in keep-going mode.
type Failure struct {
	Spec deps.Spec
	Err  error
}

// Stats contains run statistics.
type Stats struct {
	Queried     int
	ResolveTime time.Duration
	InstallTime time.Duration
}

// Locators returns the install locators of every update.
func (r *Result) Locators() []string {
	locs := make([]string, 0, len(r.Updates))
	for _, u := range r.Updates {
		locs = append(locs, u.Locator)
	}
	return locs
}

// recoverable reports whether a per-dependency failure may be skipped in
// keep-going mode.
func recoverable(err error) bool {
	return errors.Is(err, errors.ErrCodeRemoteQuery) || errors.Is(err, errors.ErrCodeUnresolvableSource)
}
