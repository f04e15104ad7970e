package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gitbump/pkg/deps"
	"github.com/matzehuels/gitbump/pkg/deps/javascript"
	"github.com/matzehuels/gitbump/pkg/errors"
	"github.com/matzehuels/gitbump/pkg/install"
	"github.com/matzehuels/gitbump/pkg/observability"
	"github.com/matzehuels/gitbump/pkg/source"
	"github.com/matzehuels/gitbump/pkg/tags"
	"github.com/matzehuels/gitbump/pkg/update"
)

// Outcomes reported to the resolve hooks.
const (
	OutcomeUpdate  = "update"
	OutcomeCurrent = "current"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Runner executes resolution runs. It holds no per-run state, so one Runner
// may serve concurrent runs.
type Runner struct {
	Lister    tags.Lister
	Installer install.Installer
	Logger    *log.Logger
}

// NewRunner creates a runner. A nil lister uses the git transport, a nil
// installer runs npm.
func NewRunner(lister tags.Lister, installer install.Installer, logger *log.Logger) *Runner {
	if lister == nil {
		lister = tags.NewCoalesced(&tags.Git{})
	}
	if installer == nil {
		installer = &install.NPM{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Lister: lister, Installer: installer, Logger: logger}
}

// ResolveOne resolves a single dependency. It returns nil when there is no
// newer release or the dependency is not git-sourced.
func (r *Runner) ResolveOne(ctx context.Context, name, basedir string) (*update.Update, error) {
	if err := errors.ValidateDependencyName(name); err != nil {
		return nil, err
	}
	m, err := javascript.ReadManifest(basedir)
	if err != nil {
		return nil, err
	}
	spec, err := m.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !spec.Kind.Eligible() {
		return nil, nil
	}
	return r.resolveSpec(ctx, r.Logger, basedir, spec)
}

// Resolve resolves every named dependency. An empty names list means every
// dependency in the manifest.
func (r *Runner) Resolve(ctx context.Context, names []string, basedir string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	m, err := javascript.ReadManifest(basedir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = m.Names()
	}
	if names, err = errors.ValidateDependencyNames(names); err != nil {
		return nil, err
	}
	specs, err := m.Specs(names)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", res.RunID[:8])
	hooks := observability.Resolve()
	start := time.Now()

	hooks.OnRunStart(ctx, res.RunID, len(specs))

	var eligible []deps.Spec
	for _, s := range specs {
		if s.Kind.Eligible() {
			eligible = append(eligible, s)
			continue
		}
		res.Skipped = append(res.Skipped, s)
		hooks.OnDependencyResolved(ctx, s.Name, OutcomeSkipped, 0, nil)
		logger.Debug("skipping dependency", "dep", s.Name, "kind", s.Kind, "spec", s.Raw)
	}

	logger.Debug("resolving dependencies", "git", len(eligible), "skipped", len(res.Skipped), "concurrency", opts.Concurrency)

	err = r.resolveAll(ctx, logger, basedir, eligible, opts, res)
	res.Stats.Queried = len(eligible)
	res.Stats.ResolveTime = time.Since(start)
	hooks.OnRunComplete(ctx, res.RunID, len(res.Updates), res.Stats.ResolveTime, err)
	if err != nil {
		return nil, err
	}

	logger.Debug("resolved dependencies",
		"updates", len(res.Updates),
		"current", len(res.Current),
		"failed", len(res.Failed),
		"duration", res.Stats.ResolveTime.Truncate(time.Millisecond))
	return res, nil
}

// Update resolves and then installs every update in one installer call.
// Nothing is installed if resolution fails, if there are no updates, or
// with Options.DryRun.
func (r *Runner) Update(ctx context.Context, names []string, basedir string, opts Options) (*Result, error) {
	res, err := r.Resolve(ctx, names, basedir, opts)
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		return res, nil
	}
	if err := r.Install(ctx, basedir, res); err != nil {
		return res, err
	}
	return res, nil
}

// Install hands the locators of res to the installer, once. It does
// nothing when res has no updates.
func (r *Runner) Install(ctx context.Context, basedir string, res *Result) error {
	locs := res.Locators()
	if len(locs) == 0 {
		return nil
	}

	start := time.Now()
	r.Logger.Debug("installing updates", "count", len(locs))
	if err := r.Installer.Install(ctx, basedir, locs); err != nil {
		return err
	}
	res.Installed = true
	res.Stats.InstallTime = time.Since(start)
	return nil
}

// resolveAll fans out over specs. Results land in manifest order.
func (r *Runner) resolveAll(ctx context.Context, logger *log.Logger, basedir string, specs []deps.Spec, opts Options, res *Result) error {
	updates := make([]*update.Update, len(specs))
	failures := make([]error, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, spec := range specs {
		g.Go(func() error {
			start := time.Now()
			u, err := r.resolveSpec(gctx, logger, basedir, spec)
			outcome := outcomeOf(u, err)
			observability.Resolve().OnDependencyResolved(gctx, spec.Name, outcome, time.Since(start), err)

			if err == nil {
				updates[i] = u
				return nil
			}
			if opts.KeepGoing && recoverable(err) && gctx.Err() == nil {
				logger.Debug("skipping failed dependency", "dep", spec.Name, "error", errors.UserMessage(err))
				failures[i] = err
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, spec := range specs {
		switch {
		case failures[i] != nil:
			res.Failed = append(res.Failed, Failure{Spec: spec, Err: failures[i]})
		case updates[i] != nil:
			res.Updates = append(res.Updates, *updates[i])
		default:
			res.Current = append(res.Current, spec)
		}
	}
	return nil
}

// resolveSpec runs the three stages for one dependency. Each error names
// the dependency and keeps the code of the stage that failed.
func (r *Runner) resolveSpec(ctx context.Context, logger *log.Logger, basedir string, spec deps.Spec) (*update.Update, error) {
	desc, err := javascript.ReadDescriptor(basedir, spec.Name)
	if err != nil {
		return nil, depError(spec.Name, err)
	}

	urls, err := source.Resolve(desc, spec.Raw)
	if err != nil {
		return nil, depError(spec.Name, err)
	}

	found, err := r.Lister.ListTags(ctx, urls.TagListing)
	if err != nil {
		return nil, depError(spec.Name, err)
	}

	u, err := update.Decide(desc.Version, found, urls.Install)
	if err != nil {
		return nil, depError(spec.Name, err)
	}

	if u == nil {
		logger.Debug("up to date", "dep", spec.Name, "installed", desc.Version, "tags", len(found))
		return nil, nil
	}
	u.Name, u.Dev = spec.Name, spec.Dev
	logger.Debug("update available", "dep", spec.Name, "installed", u.Installed, "latest", u.Latest, "url", urls.Install)
	return u, nil
}

func depError(name string, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, "dependency %s", name)
}

func outcomeOf(u *update.Update, err error) string {
	switch {
	case err != nil:
		return OutcomeFailed
	case u != nil:
		return OutcomeUpdate
	default:
		return OutcomeCurrent
	}
}
