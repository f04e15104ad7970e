package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gitbump/internal/config"
	"github.com/matzehuels/gitbump/pkg/buildinfo"
	"github.com/matzehuels/gitbump/pkg/install"
	"github.com/matzehuels/gitbump/pkg/integrations/github"
	"github.com/matzehuels/gitbump/pkg/observability"
	"github.com/matzehuels/gitbump/pkg/pipeline"
	"github.com/matzehuels/gitbump/pkg/retry"
	"github.com/matzehuels/gitbump/pkg/tags"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "gitbump"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// lister and installer replace the real transports in tests.
	lister    tags.Lister
	installer install.Installer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.SetRemoteHooks(&remoteLogHooks{logger: c.Logger})
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:   appName,
		Short: "gitbump updates git-pinned npm dependencies to their newest release tag",
		Long: `gitbump looks at dependencies in package.json that point at a git repository
(GitHub shorthands, git+ssh/git+https URLs and the like), lists the release tags
published upstream, and reinstalls those with a newer semantic version.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	flags.register(root)

	root.AddCommand(c.checkCommand(flags))
	root.AddCommand(c.updateCommand(flags))
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Flags
// =============================================================================

// runFlags holds flags shared by check and update.
type runFlags struct {
	dir         string
	configPath  string
	concurrency int
	tagSource   string
	keepGoing   bool
	npm         string
	githubToken string
}

func (f *runFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.dir, "dir", "C", ".", "project directory containing package.json")
	pf.StringVar(&f.configPath, "config", "", "config file (default <dir>/"+config.FileName+")")
	pf.IntVarP(&f.concurrency, "concurrency", "j", pipeline.DefaultConcurrency, "dependencies resolved in parallel")
	pf.StringVar(&f.tagSource, "tag-source", tags.SourceGit, "how to list tags: git or github")
	pf.BoolVar(&f.keepGoing, "keep-going", false, "skip dependencies whose remote cannot be queried")
	pf.StringVar(&f.npm, "npm", "npm", "package manager used to install updates")
	pf.StringVar(&f.githubToken, "github-token", "", "GitHub token for --tag-source github (default $GITHUB_TOKEN or gh)")
}

// settings is the merged result of defaults, config file and flags.
type settings struct {
	dir         string
	opts        pipeline.Options
	tagSource   string
	npm         string
	npmArgs     []string
	githubToken string
	retries     int
}

// loadSettings merges the config file under explicitly set flags.
func loadSettings(cmd *cobra.Command, f *runFlags) (*settings, error) {
	cfg, err := config.Load(f.dir, f.configPath)
	if err != nil {
		return nil, err
	}

	s := &settings{
		dir:         f.dir,
		opts: pipeline.Options{
			Concurrency: f.concurrency,
			KeepGoing:   f.keepGoing,
			Logger:      loggerFromContext(cmd.Context()),
		},
		tagSource:   f.tagSource,
		npm:         f.npm,
		githubToken: f.githubToken,
		npmArgs:     cfg.Install.Args,
		retries:     cfg.GitHub.Retries,
	}

	changed := cmd.Flags().Changed
	if !changed("concurrency") && cfg.Concurrency > 0 {
		s.opts.Concurrency = cfg.Concurrency
	}
	if !changed("keep-going") && cfg.KeepGoing {
		s.opts.KeepGoing = true
	}
	if !changed("tag-source") && cfg.TagSource != "" {
		s.tagSource = cfg.TagSource
	}
	if !changed("npm") && cfg.Install.Command != "" {
		s.npm = cfg.Install.Command
	}
	if !changed("github-token") && cfg.GitHub.Token != "" {
		s.githubToken = cfg.GitHub.Token
	}

	if err := tags.ValidateSource(s.tagSource); err != nil {
		return nil, err
	}
	if err := s.opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return s, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for s.
func (c *CLI) newRunner(ctx context.Context, s *settings) (*pipeline.Runner, error) {
	lister := c.lister
	if lister == nil {
		var err error
		if lister, err = c.newLister(ctx, s); err != nil {
			return nil, err
		}
	}

	installer := c.installer
	if installer == nil {
		installer = &install.NPM{Command: s.npm, Args: s.npmArgs, Stdout: os.Stdout, Stderr: os.Stderr}
	}

	return pipeline.NewRunner(lister, installer, loggerFromContext(ctx)), nil
}

func (c *CLI) newLister(ctx context.Context, s *settings) (tags.Lister, error) {
	logger := loggerFromContext(ctx)
	git := &tags.Git{}
	if s.tagSource != tags.SourceGitHub {
		return tags.NewCoalesced(git), nil
	}

	token, source, err := github.ResolveAuthToken(ctx, s.githubToken)
	if err != nil {
		return nil, err
	}
	if source == github.TokenSourceNone {
		logger.Warn("no GitHub token found, API requests are limited to 60 per hour")
	} else {
		logger.Debug("using GitHub token", "source", source)
	}

	client, err := github.NewClient(token,
		github.WithLogger(logger),
		github.WithRetry(retry.Policy{Attempts: s.retries + 1, Delay: retry.Default.Delay}),
	)
	if err != nil {
		return nil, err
	}
	return tags.NewCoalesced(&tags.GitHub{Refs: client, Fallback: git}), nil
}
