// Package config loads the optional gitbump.toml project file.
//
// Example:
//
//	concurrency = 4
//	tag_source  = "github"
//	keep_going  = true
//
//	[install]
//	command = "pnpm"
//	args    = ["add"]
//
//	[github]
//	token   = "ghp_..."
//	retries = 2
//
// Every key is optional. Command-line flags take precedence over the file.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gitbump/pkg/errors"
	"github.com/matzehuels/gitbump/pkg/pipeline"
	"github.com/matzehuels/gitbump/pkg/tags"
)

// FileName is looked up in the project directory when no path is given.
const FileName = "gitbump.toml"

// Config mirrors gitbump.toml.
type Config struct {
	Concurrency int     `toml:"concurrency"`
	TagSource   string  `toml:"tag_source"`
	KeepGoing   bool    `toml:"keep_going"`
	Install     Install `toml:"install"`
	GitHub      GitHub  `toml:"github"`

	// Path is the file the config was read from, "" if none was found.
	Path string `toml:"-"`
}

// Install configures the package-manager invocation.
type Install struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// MaxRetries bounds [GitHub.Retries].
const MaxRetries = 5

// GitHub configures the GitHub tag source.
type GitHub struct {
	Token   string `toml:"token"`
	Retries int    `toml:"retries"` // extra attempts for a 5xx or dropped API request
}

// Load reads the config. With an empty path it looks for FileName in dir
// and returns an empty Config if there is none; an explicit path must exist.
func Load(dir, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes and validates TOML content. Unknown keys are rejected.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Concurrency < 0 || c.Concurrency > pipeline.MaxConcurrency {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency must be between 1 and %d, got %d", pipeline.MaxConcurrency, c.Concurrency)
	}
	if c.GitHub.Retries < 0 || c.GitHub.Retries > MaxRetries {
		return errors.New(errors.ErrCodeInvalidInput, "github.retries must be between 0 and %d, got %d", MaxRetries, c.GitHub.Retries)
	}
	if c.TagSource != "" {
		if err := tags.ValidateSource(c.TagSource); err != nil {
			return err
		}
	}
	return nil
}
