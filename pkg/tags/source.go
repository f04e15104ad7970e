package tags

import "github.com/matzehuels/gitbump/pkg/errors"

// Transport names accepted by --tag-source and the config file.
const (
	SourceGit    = "git"
	SourceGitHub = "github"
)

// ValidateSource checks a transport name.
func ValidateSource(name string) error {
	switch name {
	case SourceGit, SourceGitHub:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid tag source: %q (must be one of: git, github)", name)
}
