// Package source derives the repository URLs used to query and reinstall a
// git-sourced dependency.
//
// Two tiers are tried in order. A locator on a recognized hosting service
// (see [hosted.Parse]) is normalized to https://<host>/<owner>/<repo> for tag
// listing and git://<host>/<owner>/<repo> for installation, whatever protocol
// the manifest recorded. Any other git URL is reused verbatim for both, since
// an arbitrary remote cannot be rewritten without risking a working URL.
package source

import (
	"strings"

	"github.com/matzehuels/gitbump/pkg/deps"
	"github.com/matzehuels/gitbump/pkg/errors"
	"github.com/matzehuels/gitbump/pkg/integrations/hosted"
)

// Metadata is the installed package information the resolver consults.
type Metadata interface {
	// RepositoryURL returns the repository declared by the installed
	// package, or "" if it declares none.
	RepositoryURL() string
}

// URLs are the two forms of a dependency's repository.
type URLs struct {
	TagListing string // Passed to the tag lister
	Install    string // Prefix of the install locator
}

// Resolve derives URLs for a dependency from its installed metadata and its
// declared locator. The installed repository URL takes precedence; the
// declared locator is consulted when the former is absent or not on a
// hosting service.
func Resolve(installed Metadata, declared string) (URLs, error) {
	declaredLoc := stripRef(declared)
	candidate := declaredLoc
	if installed != nil {
		if u := stripRef(installed.RepositoryURL()); u != "" {
			candidate = u
		}
	}

	for _, loc := range []string{candidate, declaredLoc} {
		if repo, ok := hosted.Parse(loc); ok {
			return URLs{TagListing: repo.HTTPS(), Install: repo.Git()}, nil
		}
	}
	for _, loc := range []string{candidate, declaredLoc} {
		if deps.IsGitURL(loc) {
			return URLs{TagListing: loc, Install: loc}, nil
		}
	}

	return URLs{}, errors.New(errors.ErrCodeUnresolvableSource,
		"cannot derive a git repository from %q", candidate)
}

func stripRef(s string) string {
	loc, _, _ := strings.Cut(strings.TrimSpace(s), "#")
	return loc
}
