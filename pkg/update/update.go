// Package update decides whether a newer release tag supersedes the
// installed version of a dependency.
//
// Versions are compared with Masterminds semver, so ordering is numeric at
// each level ("1.20.0" sorts above "1.9.0"). A tag only counts when it is a
// plain MAJOR.MINOR.PATCH release, with or without a leading "v".
package update

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/gitbump/pkg/errors"
)

// Update describes a dependency with a newer release available.
type Update struct {
	Name      string `json:"name"`
	Installed string `json:"installed"`
	Latest    string `json:"latest"`  // canonical form, no "v"
	Tag       string `json:"tag"`     // tag as published
	Locator   string `json:"locator"` // install URL + "#" + Latest
	Dev       bool   `json:"dev,omitempty"`
}

// Decide compares installed against the highest release in tags. It returns
// nil when there is nothing newer, including when tags is empty or holds no
// usable release. An unparseable installed version is an INVALID_VERSION
// error.
func Decide(installed string, tags []string, installURL string) (*Update, error) {
	current, err := ParseInstalled(installed)
	if err != nil {
		return nil, err
	}

	best, tag, ok := Max(tags)
	if !ok || !best.GreaterThan(current) {
		return nil, nil
	}

	latest := best.String()
	return &Update{
		Installed: installed,
		Latest:    latest,
		Tag:       tag,
		Locator:   installURL + "#" + latest,
	}, nil
}

// ParseInstalled parses the version recorded in an installed descriptor.
func ParseInstalled(installed string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(installed), "v"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVersion, err, "installed version %q is not a semantic version", installed)
	}
	return v, nil
}

// Max returns the highest release among tags and the tag it came from.
// Tags that are not plain releases are skipped. ok is false when none remain.
func Max(tags []string) (best *semver.Version, tag string, ok bool) {
	for _, t := range tags {
		v, valid := release(t)
		if !valid {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, tag = v, t
		}
	}
	return best, tag, best != nil
}

func release(tag string) (*semver.Version, bool) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil || v.Prerelease() != "" || v.Metadata() != "" {
		return nil, false
	}
	return v, true
}
