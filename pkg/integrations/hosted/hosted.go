// Package hosted recognizes repositories on well-known git hosting services.
//
// Package manifests record the same repository in many shapes: "owner/repo",
// "github:owner/repo", "git+ssh://git@github.com/owner/repo.git",
// "git@github.com:owner/repo", "https://github.com/owner/repo/tree/main" and so
// on. [Parse] reduces all of them to a [Repo], which renders the canonical
// forms used for tag listing ([Repo.HTTPS]) and installation ([Repo.Git]).
//
// Locators on hosts that are not listed in [Services] are never parsed; they
// are left to the caller to use verbatim. So are paths that do not reduce to
// exactly one owner/repo pair, such as GitLab subgroup projects.
package hosted

import (
	"regexp"
	"strings"
)

// Service is a git hosting service with a well-known owner/repo layout.
type Service struct {
	Name string // Shorthand prefix, e.g. "github" in "github:owner/repo"
	Host string // Canonical host name

	// Nested services allow group/subgroup/repo paths, so segments after
	// the second cannot be read as a browse suffix like /tree/main.
	Nested bool
}

// Services lists the recognized hosting services. The first entry is the
// default for bare "owner/repo" shorthands.
var Services = []Service{
	{Name: "github", Host: "github.com"},
	{Name: "gitlab", Host: "gitlab.com", Nested: true},
	{Name: "bitbucket", Host: "bitbucket.org"},
}

// Repo identifies a repository on a hosting service.
type Repo struct {
	Host  string
	Owner string
	Name  string
}

// HTTPS returns the https://<host>/<owner>/<name> form.
func (r Repo) HTTPS() string { return "https://" + r.path() }

// Git returns the git://<host>/<owner>/<name> form.
func (r Repo) Git() string { return "git://" + r.path() }

// IsGitHub reports whether the repository lives on github.com.
func (r Repo) IsGitHub() bool { return r.Host == "github.com" }

func (r Repo) path() string { return r.Host + "/" + r.Owner + "/" + r.Name }

var (
	// scheme://[user@][www.]host[:port](/|:)path
	urlPattern = regexp.MustCompile(`^(?:git\+)?(?:git|ssh|https?)://(?:[^@/]+@)?(?:www\.)?([^/:@]+)(?::\d+)?[:/]+([^?#]*)`)

	// [user@][www.]host:owner/repo
	scpPattern = regexp.MustCompile(`^(?:[^@/\s]+@)?(?:www\.)?([^@/:\s]+):/?([^/\s]+)/([^/\s]+?)/?$`)

	// owner/repo
	shorthandPattern = regexp.MustCompile(`^([^@%/\s.:-][^:@%/\s]*)/([^@\s/%:]+)$`)
)

// Parse recognizes raw as a repository on one of [Services]. A trailing
// "#ref" fragment is ignored. It reports false for anything else, including
// well-formed git URLs on other hosts.
func Parse(raw string) (Repo, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return Repo{}, false
	}

	for _, svc := range Services {
		if rest, ok := strings.CutPrefix(s, svc.Name+":"); ok {
			m := shorthandPattern.FindStringSubmatch(rest)
			if m == nil {
				return Repo{}, false
			}
			return newRepo(svc.Host, m[1], m[2])
		}
	}

	if strings.Contains(s, "://") {
		m := urlPattern.FindStringSubmatch(s)
		if m == nil {
			return Repo{}, false
		}
		owner, name, ok := splitPath(m[1], m[2])
		if !ok {
			return Repo{}, false
		}
		return newRepo(m[1], owner, name)
	}

	if strings.Contains(s, ":") {
		m := scpPattern.FindStringSubmatch(s)
		if m == nil {
			return Repo{}, false
		}
		return newRepo(m[1], m[2], m[3])
	}

	if m := shorthandPattern.FindStringSubmatch(s); m != nil {
		return newRepo(Services[0].Host, m[1], m[2])
	}
	return Repo{}, false
}

// IsShorthand reports whether raw is a bare "owner/repo[#ref]" locator.
func IsShorthand(raw string) bool {
	s, _, _ := strings.Cut(strings.TrimSpace(raw), "#")
	return shorthandPattern.MatchString(s)
}

// ServiceShorthand reports whether raw uses a "<service>:" prefix such as
// "gitlab:owner/repo", and returns the service.
func ServiceShorthand(raw string) (Service, bool) {
	for _, svc := range Services {
		if strings.HasPrefix(raw, svc.Name+":") {
			return svc, true
		}
	}
	return Service{}, false
}

// KnownHost reports whether host belongs to one of [Services].
func KnownHost(host string) bool {
	_, ok := serviceFor(host)
	return ok
}

func serviceFor(host string) (Service, bool) {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for _, svc := range Services {
		if svc.Host == host {
			return svc, true
		}
	}
	return Service{}, false
}

// splitPath reads owner and repo from a URL path on host. Flat services
// take the first two segments and ignore the rest. Nested services stop at
// the "/-/" browse marker and need exactly two segments before it.
func splitPath(host, path string) (owner, name string, ok bool) {
	svc, known := serviceFor(host)
	if !known {
		return "", "", false
	}

	var segs []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "-" && svc.Nested {
			break
		}
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	if len(segs) < 2 || (svc.Nested && len(segs) != 2) {
		return "", "", false
	}
	return segs[0], segs[1], true
}

func newRepo(host, owner, name string) (Repo, bool) {
	host = strings.ToLower(host)
	if !KnownHost(host) {
		return Repo{}, false
	}
	name = strings.TrimSuffix(name, ".git")
	if owner == "" || name == "" {
		return Repo{}, false
	}
	return Repo{Host: strings.TrimPrefix(host, "www."), Owner: owner, Name: name}, true
}
