package deps

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/gitbump/pkg/integrations/hosted"
)

// Kind classifies where a dependency's declared locator points.
type Kind string

const (
	KindRegistry Kind = "registry" // Version range, dist-tag or npm: alias
	KindGit      Kind = "git"      // Git remote URL or non-GitHub hosted shorthand
	KindGitHub   Kind = "github"   // owner/repo or github:owner/repo
	KindRemote   Kind = "remote"   // Tarball URL
	KindLocal    Kind = "local"    // file: or filesystem path
)

// Eligible reports whether dependencies of this kind can be checked for
// newer upstream tags.
func (k Kind) Eligible() bool {
	switch k {
	case KindGit, KindGitHub, KindRemote:
		return true
	}
	return false
}

// Spec is a dependency as declared in a manifest.
type Spec struct {
	Name string // Package name
	Raw  string // Declared version or locator, verbatim
	Kind Kind   // Source classification
	Ref  string // "#fragment" of git-family locators, without the '#'
	Dev  bool   // Declared under devDependencies
}

// Locator returns the declared locator without its "#ref" fragment.
func (s Spec) Locator() string {
	loc, _, _ := strings.Cut(s.Raw, "#")
	return loc
}

// String renders the spec as name@raw.
func (s Spec) String() string {
	return s.Name + "@" + s.Raw
}

var gitSchemes = []string{
	"git://",
	"git+ssh://",
	"git+https://",
	"git+http://",
	"git+file://",
	"ssh://",
}

// user@host:path with a non-numeric path, as written by scp and ssh remotes.
var scpLike = regexp.MustCompile(`^[^@/\s:]+@[^@/\s:]+:[^\s]+$`)

// Classify determines the Kind of a declared locator.
func Classify(name, raw string) Spec {
	s := Spec{Name: name, Raw: raw}
	loc := strings.TrimSpace(raw)
	s.Kind = classify(loc)
	if s.Kind == KindGit || s.Kind == KindGitHub {
		if _, ref, ok := strings.Cut(loc, "#"); ok {
			s.Ref = ref
		}
	}
	return s
}

// IsGitURL reports whether raw (without fragment) is a URL a git client can
// talk to directly.
func IsGitURL(raw string) bool {
	loc, _, _ := strings.Cut(strings.TrimSpace(raw), "#")
	if loc == "" {
		return false
	}
	for _, scheme := range gitSchemes {
		if strings.HasPrefix(loc, scheme) {
			return len(loc) > len(scheme)
		}
	}
	if scpLike.MatchString(loc) {
		return true
	}
	if isHTTP(loc) {
		return strings.HasSuffix(loc, ".git") || isHostedRepoURL(loc)
	}
	return false
}

// isHostedRepoURL reports an http(s) URL with at least an owner and a repo
// segment on a known hosting service. Hosting services serve git over
// these URLs without the ".git" suffix.
func isHostedRepoURL(loc string) bool {
	u, err := url.Parse(loc)
	if err != nil || !hosted.KnownHost(u.Hostname()) {
		return false
	}
	n := 0
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			n++
		}
	}
	return n >= 2
}

func classify(loc string) Kind {
	switch {
	case loc == "":
		return KindRegistry
	case strings.HasPrefix(loc, "npm:"):
		return KindRegistry
	case isLocal(loc):
		return KindLocal
	}

	if svc, ok := hosted.ServiceShorthand(loc); ok {
		if svc.Name == "github" {
			return KindGitHub
		}
		return KindGit
	}
	if hosted.IsShorthand(loc) {
		return KindGitHub
	}
	if IsGitURL(loc) {
		return KindGit
	}
	if isHTTP(loc) {
		if _, ok := hosted.Parse(loc); ok {
			return KindGit
		}
		return KindRemote
	}
	return KindRegistry
}

func isHTTP(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

func isLocal(loc string) bool {
	for _, prefix := range []string{"file:", "./", "../", "/", "~/"} {
		if strings.HasPrefix(loc, prefix) {
			return true
		}
	}
	return loc == "." || loc == ".."
}
