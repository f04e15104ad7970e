package deps

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		raw     string
		want    Kind
		wantRef string
	}{
		{"^2.0.0", KindRegistry, ""},
		{"1.2.3", KindRegistry, ""},
		{"~1.2", KindRegistry, ""},
		{">=1.0.0 <2.0.0", KindRegistry, ""},
		{"latest", KindRegistry, ""},
		{"*", KindRegistry, ""},
		{"", KindRegistry, ""},
		{"npm:left-pad@^1.0.0", KindRegistry, ""},

		{"owner/repo", KindGitHub, ""},
		{"owner/repo#v1.0.0", KindGitHub, "v1.0.0"},
		{"github:owner/repo#1.0.0", KindGitHub, "1.0.0"},

		{"git://github.com/owner/repo.git#1.0.0", KindGit, "1.0.0"},
		{"git+ssh://git@github.com/owner/repo.git", KindGit, ""},
		{"git+https://git.example.com/team/lib.git#v2.1.0", KindGit, "v2.1.0"},
		{"ssh://git@example.com/lib.git", KindGit, ""},
		{"git@example.com:team/lib.git", KindGit, ""},
		{"gitlab:group/project", KindGit, ""},
		{"https://github.com/owner/repo", KindGit, ""},
		{"https://git.example.com/lib.git", KindGit, ""},
		{"https://gitlab.com/group/sub/repo#v1.0.0", KindGit, "v1.0.0"},

		{"https://example.com/lib-1.0.0.tgz", KindRemote, ""},
		{"http://example.com/download/lib", KindRemote, ""},

		{"file:../lib", KindLocal, ""},
		{"./vendor/lib", KindLocal, ""},
		{"../lib", KindLocal, ""},
		{"/opt/lib", KindLocal, ""},
		{"~/src/lib", KindLocal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Classify("dep", tt.raw)
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.want)
			}
			if got.Ref != tt.wantRef {
				t.Errorf("Classify(%q).Ref = %q, want %q", tt.raw, got.Ref, tt.wantRef)
			}
			if got.Name != "dep" || got.Raw != tt.raw {
				t.Errorf("Classify(%q) = %+v, name/raw not preserved", tt.raw, got)
			}
		})
	}
}

func TestKindEligible(t *testing.T) {
	eligible := map[Kind]bool{
		KindRegistry: false,
		KindGit:      true,
		KindGitHub:   true,
		KindRemote:   true,
		KindLocal:    false,
	}
	for kind, want := range eligible {
		if got := kind.Eligible(); got != want {
			t.Errorf("%s.Eligible() = %v, want %v", kind, got, want)
		}
	}
}

func TestSpecLocator(t *testing.T) {
	s := Spec{Name: "lib", Raw: "git://github.com/o/r.git#1.0.0"}
	if got, want := s.Locator(), "git://github.com/o/r.git"; got != want {
		t.Errorf("Locator() = %q, want %q", got, want)
	}
	if got, want := s.String(), "lib@git://github.com/o/r.git#1.0.0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIsGitURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"git://host/repo.git", true},
		{"git+ssh://git@host/repo.git#main", true},
		{"git+file:///srv/repo", true},
		{"ssh://host/repo", true},
		{"git@host:team/repo.git", true},
		{"https://host/repo.git", true},
		{"https://host/repo", false},
		{"https://gitlab.com/group/sub/repo", true},
		{"https://github.com/owner", false},
		{"git://", false},
		{"owner/repo", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsGitURL(tt.raw); got != tt.want {
			t.Errorf("IsGitURL(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
