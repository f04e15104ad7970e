package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitbump/pkg/errors"
)

// project writes a package.json and the installed descriptors into a
// temporary directory.
type project struct {
	deps      map[string]string
	devDeps   map[string]string
	installed map[string]descriptor
}

type descriptor struct {
	version string
	repo    any
}

func (p project) write(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "package.json"), map[string]any{
		"name":            "app",
		"version":         "0.0.0",
		"dependencies":    p.deps,
		"devDependencies": p.devDeps,
	})
	for name, d := range p.installed {
		doc := map[string]any{"name": name, "version": d.version}
		if d.repo != nil {
			doc["repository"] = d.repo
		}
		writeJSON(t, filepath.Join(dir, "node_modules", filepath.FromSlash(name), "package.json"), doc)
	}
	return dir
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// fakeLister serves canned tag lists keyed by URL and records every query.
type fakeLister struct {
	mu      sync.Mutex
	tags    map[string][]string
	fail    map[string]error
	queried []string
}

func (f *fakeLister) ListTags(_ context.Context, url string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried = append(f.queried, url)
	if err, ok := f.fail[url]; ok {
		return nil, err
	}
	if t, ok := f.tags[url]; ok {
		return t, nil
	}
	return nil, nil
}

func (f *fakeLister) sortedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := slices.Clone(f.queried)
	slices.Sort(q)
	return q
}

type fakeInstaller struct {
	calls [][]string
	err   error
}

func (f *fakeInstaller) Install(_ context.Context, _ string, locators []string) error {
	f.calls = append(f.calls, locators)
	return f.err
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func remoteErr(url string) error {
	return errors.Wrap(errors.ErrCodeRemoteQuery, fmt.Errorf("repository not found"), "list tags at %s", url)
}

// standard is a manifest with one dependency of every interesting kind.
func standard() project {
	return project{
		deps: map[string]string{
			"widget":  "acme/widget#v1.0.0",
			"gadget":  "git+https://git.example.com/team/gadget.git#1.0.0",
			"leftpad": "^2.0.0",
		},
		devDeps: map[string]string{
			"tester": "github:acme/tester",
		},
		installed: map[string]descriptor{
			"widget":  {version: "1.0.0", repo: map[string]any{"type": "git", "url": "git+ssh://git@github.com/acme/widget.git"}},
			"gadget":  {version: "1.0.0"},
			"leftpad": {version: "2.0.1"},
			"tester":  {version: "0.3.0", repo: "https://github.com/acme/tester"},
		},
	}
}

func standardLister() *fakeLister {
	return &fakeLister{tags: map[string][]string{
		"https://github.com/acme/widget":              {"v1.0.0", "v1.2.0", "v1.1.0"},
		"git+https://git.example.com/team/gadget.git": {"1.0.0"},
		"https://github.com/acme/tester":              {"0.3.0", "0.10.0", "0.9.0"},
	}}
}

func TestResolveOne(t *testing.T) {
	dir := standard().write(t)
	lister := standardLister()
	r := NewRunner(lister, &fakeInstaller{}, quietLogger())

	u, err := r.ResolveOne(context.Background(), "widget", dir)
	if err != nil {
		t.Fatalf("ResolveOne: %v", err)
	}
	if u == nil {
		t.Fatal("expected an update")
	}
	if u.Locator != "git://github.com/acme/widget#1.2.0" {
		t.Errorf("Locator = %q", u.Locator)
	}
	if u.Name != "widget" || u.Installed != "1.0.0" || u.Latest != "1.2.0" {
		t.Errorf("update = %+v", u)
	}

	u, err = r.ResolveOne(context.Background(), "gadget", dir)
	if err != nil {
		t.Fatalf("ResolveOne(gadget): %v", err)
	}
	if u != nil {
		t.Errorf("gadget is current, got %+v", u)
	}
}

func TestResolveOneRegistryNeverQueried(t *testing.T) {
	dir := standard().write(t)
	lister := standardLister()
	r := NewRunner(lister, &fakeInstaller{}, quietLogger())

	u, err := r.ResolveOne(context.Background(), "leftpad", dir)
	if err != nil || u != nil {
		t.Fatalf("ResolveOne(leftpad) = %+v, %v; want nil, nil", u, err)
	}
	if len(lister.queried) != 0 {
		t.Errorf("registry dependency queried %v", lister.queried)
	}
}

func TestResolve(t *testing.T) {
	dir := standard().write(t)
	lister := standardLister()
	r := NewRunner(lister, &fakeInstaller{}, quietLogger())

	res, err := r.Resolve(context.Background(), []string{"widget", "gadget", "leftpad", "tester"}, dir, Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := []string{"git://github.com/acme/widget#1.2.0", "git://github.com/acme/tester#0.10.0"}
	if got := res.Locators(); !reflect.DeepEqual(got, want) {
		t.Errorf("Locators() = %v, want %v", got, want)
	}
	if len(res.Current) != 1 || res.Current[0].Name != "gadget" {
		t.Errorf("Current = %v, want [gadget]", res.Current)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Name != "leftpad" {
		t.Errorf("Skipped = %v, want [leftpad]", res.Skipped)
	}
	if res.RunID == "" {
		t.Error("RunID not set")
	}
	if res.Stats.Queried != 3 {
		t.Errorf("Queried = %d, want 3", res.Stats.Queried)
	}
	if res.Updates[0].Dev || !res.Updates[1].Dev {
		t.Errorf("Dev flags = %v, %v; want false, true", res.Updates[0].Dev, res.Updates[1].Dev)
	}

	wantQueries := []string{
		"git+https://git.example.com/team/gadget.git",
		"https://github.com/acme/tester",
		"https://github.com/acme/widget",
	}
	if got := lister.sortedQueries(); !reflect.DeepEqual(got, wantQueries) {
		t.Errorf("queried %v, want %v", got, wantQueries)
	}
}

func TestResolveRepeatedNames(t *testing.T) {
	dir := standard().write(t)
	lister := standardLister()
	r := NewRunner(lister, &fakeInstaller{}, quietLogger())

	res, err := r.Resolve(context.Background(), []string{"widget", "gadget", "widget"}, dir, Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"git://github.com/acme/widget#1.2.0"}
	if got := res.Locators(); !reflect.DeepEqual(got, want) {
		t.Errorf("Locators() = %v, want %v", got, want)
	}
	if got := lister.sortedQueries(); len(got) != 2 {
		t.Errorf("queried %v, want each remote once", got)
	}
}

func TestResolveOneInvalidName(t *testing.T) {
	dir := standard().write(t)
	r := NewRunner(standardLister(), &fakeInstaller{}, quietLogger())

	for _, name := range []string{"", "../etc", "a\\b"} {
		if _, err := r.ResolveOne(context.Background(), name, dir); !errors.Is(err, errors.ErrCodeInvalidPackage) {
			t.Errorf("ResolveOne(%q) err = %v, want %s", name, err, errors.ErrCodeInvalidPackage)
		}
	}
}

func TestResolveAllWhenNoNames(t *testing.T) {
	dir := standard().write(t)
	r := NewRunner(standardLister(), &fakeInstaller{}, quietLogger())

	res, err := r.Resolve(context.Background(), nil, dir, Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// dependencies sorted, then devDependencies.
	want := []string{"widget", "tester"}
	var got []string
	for _, u := range res.Updates {
		got = append(got, u.Name)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("updates = %v, want %v", got, want)
	}
}

func TestResolveFatalErrors(t *testing.T) {
	tests := []struct {
		name     string
		project  project
		names    []string
		lister   *fakeLister
		wantCode errors.Code
	}{
		{
			name:     "missing dependency",
			project:  standard(),
			names:    []string{"widget", "nope"},
			wantCode: errors.ErrCodeMissingDependency,
		},
		{
			name:     "path traversal",
			project:  standard(),
			names:    []string{"../etc"},
			wantCode: errors.ErrCodeInvalidPackage,
		},
		{
			name: "not installed",
			project: project{
				deps: map[string]string{"widget": "acme/widget"},
			},
			names:    []string{"widget"},
			wantCode: errors.ErrCodeInvalidDescriptor,
		},
		{
			name: "invalid installed version",
			project: project{
				deps:      map[string]string{"widget": "acme/widget"},
				installed: map[string]descriptor{"widget": {version: "latest"}},
			},
			names:    []string{"widget"},
			wantCode: errors.ErrCodeInvalidVersion,
		},
		{
			name: "unresolvable remote tarball",
			project: project{
				deps:      map[string]string{"blob": "https://cdn.example.com/blob-1.0.0.tgz"},
				installed: map[string]descriptor{"blob": {version: "1.0.0"}},
			},
			names:    []string{"blob"},
			wantCode: errors.ErrCodeUnresolvableSource,
		},
		{
			name:     "remote query failure",
			project:  standard(),
			names:    []string{"widget", "gadget"},
			lister:   &fakeLister{fail: map[string]error{"https://github.com/acme/widget": remoteErr("https://github.com/acme/widget")}},
			wantCode: errors.ErrCodeRemoteQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.project.write(t)
			lister := tt.lister
			if lister == nil {
				lister = standardLister()
			}
			inst := &fakeInstaller{}
			r := NewRunner(lister, inst, quietLogger())

			res, err := r.Update(context.Background(), tt.names, dir, Options{})
			if err == nil {
				t.Fatalf("Update succeeded with %v, want %s", res.Locators(), tt.wantCode)
			}
			if res != nil {
				t.Errorf("partial result returned: %+v", res)
			}
			if code := errors.GetCode(err); code != tt.wantCode {
				t.Errorf("code = %s, want %s (%v)", code, tt.wantCode, err)
			}
			if len(inst.calls) != 0 {
				t.Errorf("installer ran after failure: %v", inst.calls)
			}
		})
	}
}

func TestResolveMissingManifest(t *testing.T) {
	r := NewRunner(&fakeLister{}, &fakeInstaller{}, quietLogger())
	_, err := r.Resolve(context.Background(), []string{"widget"}, t.TempDir(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("err = %v, want INVALID_MANIFEST", err)
	}
}

func TestResolveFailureNamesDependency(t *testing.T) {
	dir := standard().write(t)
	url := "https://github.com/acme/tester"
	r := NewRunner(&fakeLister{fail: map[string]error{url: remoteErr(url)}}, &fakeInstaller{}, quietLogger())

	_, err := r.Resolve(context.Background(), []string{"tester"}, dir, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if msg := errors.UserMessage(err); !strings.HasPrefix(msg, "dependency tester") {
		t.Errorf("UserMessage = %q, want it to start with the dependency name", msg)
	}
}

func TestResolveKeepGoing(t *testing.T) {
	p := standard()
	p.deps["blob"] = "https://cdn.example.com/blob-1.0.0.tgz"
	p.installed["blob"] = descriptor{version: "1.0.0"}
	dir := p.write(t)

	lister := standardLister()
	lister.fail = map[string]error{"https://github.com/acme/widget": remoteErr("https://github.com/acme/widget")}
	r := NewRunner(lister, &fakeInstaller{}, quietLogger())

	res, err := r.Resolve(context.Background(), nil, dir, Options{KeepGoing: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if want := []string{"git://github.com/acme/tester#0.10.0"}; !reflect.DeepEqual(res.Locators(), want) {
		t.Errorf("Locators() = %v, want %v", res.Locators(), want)
	}
	var failed []string
	for _, f := range res.Failed {
		failed = append(failed, f.Spec.Name)
	}
	if want := []string{"blob", "widget"}; !reflect.DeepEqual(failed, want) {
		t.Errorf("Failed = %v, want %v", failed, want)
	}
}

func TestResolveKeepGoingStillFatal(t *testing.T) {
	p := standard()
	p.installed["widget"] = descriptor{version: "not-a-version"}
	dir := p.write(t)

	r := NewRunner(standardLister(), &fakeInstaller{}, quietLogger())
	_, err := r.Resolve(context.Background(), nil, dir, Options{KeepGoing: true})
	if !errors.Is(err, errors.ErrCodeInvalidVersion) {
		t.Errorf("err = %v, want INVALID_VERSION", err)
	}
}

func TestResolveCanceled(t *testing.T) {
	dir := standard().write(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lister := &fakeLister{}
	r := NewRunner(tagsHonoringContext{lister}, &fakeInstaller{}, quietLogger())
	_, err := r.Resolve(ctx, []string{"widget"}, dir, Options{KeepGoing: true})
	if err == nil {
		t.Fatal("canceled run succeeded")
	}
}

// tagsHonoringContext fails like a real transport once ctx is done.
type tagsHonoringContext struct{ inner *fakeLister }

func (l tagsHonoringContext) ListTags(ctx context.Context, url string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRemoteQuery, err, "list tags at %s", url)
	}
	return l.inner.ListTags(ctx, url)
}

func TestUpdateInstallsOnce(t *testing.T) {
	dir := standard().write(t)
	inst := &fakeInstaller{}
	r := NewRunner(standardLister(), inst, quietLogger())

	res, err := r.Update(context.Background(), nil, dir, Options{Concurrency: 2})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(inst.calls) != 1 {
		t.Fatalf("installer called %d times, want 1", len(inst.calls))
	}
	if !reflect.DeepEqual(inst.calls[0], res.Locators()) {
		t.Errorf("installed %v, want %v", inst.calls[0], res.Locators())
	}
	if !res.Installed {
		t.Error("Installed not set")
	}
}

func TestUpdateSkipsInstall(t *testing.T) {
	t.Run("no updates", func(t *testing.T) {
		dir := standard().write(t)
		inst := &fakeInstaller{}
		r := NewRunner(standardLister(), inst, quietLogger())

		res, err := r.Update(context.Background(), []string{"gadget", "leftpad"}, dir, Options{})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if len(inst.calls) != 0 || res.Installed {
			t.Errorf("installer ran for an empty update list: %v", inst.calls)
		}
	})

	t.Run("dry run", func(t *testing.T) {
		dir := standard().write(t)
		inst := &fakeInstaller{}
		r := NewRunner(standardLister(), inst, quietLogger())

		res, err := r.Update(context.Background(), []string{"widget"}, dir, Options{DryRun: true})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if len(inst.calls) != 0 || res.Installed {
			t.Errorf("installer ran in dry-run mode: %v", inst.calls)
		}
		if len(res.Updates) != 1 {
			t.Errorf("dry run reported %d updates, want 1", len(res.Updates))
		}
	})
}

func TestUpdateInstallFailure(t *testing.T) {
	dir := standard().write(t)
	inst := &fakeInstaller{err: errors.New(errors.ErrCodeInstall, "npm exited 1")}
	r := NewRunner(standardLister(), inst, quietLogger())

	res, err := r.Update(context.Background(), []string{"widget"}, dir, Options{})
	if !errors.Is(err, errors.ErrCodeInstall) {
		t.Fatalf("err = %v, want INSTALL_FAILED", err)
	}
	if res == nil || res.Installed {
		t.Errorf("result = %+v, want resolved but not installed", res)
	}
}
