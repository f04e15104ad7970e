package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopResolveHooks{}
	r.OnRunStart(ctx, "run-1", 3)
	r.OnDependencyResolved(ctx, "left-pad", "update", time.Second, nil)
	r.OnRunComplete(ctx, "run-1", 1, time.Second, nil)

	q := NoopRemoteHooks{}
	q.OnQueryStart(ctx, "git", "git://github.com/u/r")
	q.OnQueryComplete(ctx, "git", "git://github.com/u/r", 4, time.Second, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.github.com", "/repos/u/r/git/matching-refs/tags")
	h.OnResponse(ctx, "GET", "api.github.com", "/repos/u/r/git/matching-refs/tags", 200, time.Second)
	h.OnError(ctx, "GET", "api.github.com", "/repos/u/r/git/matching-refs/tags", nil)

	i := NoopInstallHooks{}
	i.OnInstallStart(ctx, []string{"git://github.com/u/r#1.2.0"})
	i.OnInstallComplete(ctx, []string{"git://github.com/u/r#1.2.0"}, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}
	if _, ok := Remote().(NoopRemoteHooks); !ok {
		t.Error("Remote() should return NoopRemoteHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Install().(NoopInstallHooks); !ok {
		t.Error("Install() should return NoopInstallHooks by default")
	}

	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
	}

	customRemote := &testRemoteHooks{}
	SetRemoteHooks(customRemote)
	if Remote() != customRemote {
		t.Error("SetRemoteHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	customInstall := &testInstallHooks{}
	SetInstallHooks(customInstall)
	if Install() != customInstall {
		t.Error("SetInstallHooks should set custom hooks")
	}

	Reset()
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Reset() should restore NoopResolveHooks")
	}
	if _, ok := Install().(NoopInstallHooks); !ok {
		t.Error("Reset() should restore NoopInstallHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRemoteHooks{}
	SetRemoteHooks(custom)
	SetRemoteHooks(nil)

	if Remote() != custom {
		t.Error("SetRemoteHooks(nil) should be ignored")
	}

	Reset()
}

type testResolveHooks struct{ NoopResolveHooks }
type testRemoteHooks struct{ NoopRemoteHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
type testInstallHooks struct{ NoopInstallHooks }
