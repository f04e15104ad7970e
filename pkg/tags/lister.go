package tags

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/gitbump/pkg/errors"
	"github.com/matzehuels/gitbump/pkg/observability"
)

// Lister retrieves the distinct semver tags published at a remote.
type Lister interface {
	// ListTags queries the remote identified by url. The locator is handed
	// to the transport unvalidated.
	ListTags(ctx context.Context, url string) ([]string, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(ctx context.Context, url string) ([]string, error)

// ListTags calls f.
func (f ListerFunc) ListTags(ctx context.Context, url string) ([]string, error) {
	return f(ctx, url)
}

// Coalesced shares one in-flight query between concurrent callers asking
// for the same URL. Nothing is remembered once the query returns.
type Coalesced struct {
	Lister Lister
	group  singleflight.Group
}

// NewCoalesced wraps l.
func NewCoalesced(l Lister) *Coalesced {
	return &Coalesced{Lister: l}
}

// ListTags implements Lister.
func (c *Coalesced) ListTags(ctx context.Context, url string) ([]string, error) {
	v, err, _ := c.group.Do(url, func() (any, error) {
		return c.Lister.ListTags(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	tags := v.([]string)
	return append([]string(nil), tags...), nil
}

// query runs fetch with remote hooks around it and parses its output.
// Failures are reported as REMOTE_QUERY errors.
func query(ctx context.Context, transport, url string, fetch func() (string, error)) ([]string, error) {
	hooks := observability.Remote()
	hooks.OnQueryStart(ctx, transport, url)
	start := time.Now()

	raw, err := fetch()
	if err != nil {
		err = errors.Wrap(errors.ErrCodeRemoteQuery, err, "list tags at %s", url)
		hooks.OnQueryComplete(ctx, transport, url, 0, time.Since(start), err)
		return nil, err
	}

	tags := Parse(raw)
	hooks.OnQueryComplete(ctx, transport, url, len(tags), time.Since(start), nil)
	return tags, nil
}
