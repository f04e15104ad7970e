package github

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"

	"github.com/matzehuels/gitbump/pkg/buildinfo"
	"github.com/matzehuels/gitbump/pkg/errors"
	"github.com/matzehuels/gitbump/pkg/observability"
	"github.com/matzehuels/gitbump/pkg/retry"
)

const refsPerPage = 100

// Client wraps a go-github client.
type Client struct {
	API   *github.Client
	HTTP  *http.Client
	Retry retry.Policy
}

type options struct {
	baseURL string
	logger  *log.Logger
	base    http.RoundTripper
	retry   retry.Policy
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at a different API root, such as a test server.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithLogger logs every API request at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTransport sets the underlying HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithRetry sets how server errors and dropped connections are retried.
// Without it every request is tried once.
func WithRetry(p retry.Policy) Option {
	return func(o *options) { o.retry = p }
}

// NewClient creates a client. An empty token makes unauthenticated requests.
func NewClient(token string, opts ...Option) (*Client, error) {
	o := &options{base: http.DefaultTransport, retry: retry.Never}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}

	var transport http.RoundTripper = &hookedRoundTripper{base: o.base, logger: o.logger}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}
	hc := &http.Client{Transport: transport}

	api := github.NewClient(hc)
	api.UserAgent = buildinfo.UserAgent()
	if o.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid github api url %q", o.baseURL)
		}
		api.BaseURL = u
	}

	return &Client{API: api, HTTP: hc, Retry: o.retry}, nil
}

// TagRefs returns every tag ref of owner/repo as ls-remote text, one
// "<sha>\t<ref>" line per tag. An empty repository yields no lines.
func (c *Client) TagRefs(ctx context.Context, owner, repo string) (string, error) {
	opts := &github.ReferenceListOptions{
		Ref:         "tags",
		ListOptions: github.ListOptions{PerPage: refsPerPage},
	}

	var b strings.Builder
	for {
		var (
			refs []*github.Reference
			resp *github.Response
		)
		err := retry.Do(ctx, c.Retry, func() error {
			var err error
			refs, resp, err = c.API.Git.ListMatchingRefs(ctx, owner, repo, opts)
			if err != nil && ctx.Err() == nil && isTransient(err) {
				return retry.Transient(err)
			}
			return err
		})
		if err != nil {
			if isEmptyRepository(err) {
				return "", nil
			}
			return "", classify(err, owner, repo)
		}
		for _, ref := range refs {
			fmt.Fprintf(&b, "%s\t%s\n", ref.GetObject().GetSHA(), ref.GetRef())
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return b.String(), nil
}

// isEmptyRepository reports the 409 GitHub returns for a repository without
// commits.
func isEmptyRepository(err error) bool {
	var er *github.ErrorResponse
	return stderrors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusConflict
}

// isTransient reports server-side failures and errors that never produced
// a response at all.
func isTransient(err error) bool {
	var er *github.ErrorResponse
	if stderrors.As(err, &er) {
		return er.Response != nil && er.Response.StatusCode >= http.StatusInternalServerError
	}
	var rle *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	return !stderrors.As(err, &rle) && !stderrors.As(err, &abuse)
}

func classify(err error, owner, repo string) error {
	var rle *github.RateLimitError
	if stderrors.As(err, &rle) {
		retry := int(time.Until(rle.Rate.Reset.Time).Seconds())
		return errors.Wrap(errors.ErrCodeRateLimited,
			&errors.RateLimitedError{RetryAfter: max(retry, 0), Message: rle.Message},
			"github api rate limit exceeded")
	}

	var abuse *github.AbuseRateLimitError
	if stderrors.As(err, &abuse) {
		retry := 0
		if d := abuse.GetRetryAfter(); d > 0 {
			retry = int(d.Seconds())
		}
		return errors.Wrap(errors.ErrCodeRateLimited,
			&errors.RateLimitedError{RetryAfter: retry, Message: abuse.Message},
			"github api secondary rate limit exceeded")
	}

	var er *github.ErrorResponse
	if stderrors.As(err, &er) && er.Response != nil {
		switch er.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.Wrap(errors.ErrCodeUnauthorized, err, "github denied access to %s/%s", owner, repo)
		case http.StatusNotFound:
			return errors.Wrap(errors.ErrCodeRemoteQuery, err, "github repository %s/%s not found", owner, repo)
		}
	}
	return err
}

// hookedRoundTripper reports each request to the HTTP hooks and, when a
// logger is set, logs it at debug level.
type hookedRoundTripper struct {
	base   http.RoundTripper
	logger *log.Logger
}

func (t *hookedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start)

	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if t.logger != nil {
			t.logger.Debug("github api error", "method", req.Method, "path", path, "duration", dur.Truncate(time.Millisecond), "error", err)
		}
		return nil, err
	}

	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, dur)
	if t.logger != nil {
		t.logger.Debug("github api", "method", req.Method, "path", path, "status", resp.StatusCode, "duration", dur.Truncate(time.Millisecond))
	}
	return resp, nil
}
