// Package github lists repository tags through the GitHub REST API.
//
// # Overview
//
// The tag transport normally shells out to `git ls-remote`. For github.com
// repositories the same information is available from the matching-refs
// endpoint, which works without a git binary and without SSH credentials.
// [Client.TagRefs] pages through every "refs/tags/" reference and renders the
// result in ls-remote text form, so the tags package parses both transports
// with one parser.
//
// # Usage
//
//	token, _, err := github.ResolveAuthToken(ctx, flagToken)
//	if err != nil {
//	    return err
//	}
//	client, err := github.NewClient(token, github.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	raw, err := client.TagRefs(ctx, "acme", "widget")
//
// # Authentication
//
// A token is optional. Without one the API allows 60 requests per hour, which
// is enough for a handful of dependencies but not for a large manifest.
// [ResolveAuthToken] looks for an explicit token, then GITHUB_TOKEN, then the
// GitHub CLI.
//
// # Errors
//
// Rate limiting is reported as RATE_LIMITED carrying an
// [errors.RateLimitedError] with the seconds until the limit resets. Bad or
// insufficient credentials are reported as UNAUTHORIZED.
package github
