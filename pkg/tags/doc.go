// Package tags lists the semantic-version tags published at a git remote.
//
// # Overview
//
// A [Lister] takes a repository locator and returns the distinct version
// tags found there. Every transport produces text in `git ls-remote --tags`
// form, one "<40-hex sha><whitespace>refs/tags/<name>" entry per line, and
// [Parse] extracts the tags from it. Only strict "v?MAJOR.MINOR.PATCH" names
// without leading zeros survive; pre-release, build-metadata and non-semver
// tags are dropped silently.
//
// # Transports
//
//   - [Git] runs `git ls-remote --tags <url>` and works with any remote git can reach.
//   - [GitHub] asks the GitHub REST API for a repository's tag refs, falling
//     back to another Lister for repositories elsewhere.
//
// [Coalesced] wraps a Lister so that concurrent requests for the same URL
// share one remote query.
//
// A failed query is reported as a REMOTE_QUERY error and never yields a
// partial tag list.
package tags
