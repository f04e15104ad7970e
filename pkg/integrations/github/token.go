package github

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/gitbump/pkg/errors"
)

// TokenSource names where a resolved token came from.
type TokenSource string

const (
	TokenSourceNone     TokenSource = ""
	TokenSourceExplicit TokenSource = "explicit"
	TokenSourceEnv      TokenSource = "env:GITHUB_TOKEN"
	TokenSourceCLI      TokenSource = "gh"
)

// ghTimeout bounds the `gh auth token` call when ctx has no deadline.
const ghTimeout = 5 * time.Second

// ResolveAuthToken resolves a GitHub access token.
//
// Precedence:
//  1. provided (if non-empty)
//  2. GITHUB_TOKEN env var
//  3. GitHub CLI: `gh auth token -h github.com`
//
// Finding no token is not an error. The token itself is never logged.
func ResolveAuthToken(ctx context.Context, provided string) (string, TokenSource, error) {
	if tok := strings.TrimSpace(provided); tok != "" {
		return tok, TokenSourceExplicit, nil
	}
	if env := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); env != "" {
		return env, TokenSourceEnv, nil
	}

	tok, err := tokenFromCLI(ctx)
	if err != nil {
		return "", TokenSourceNone, err
	}
	if tok != "" {
		return tok, TokenSourceCLI, nil
	}
	return "", TokenSourceNone, nil
}

func tokenFromCLI(ctx context.Context) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", nil
	}

	cmdCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, ghTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, "gh", "auth", "token", "-h", "github.com")
	env := os.Environ()
	filtered := env[:0:0]
	for _, entry := range env {
		if !strings.HasPrefix(entry, "GH_PAGER=") {
			filtered = append(filtered, entry)
		}
	}
	cmd.Env = append(filtered, "GH_PAGER=cat")

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// Not logged in, or a timeout of our own: carry on unauthenticated.
		return "", nil
	}

	tok := strings.TrimSpace(string(out))
	if strings.ContainsAny(tok, " \t\n\r") {
		return "", errors.New(errors.ErrCodeUnauthorized, "invalid token returned by gh: contains whitespace")
	}
	return tok, nil
}
