package tags

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// RunFunc executes name with args and returns its standard output.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Git lists tags by running `git ls-remote --tags`.
type Git struct {
	// Command is the git executable. Defaults to "git".
	Command string

	// Run executes the command. Defaults to [ExecRun].
	Run RunFunc
}

// ListTags implements Lister.
func (g *Git) ListTags(ctx context.Context, url string) ([]string, error) {
	cmd := g.Command
	if cmd == "" {
		cmd = "git"
	}
	run := g.Run
	if run == nil {
		run = ExecRun
	}

	return query(ctx, "git", url, func() (string, error) {
		out, err := run(ctx, cmd, "ls-remote", "--tags", transportURL(url))
		if err != nil {
			return "", err
		}
		return string(out), nil
	})
}

// transportURL drops the npm-only "git+" prefix from "git+<scheme>://" URLs,
// which git itself does not understand.
func transportURL(url string) string {
	if rest, ok := strings.CutPrefix(url, "git+"); ok && strings.Contains(rest, "://") {
		return rest
	}
	return url
}

// ExecRun runs the command as a child process. Interactive credential
// prompts are disabled so an unreachable private remote fails instead of
// blocking the run. Standard error is folded into the returned error.
func ExecRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}
