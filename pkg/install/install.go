// Package install hands resolved install locators to the package manager.
package install

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/gitbump/pkg/errors"
	"github.com/matzehuels/gitbump/pkg/observability"
)

// Installer installs a batch of locators into the project at basedir.
type Installer interface {
	Install(ctx context.Context, basedir string, locators []string) error
}

// Command describes one process invocation.
type Command struct {
	Dir    string
	Name   string
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

// RunFunc executes a command.
type RunFunc func(ctx context.Context, cmd Command) error

// DefaultArgs are used when NPM.Args is empty.
var DefaultArgs = []string{"install"}

// NPM installs by running `npm install <locators...>` in basedir.
type NPM struct {
	Command string    // executable, "npm" if empty
	Args    []string  // arguments before the locators, DefaultArgs if empty
	Stdout  io.Writer // os.Stdout if nil
	Stderr  io.Writer // os.Stderr if nil
	Run     RunFunc   // ExecRun if nil
}

// Install implements Installer. An empty batch does nothing.
func (n *NPM) Install(ctx context.Context, basedir string, locators []string) error {
	if len(locators) == 0 {
		return nil
	}

	cmd := n.command(basedir, locators)
	run := n.Run
	if run == nil {
		run = ExecRun
	}

	hooks := observability.Install()
	hooks.OnInstallStart(ctx, locators)
	start := time.Now()

	err := run(ctx, cmd)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInstall, err, "%s %s", cmd.Name, strings.Join(cmd.Args, " "))
	}
	hooks.OnInstallComplete(ctx, locators, time.Since(start), err)
	return err
}

func (n *NPM) command(basedir string, locators []string) Command {
	name := n.Command
	if name == "" {
		name = "npm"
	}
	args := n.Args
	if len(args) == 0 {
		args = DefaultArgs
	}
	stdout, stderr := n.Stdout, n.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return Command{
		Dir:    basedir,
		Name:   name,
		Args:   append(append([]string(nil), args...), locators...),
		Stdout: stdout,
		Stderr: stderr,
	}
}

// ExecRun runs cmd as a child process.
func ExecRun(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr
	return c.Run()
}

// Func adapts a function to the Installer interface.
type Func func(ctx context.Context, basedir string, locators []string) error

// Install calls f.
func (f Func) Install(ctx context.Context, basedir string, locators []string) error {
	return f(ctx, basedir, locators)
}
