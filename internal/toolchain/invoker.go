package toolchain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentx-labs/cargonative/internal/logging"
	"github.com/kballard/go-shellquote"
	"github.com/sourcegraph/conc"
)

// Invoker runs commands of one external tool in one working directory.
type Invoker struct {
	// ToolPath is the tool executable; DefaultTool when empty.
	ToolPath string
	// Dir is the working directory of every command.
	Dir string
	// Env overrides are applied on top of the inherited environment.
	Env map[string]string
	// Checker diagnoses launch failures. Optional.
	Checker *Checker
	// Log receives the command line and every output line. Optional.
	Log logging.Logger
}

// Tool returns the tool path that will be executed, with "~/" expanded.
func (inv *Invoker) Tool() string {
	if inv.ToolPath == "" {
		return DefaultTool
	}
	return ExpandHome(inv.ToolPath)
}

// Run executes the tool with args and blocks until it exits.
//
// A non-zero exit returns *ExitError. If the process cannot be started,
// the Checker's diagnostic is returned when it has one, otherwise the
// launch error wrapped.
func (inv *Invoker) Run(ctx context.Context, args ...string) error {
	log := logging.OrNop(inv.Log)
	tool := inv.Tool()

	log.Infof("Working directory: %s", inv.Dir)
	if len(inv.Env) > 0 {
		log.Infof("Environment variables:")
		keys := make([]string, 0, len(inv.Env))
		for k := range inv.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			log.Infof("  %s=%s", k, shellquote.Join(inv.Env[k]))
		}
	}
	log.Infof("Running: %s", shellquote.Join(append([]string{tool}, args...)...))

	err := inv.run(ctx, tool, args, log)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	if inv.Checker != nil {
		if diag := inv.Checker.Check(ctx, tool); diag != nil {
			return diag
		}
	}
	return fmt.Errorf("failed to invoke %s: %w", toolName(tool), err)
}

func (inv *Invoker) run(ctx context.Context, tool string, args []string, log logging.Logger) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = inv.Dir
	cmd.Env = MergeEnv(os.Environ(), inv.Env)

	pr, pw, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("creating output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return err
	}
	// The child holds its own copy of the write end.
	pw.Close()

	var wg conc.WaitGroup
	wg.Go(func() {
		defer pr.Close()
		drain(pr, log)
	})

	waitErr := cmd.Wait()
	wg.Wait()

	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &ExitError{Tool: toolName(tool), Code: exitErr.ExitCode()}
	}
	return waitErr
}

// drain logs r line by line until EOF.
func drain(r io.Reader, log logging.Logger) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			log.Infof("%s", strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			return
		}
	}
}

func toolName(tool string) string {
	return strings.TrimSuffix(filepath.Base(tool), ".exe")
}
