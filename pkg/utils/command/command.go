package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/vtripolitakis/task-executor/pkg/cerrors"
	"github.com/vtripolitakis/task-executor/pkg/log"
	"github.com/vtripolitakis/task-executor/pkg/math"
	"github.com/vtripolitakis/task-executor/pkg/types"
)

// DefaultShell is used whenever the runner has no explicit shell configured
const DefaultShell = "/bin/sh"

// errOutputLimit bounds the stderr tail kept for diagnostics
const errOutputLimit = 4096

// Outcome is the result of one command execution
type Outcome struct {
	Duration time.Duration
	ExitCode int
	Output   string
	Err      error
}

// Succeeded reports whether the command ran to completion with a zero exit code
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// ShellRunner executes commands through a local shell, blocking until each completes.
// The zero value runs everything through /bin/sh.
type ShellRunner struct {
	Shell string
}

// NewShellRunner returns a runner bound to the given shell binary
func NewShellRunner(shell string) *ShellRunner {
	if shell == "" {
		shell = DefaultShell
	}
	return &ShellRunner{Shell: shell}
}

// Run executes the given command line to completion and reports duration,
// exit code and captured output. A cancelled context kills the process and
// surfaces the abort instead of an execution failure.
func (r *ShellRunner) Run(ctx context.Context, commandLine string) Outcome {
	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}

	var out, errOut bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", commandLine)
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	log.Debugf("running command through %v: %v", shell, commandLine)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	outcome := Outcome{
		Duration: elapsed,
		Output:   strings.TrimSpace(out.String()),
	}

	if err == nil {
		return outcome
	}

	outcome.ExitCode = exitCode(err)

	if ctx.Err() != nil {
		outcome.Err = cerrors.Error{
			ErrorCode: cerrors.ErrorTypeSimulationAborted,
			Phase:     types.Execution,
			Reason:    fmt.Sprintf("command interrupted after %v, err: %v", elapsed.Round(time.Millisecond), err),
		}
		return outcome
	}

	outcome.Err = cerrors.Error{
		ErrorCode: cerrors.ErrorTypeCommandExecution,
		Phase:     types.Execution,
		Reason:    fmt.Sprintf("command exited with code %d, err: %v; error output: %v", outcome.ExitCode, err, tail(errOut.String())),
	}
	return outcome
}

// exitCode pulls the process exit code out of the error, -1 when the process
// never ran or was killed by a signal
func exitCode(err error) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// tail keeps the end of the error output, the failure details live there
func tail(s string) string {
	s = strings.TrimSpace(s)
	return s[math.Maximum(0, len(s)-errOutputLimit):]
}
