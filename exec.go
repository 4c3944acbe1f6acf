package tex2html

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
)

// CommandRunner abstracts command execution to enable testing without real
// subprocesses. All default external collaborators (compiler, converters,
// math renderer) run through it.
type CommandRunner interface {
	Run(dir, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run executes name with args in dir (empty dir means the process working
// directory) and returns captured stdout and stderr.
func (r *ExecRunner) Run(dir, name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...) // #nosec G204 -- tool names come from configuration
	cmd.Dir = dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// tailOf returns at most n trailing bytes of s, for log-friendly stderr
// excerpts from verbose tools.
func tailOf(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
