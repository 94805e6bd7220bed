// path: src/terminal.go
package src

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
)

// OutputChunk is one slice of process output delivered to the terminal
// panel. Done marks the final chunk; Err, when set, explains why the
// process stopped.
type OutputChunk struct {
	Text string
	Done bool
	Err  error
}

var serverURLRe = regexp.MustCompile(`https?://(?:localhost|127\.0\.0\.1|0\.0\.0\.0)(?::\d+)?[^\s"']*`)

// DetectServerURL scans process output for a local dev-server address, so
// the preview panel can point at it. Returns "" when none is present.
func DetectServerURL(output string) string {
	url := serverURLRe.FindString(output)
	return strings.TrimRight(url, ".,)")
}

// CommandRunner executes shell commands inside the project workspace and
// streams their combined output. One command runs at a time; starting a
// new one stops the previous.
type CommandRunner struct {
	mu     sync.Mutex
	dir    string
	cancel context.CancelFunc
}

func NewCommandRunner(dir string) *CommandRunner {
	return &CommandRunner{dir: dir}
}

// Run starts command via the shell and streams output lines to the
// returned channel. The channel closes after the final Done chunk.
func (r *CommandRunner) Run(ctx context.Context, command string) (<-chan OutputChunk, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("empty command")
	}

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), "CI=1")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start %q: %w", command, err)
	}

	out := make(chan OutputChunk, 64)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			out <- OutputChunk{Text: scanner.Text() + "\n"}
		}
		err := cmd.Wait()
		if ctx.Err() == context.Canceled {
			err = nil
		}
		out <- OutputChunk{Done: true, Err: err}
	}()
	return out, nil
}

// Stop terminates the running command, if any.
func (r *CommandRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// TailBytes returns the last n bytes of a string, safe for logs.
func TailBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	b := []byte(s)
	if len(b) <= n {
		return s
	}
	return string(b[len(b)-n:])
}
