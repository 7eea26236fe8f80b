package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/ttfl-live/injury-report/internal/logger"
	"github.com/ttfl-live/injury-report/internal/report"
)

const (
	// subprocessTimeout caps the wall-clock runtime of the external
	// extractor, which drives a real browser and can wedge.
	subprocessTimeout = 120 * time.Second
	// maxOutputBytes caps how much of the child's stdout is buffered.
	maxOutputBytes = 4 << 20
)

// SubprocessRunner delegates extraction to an external command that
// prints a result JSON document on stdout. Used for sources that only
// render through a scripted browser.
type SubprocessRunner struct {
	command string
	timeout time.Duration
}

// NewSubprocessRunner creates a runner for the given command line. The
// command is split on whitespace; the first token is the executable.
func NewSubprocessRunner(command string) *SubprocessRunner {
	return &SubprocessRunner{command: command, timeout: subprocessTimeout}
}

// Run executes the external command and decodes its stdout. Every
// failure mode, from a missing binary through malformed output, comes
// back as a selenium-step error.
func (r *SubprocessRunner) Run(ctx context.Context) *report.Result {
	argv := strings.Fields(r.command)
	if len(argv) == 0 {
		return report.Failure(report.StepSelenium, "no extractor command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return report.Failure(report.StepSelenium, fmt.Sprintf("starting extractor: %v", err))
	}
	if err := cmd.Start(); err != nil {
		return report.Failure(report.StepSelenium, fmt.Sprintf("starting extractor: %v", err))
	}

	output, readErr := io.ReadAll(io.LimitReader(stdout, maxOutputBytes+1))
	if len(output) > maxOutputBytes {
		// The child may still be writing; a full pipe would leave Wait
		// blocked until the deadline kill. Stop it now, and close our
		// read end so any orphaned grandchildren get EPIPE too.
		cmd.Process.Kill()
		stdout.Close()
		cmd.Wait()
		logger.RecordTiming("pipeline.subprocess", time.Since(started))
		return report.Failure(report.StepSelenium, "extractor output exceeded size limit")
	}
	waitErr := cmd.Wait()
	logger.RecordTiming("pipeline.subprocess", time.Since(started))

	if ctx.Err() == context.DeadlineExceeded {
		return report.Failure(report.StepSelenium,
			fmt.Sprintf("extractor timed out after %s", r.timeout))
	}
	if readErr != nil {
		return report.Failure(report.StepSelenium, fmt.Sprintf("reading extractor output: %v", readErr))
	}
	if waitErr != nil {
		message := fmt.Sprintf("extractor failed: %v", waitErr)
		if errText := strings.TrimSpace(stderr.String()); errText != "" {
			message = fmt.Sprintf("%s: %s", message, firstLine(errText))
		}
		return report.Failure(report.StepSelenium, message)
	}

	var result report.Result
	if err := json.Unmarshal(output, &result); err != nil {
		return report.Failure(report.StepSelenium, fmt.Sprintf("decoding extractor output: %v", err))
	}
	if !result.OK && result.Error == nil {
		return report.Failure(report.StepSelenium, "extractor reported failure without detail")
	}
	return &result
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
