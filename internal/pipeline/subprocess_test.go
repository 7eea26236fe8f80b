package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ttfl-live/injury-report/internal/report"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not available")
	}
	path := filepath.Join(t.TempDir(), "extractor.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSubprocessRunnerSuccess(t *testing.T) {
	script := writeScript(t, `cat <<'EOF'
{"ok":true,"meta":{"pdfUrl":"https://example.com/Injury-Report_2025-01-15_06PM.pdf","pdfName":"Injury-Report_2025-01-15_06PM.pdf","publishedAt":null},"stats":{"totalRows":1,"byStatus":{"Out":1},"byTeam":{"Boston Celtics":1}},"rows":[{"gameTime":"07:00 PM (ET)","matchup":"BOS@NYK","team":"Boston Celtics","player":"Smith, John","status":"Out","reason":"Injury/Illness - Left Ankle; Sprain"}]}
EOF`)

	result := NewSubprocessRunner("sh " + script).Run(context.Background())
	if !result.OK {
		t.Fatalf("Run() failed: %+v", result.Error)
	}
	if len(result.Rows) != 1 || result.Rows[0].Player != "Smith, John" {
		t.Errorf("rows = %+v", result.Rows)
	}
	if result.Meta.PDFName != "Injury-Report_2025-01-15_06PM.pdf" {
		t.Errorf("pdfName = %q", result.Meta.PDFName)
	}
}

func TestSubprocessRunnerEmptyCommand(t *testing.T) {
	result := NewSubprocessRunner("   ").Run(context.Background())
	if result.OK || result.Error.Step != report.StepSelenium {
		t.Fatalf("result = %+v", result)
	}
}

func TestSubprocessRunnerMissingBinary(t *testing.T) {
	result := NewSubprocessRunner("/nonexistent/extractor --json").Run(context.Background())
	if result.OK || result.Error.Step != report.StepSelenium {
		t.Fatalf("result = %+v", result)
	}
}

func TestSubprocessRunnerNonZeroExit(t *testing.T) {
	script := writeScript(t, `echo "browser crashed" >&2
exit 3`)

	result := NewSubprocessRunner("sh " + script).Run(context.Background())
	if result.OK {
		t.Fatal("Run() succeeded despite non-zero exit")
	}
	if result.Error.Step != report.StepSelenium {
		t.Errorf("step = %q, want %q", result.Error.Step, report.StepSelenium)
	}
}

func TestSubprocessRunnerMalformedOutput(t *testing.T) {
	script := writeScript(t, `echo "not json"`)

	result := NewSubprocessRunner("sh " + script).Run(context.Background())
	if result.OK || result.Error.Step != report.StepSelenium {
		t.Fatalf("result = %+v", result)
	}
}

func TestSubprocessRunnerOutputCap(t *testing.T) {
	// Emits more than maxOutputBytes, then keeps running. The runner must
	// report the size limit promptly instead of waiting out its deadline
	// on a wedged child.
	script := writeScript(t, `dd if=/dev/zero bs=1048576 count=5 2>/dev/null | tr '\0' 'a'
sleep 60`)

	started := time.Now()
	result := NewSubprocessRunner("sh " + script).Run(context.Background())
	if result.OK {
		t.Fatal("Run() succeeded despite oversized output")
	}
	if result.Error.Step != report.StepSelenium {
		t.Errorf("step = %q, want %q", result.Error.Step, report.StepSelenium)
	}
	if !strings.Contains(result.Error.Message, "size limit") {
		t.Errorf("message = %q, want size-limit error", result.Error.Message)
	}
	if elapsed := time.Since(started); elapsed > 10*time.Second {
		t.Errorf("Run() took %v, should fail well before the wall-clock deadline", elapsed)
	}
}

func TestSubprocessRunnerTimeout(t *testing.T) {
	script := writeScript(t, `sleep 30`)

	runner := NewSubprocessRunner("sh " + script)
	runner.timeout = 100 * time.Millisecond

	result := runner.Run(context.Background())
	if result.OK {
		t.Fatal("Run() succeeded despite timeout")
	}
	if result.Error.Step != report.StepSelenium {
		t.Errorf("step = %q, want %q", result.Error.Step, report.StepSelenium)
	}
}
