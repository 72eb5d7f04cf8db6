package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/kvtable/internal/dataset"
	"github.com/calvinalkan/kvtable/internal/session"
)

// CLI provides a clean interface for running kvt sessions in tests.
// It manages a temp directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{},
	}
}

// Run executes the CLI with empty stdin and returns stdout, stderr, and exit code.
// Args should not include "kvt" or "--cwd" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.RunWithInput("", args...)
}

// RunWithInput executes the CLI with stdin and returns stdout, stderr, and exit code.
// stdin must be a string or io.Reader; panics otherwise. Use [Lines] to build
// scripted menu input.
func (r *CLI) RunWithInput(stdin any, args ...string) (string, string, int) {
	var inReader io.Reader
	switch v := stdin.(type) {
	case string:
		inReader = strings.NewReader(v)
	case io.Reader:
		inReader = v
	default:
		panic(fmt.Sprintf("stdin must be string or io.Reader, got %T", stdin))
	}

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"kvt", "--cwd", r.Dir}, args...)
	code := Run(inReader, &outBuf, &errBuf, fullArgs, r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes a scripted session and fails the test if it returns non-zero.
// Returns stdout on success.
func (r *CLI) MustRun(stdin string, args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.RunWithInput(stdin, args...)
	if code != 0 {
		r.t.Fatalf("session %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return stdout
}

// Lines joins answers into newline-terminated stdin.
func Lines(answers ...string) string {
	if len(answers) == 0 {
		return ""
	}

	return strings.Join(answers, "\n") + "\n"
}

// OutputDir returns the default output directory.
func (r *CLI) OutputDir() string {
	return filepath.Join(r.Dir, session.DefaultOutputDir)
}

// TablePath returns the path of the default table file.
func (r *CLI) TablePath() string {
	return filepath.Join(r.OutputDir(), dataset.DefaultName)
}

// ReadTable reads and returns the content of the default table file.
func (r *CLI) ReadTable() string {
	r.t.Helper()

	content, err := os.ReadFile(r.TablePath())
	if err != nil {
		r.t.Fatalf("failed to read table: %v", err)
	}

	return string(content)
}

// WriteTable writes content to the default table file.
func (r *CLI) WriteTable(content string) {
	r.t.Helper()

	err := os.MkdirAll(r.OutputDir(), 0o750)
	if err != nil {
		r.t.Fatalf("failed to create output dir: %v", err)
	}

	err = os.WriteFile(r.TablePath(), []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write table: %v", err)
	}
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
