package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/kvtable/internal/cli"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	return string(content)
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Tests for --print-config.

func Test_Print_Config_Defaults_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("", "--print-config")

	cli.AssertContains(t, stdout, "output_dir="+filepath.Join(c.Dir, "target"))
	cli.AssertContains(t, stdout, "file=MyTable.txt")
	cli.AssertContains(t, stdout, "lock=true")
	cli.AssertContains(t, stdout, "(defaults only)")
	cli.AssertNotContains(t, stdout, "Menu:")
}

func Test_Print_Config_From_Config_File_With_Comments_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".kvt.json"), `{
		// This is a comment
		"output_dir": "tables",
		"file": "mine.txt",
		"lock": false,
	}`)

	stdout := c.MustRun("", "--print-config")
	cli.AssertContains(t, stdout, "output_dir="+filepath.Join(c.Dir, "tables"))
	cli.AssertContains(t, stdout, "file=mine.txt")
	cli.AssertContains(t, stdout, "lock=false")
	cli.AssertContains(t, stdout, "project_config="+filepath.Join(c.Dir, ".kvt.json"))
}

func Test_Print_Config_Explicit_Config_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".kvt.json"), `{"output_dir": "ignored"}`)
	writeFile(t, filepath.Join(c.Dir, "custom.json"), `{"output_dir": "custom-dir"}`)

	stdout := c.MustRun("", "-c", "custom.json", "--print-config")
	cli.AssertContains(t, stdout, "output_dir="+filepath.Join(c.Dir, "custom-dir"))
	cli.AssertContains(t, stdout, "project_config="+filepath.Join(c.Dir, "custom.json"))
}

func Test_Print_Config_Global_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	xdg := t.TempDir()
	c.Env["XDG_CONFIG_HOME"] = xdg
	writeFile(t, filepath.Join(xdg, "kvt", "config.json"), `{"output_dir": "global-dir", "file": "g.txt"}`)
	writeFile(t, filepath.Join(c.Dir, ".kvt.json"), `{"file": "project.txt"}`)

	stdout := c.MustRun("", "--print-config")

	// Project config wins per key; unset keys fall through to global.
	cli.AssertContains(t, stdout, "output_dir="+filepath.Join(c.Dir, "global-dir"))
	cli.AssertContains(t, stdout, "file=project.txt")
	cli.AssertContains(t, stdout, "global_config="+filepath.Join(xdg, "kvt", "config.json"))
}

func Test_Print_Config_Env_Overrides_Config_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["OUTPUT_DIRECTORY"] = "/abs/out"
	writeFile(t, filepath.Join(c.Dir, ".kvt.json"), `{"output_dir": "from-file"}`)

	stdout := c.MustRun("", "--print-config")
	cli.AssertContains(t, stdout, "output_dir=/abs/out")
	cli.AssertContains(t, stdout, "env=OUTPUT_DIRECTORY")
}

func Test_Print_Config_History_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["HOME"] = "/home/someone"

	stdout := c.MustRun("", "--print-config")
	cli.AssertContains(t, stdout, "history_file=/home/someone/.kvt_history")

	writeFile(t, filepath.Join(c.Dir, ".kvt.json"), `{"history": false}`)

	stdout = c.MustRun("", "--print-config")
	cli.AssertContains(t, stdout, "history=false")
	cli.AssertNotContains(t, stdout, "history_file=")
}

func Test_Config_Errors_When_Invoked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  string
		args    []string
		wantErr string
	}{
		{
			name:    "missing explicit config",
			args:    []string{"-c", "nope.json"},
			wantErr: "config file not found: nope.json",
		},
		{
			name:    "empty output_dir",
			config:  `{"output_dir": ""}`,
			wantErr: "output-dir cannot be empty",
		},
		{
			name:    "empty file",
			config:  `{"file": ""}`,
			wantErr: "file cannot be empty",
		},
		{
			name:    "invalid json",
			config:  `{"output_dir": `,
			wantErr: "invalid config file",
		},
		{
			name:    "wrong type",
			config:  `{"lock": "yes"}`,
			wantErr: "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			if tt.config != "" {
				writeFile(t, filepath.Join(c.Dir, ".kvt.json"), tt.config)
			}

			stdout, stderr, exitCode := c.Run(tt.args...)

			if got, want := exitCode, 1; got != want {
				t.Errorf("exitCode=%d, want=%d", got, want)
			}

			if got, want := stdout, ""; got != want {
				t.Errorf("stdout=%q, want=%q", got, want)
			}

			cli.AssertContains(t, stderr, tt.wantErr)
		})
	}
}

func Test_Config_File_Selects_Table_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	writeFile(t, filepath.Join(c.Dir, ".kvt.json"), `{"output_dir": "data", "file": "t.txt"}`)
	writeFile(t, filepath.Join(c.Dir, "data", "t.txt"), "a:1 | b:2\n")

	stdout := c.MustRun(cli.Lines("3", "7"))
	cli.AssertContains(t, stdout, "\nTABLE\n\na:1 | b:2 | \n")
}
