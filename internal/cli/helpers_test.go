package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSheet = `themes:
  default:
    Panel:
      background: "#fafafa"
    Label:
      color: "#111111"
      size: 12
      states:
        ":highlighted":
          color: "#ff0000"
  night:
    Panel:
      background: "#202020"
    Label:
      color: "#eeeeee"
`

// setupWorkspace writes a config, a stylesheet directory and returns the
// config path. The database lives in the same temp dir.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	sheets := filepath.Join(dir, "sheets")
	require.NoError(t, os.MkdirAll(sheets, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sheets, "main.yaml"), []byte(testSheet), 0o644))

	cfg := fmt.Sprintf(`database: %q
stylesheets: %q
default_theme: default
log:
  level: error
`, filepath.Join(dir, "themer.db"), sheets)
	path := filepath.Join(dir, "themer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

// runCLI executes the root command with args and returns stdout, stderr and
// the command error.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("THEMER_CONFIG", "")
	t.Setenv("THEMER_DATABASE", "")
	t.Setenv("THEMER_LOG_LEVEL", "")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}
