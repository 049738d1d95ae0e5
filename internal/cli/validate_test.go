package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidSheets(t *testing.T) {
	dir := filepath.Join("..", "stylesheet", "testdata", "sheets")

	out, _, err := runCLI(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "All stylesheets valid (3 files)")
}

func TestValidate_ValidSheetsJSON(t *testing.T) {
	dir := filepath.Join("..", "stylesheet", "testdata", "sheets")

	out, _, err := runCLI(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 3, result.Files)
	assert.Empty(t, result.Errors)
}

func TestValidate_DefaultsToConfiguredDir(t *testing.T) {
	cfg := setupWorkspace(t)

	out, _, err := runCLI(t, "--config", cfg, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "All stylesheets valid (1 files)")
}

func TestValidate_InvalidSheets(t *testing.T) {
	dir := filepath.Join("..", "stylesheet", "testdata", "invalid")

	out, _, err := runCLI(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Validation failed")
	assert.Contains(t, out, "bad_state.yaml")
	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")
}

func TestValidate_InvalidSheetsJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.yaml"), []byte(testSheet), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("themes: [1, 2"), 0o644))

	out, _, err := runCLI(t, "--format", "json", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSheet, resp.Error.Code)
	assert.False(t, result.Valid)
	assert.Equal(t, 2, result.Files)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, filepath.Join(dir, "broken.yaml"), result.Errors[0].Path)
	assert.Contains(t, result.Errors[0].Message, "invalid YAML")
}

func TestValidate_NonExistentDirectory(t *testing.T) {
	out, _, err := runCLI(t, "validate", "/nonexistent/sheets")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "stylesheet directory not found")
}

func TestValidate_EmptyDirectory(t *testing.T) {
	out, _, err := runCLI(t, "validate", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "(0 files)")
}
