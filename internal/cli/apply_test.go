package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeData(t *testing.T, out string, v any) CLIResponse {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	if v != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, v))
	}
	return CLIResponse{Status: resp.Status, Error: resp.Error}
}

func TestCurrent_DefaultTheme(t *testing.T) {
	cfg := setupWorkspace(t)

	out, _, err := runCLI(t, "--config", cfg, "current")
	require.NoError(t, err)
	assert.Equal(t, "default (default)\n", out)

	out, _, err = runCLI(t, "--config", cfg, "--format", "json", "current")
	require.NoError(t, err)
	var result CurrentResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, CurrentResult{Theme: "default", Persisted: false}, result)
}

func TestApply_PersistsAndRecords(t *testing.T) {
	cfg := setupWorkspace(t)

	out, _, err := runCLI(t, "--config", cfg, "apply", "night")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied night (was default, pass ")

	out, _, err = runCLI(t, "--config", cfg, "--format", "json", "current")
	require.NoError(t, err)
	var current CurrentResult
	decodeData(t, out, &current)
	assert.Equal(t, CurrentResult{Theme: "night", Persisted: true}, current)

	out, _, err = runCLI(t, "--config", cfg, "--format", "json", "history")
	require.NoError(t, err)
	var history HistoryResult
	decodeData(t, out, &history)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, 1, history.Total)
	assert.Equal(t, "night", history.Entries[0].Theme)
	assert.Equal(t, "default", history.Entries[0].Previous)
	assert.NotEmpty(t, history.Entries[0].Token)
}

func TestApply_SameThemeIsNoop(t *testing.T) {
	cfg := setupWorkspace(t)

	_, _, err := runCLI(t, "--config", cfg, "apply", "night")
	require.NoError(t, err)

	out, _, err := runCLI(t, "--config", cfg, "--format", "json", "apply", "night")
	require.NoError(t, err)
	var result ApplyResult
	decodeData(t, out, &result)
	assert.False(t, result.Changed)
	assert.Equal(t, "night", result.Theme)
	assert.Equal(t, "night", result.Previous)
	assert.Empty(t, result.Token)

	out, _, err = runCLI(t, "--config", cfg, "apply", "night")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme night already current")

	out, _, err = runCLI(t, "--config", cfg, "--format", "json", "history")
	require.NoError(t, err)
	var history HistoryResult
	decodeData(t, out, &history)
	assert.Equal(t, 1, history.Total)
}

func TestApply_JSONResult(t *testing.T) {
	cfg := setupWorkspace(t)

	out, _, err := runCLI(t, "--config", cfg, "--format", "json", "apply", "sepia")
	require.NoError(t, err)

	var result ApplyResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Changed)
	assert.Equal(t, "sepia", result.Theme)
	assert.Equal(t, "default", result.Previous)
	assert.NotEmpty(t, result.Token)
}

func TestApply_BlankTheme(t *testing.T) {
	cfg := setupWorkspace(t)

	out, _, err := runCLI(t, "--config", cfg, "apply", "  ")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]: invalid theme")
}

func TestApply_MissingArg(t *testing.T) {
	_, _, err := runCLI(t, "apply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestHistory_Empty(t *testing.T) {
	cfg := setupWorkspace(t)

	out, _, err := runCLI(t, "--config", cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No theme switches recorded.")

	out, _, err = runCLI(t, "--config", cfg, "--format", "json", "history")
	require.NoError(t, err)
	var history HistoryResult
	decodeData(t, out, &history)
	assert.Empty(t, history.Entries)
	assert.Equal(t, 0, history.Total)
}

func TestHistory_NewestFirstWithLimit(t *testing.T) {
	cfg := setupWorkspace(t)

	for _, name := range []string{"night", "sepia", "default"} {
		_, _, err := runCLI(t, "--config", cfg, "apply", name)
		require.NoError(t, err)
	}

	out, _, err := runCLI(t, "--config", cfg, "--format", "json", "history", "--limit", "2")
	require.NoError(t, err)
	var history HistoryResult
	decodeData(t, out, &history)
	require.Len(t, history.Entries, 2)
	assert.Equal(t, 3, history.Total)
	assert.Equal(t, "default", history.Entries[0].Theme)
	assert.Equal(t, "sepia", history.Entries[0].Previous)
	assert.Equal(t, "sepia", history.Entries[1].Theme)

	out, _, err = runCLI(t, "--config", cfg, "history", "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "(3 of 3)")
	assert.Contains(t, out, "default -> night")
	assert.Contains(t, out, "night -> sepia")
	assert.Contains(t, out, "sepia -> default")
}
