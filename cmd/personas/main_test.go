package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-diversity/internal/population"
)

// #region helpers

func testConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "personas.yaml")
	cfg := `log:
  level: warn
eval:
  coverage_tests: 200
  hull_tests: 200
  dispersion_tests: 200
  workers: 2
store:
  path: ` + filepath.Join(dir, "runs.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PERSONAS_DB", "")
	t.Setenv("PERSONAS_LOG_LEVEL", "")
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "personas %s", strings.Join(args, " "))
	return out
}

// #endregion helpers

// #region workflow

func TestSampleEvaluateHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	popPath := filepath.Join(dir, "pop.json")

	mustExecute(t, "--config", cfg, "sample", "-n", "30", "--context", "checkout flow", "-o", popPath)

	var summary inspectSummary
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "--config", cfg, "inspect", "--json", popPath)), &summary))
	assert.Equal(t, 30, summary.Personas)
	assert.Equal(t, "checkout flow", summary.Context)
	assert.Len(t, summary.Axes, 6)
	assert.Nil(t, summary.Metrics)

	var out evaluateOutput
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "--config", cfg, "evaluate", "--save", "--write", "--json", popPath)), &out))
	assert.Equal(t, "coordinate", out.Mode)
	assert.Equal(t, 30, out.Points)
	assert.Equal(t, 6, out.Dimensions)
	assert.NotEmpty(t, out.RunID)
	assert.GreaterOrEqual(t, out.Metrics.Overall, 0.0)
	assert.LessOrEqual(t, out.Metrics.Overall, 1.0)

	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "--config", cfg, "inspect", "--json", popPath)), &summary))
	require.NotNil(t, summary.Metrics)
	assert.Equal(t, out.Metrics.Overall, summary.Metrics.Overall)

	var rows []historyRow
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, "--config", cfg, "history", "--json")), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, out.RunID, rows[0].RunID)
	assert.Equal(t, popPath, rows[0].Source)

	table := mustExecute(t, "--config", cfg, "history", "--best", popPath)
	assert.Contains(t, table, shortID(out.RunID))
}

func TestEvaluateDeterministic(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	popPath := filepath.Join(dir, "pop.json")
	mustExecute(t, "--config", cfg, "sample", "-n", "25", "-o", popPath)

	first := mustExecute(t, "--config", cfg, "evaluate", "--json", popPath)
	second := mustExecute(t, "--config", cfg, "evaluate", "--json", popPath)
	assert.Equal(t, first, second)
}

func TestEvaluateAPIModeNeedsProvider(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	popPath := filepath.Join(dir, "pop.json")
	mustExecute(t, "--config", cfg, "sample", "-n", "5", "-o", popPath)

	_, err := execute(t, "--config", cfg, "evaluate", "--mode", "api", popPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grpc provider")
}

func TestEvaluateRejectsEmptyPopulation(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	popPath := filepath.Join(dir, "empty.json")
	require.NoError(t, population.Save(popPath, &population.Population{}, false))

	_, err := execute(t, "--config", cfg, "evaluate", popPath)
	assert.ErrorIs(t, err, population.ErrEmptyPopulation)
}

func TestSampleEvaluateFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	out := mustExecute(t, "--config", cfg, "sample", "-n", "12", "--compact", "--evaluate")
	assert.Contains(t, out, `"coverage"`)
	assert.Contains(t, out, "persona-012")
}

// #endregion workflow

// #region axes

func TestAxesList(t *testing.T) {
	out := mustExecute(t, "axes", "list")
	for _, id := range []string{"age_stage", "tech_savviness", "risk_tolerance", "income_level", "decision_style", "social_orientation"} {
		assert.Contains(t, out, id)
	}
}

func TestAxesValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "axes.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`axes:
  - id: budget
    name: Budget
    description: Spending headroom
    type: continuous
    anchors:
      - {value: 0, label: Frugal}
      - {value: 1, label: Lavish}
`), 0o644))
	out := mustExecute(t, "axes", "validate", good)
	assert.Contains(t, out, "1 axes OK")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("axes:\n  - id: budget\n    name: Budget\n    type: continuous\n"), 0o644))
	_, err := execute(t, "axes", "validate", bad)
	assert.Error(t, err)
}

// #endregion axes

// #region replay

func TestReplayFixture(t *testing.T) {
	dir := t.TempDir()
	textfile := filepath.Join(dir, "replay.prom")
	fixture := filepath.Join("..", "..", "internal", "replay", "testdata", "halton_40x6.json")

	out := mustExecute(t, "--log-level", "error", "replay", "--verify", "2", "--metrics-textfile", textfile, fixture)
	assert.Contains(t, out, "PASS")

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `persona_replay_runs_total{result="pass"} 1`)
}

func TestConfigRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colour: blue\n"), 0o644))
	_, err := execute(t, "--config", path, "axes", "list")
	assert.Error(t, err)
}

// #endregion replay
