package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the root command with flag state reset between runs
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgFile, verbose = "", false
	genCount, genSeed, genNoLimits = 1, 0, false
	parseFormat = "text"
	patternsLimit, patternsFormat, patternsUser = 0, "text", "tester"
	genCmd.Flags().Lookup("seed").Changed = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("REXBOT_CONFIG", "")
	t.Setenv("REXBOT_DB_PATH", filepath.Join(dir, "patterns.db"))
	t.Setenv("REXBOT_LOG_LEVEL", "error")
	return dir
}

func TestGen(t *testing.T) {
	out, _, err := execute(t, "gen", "-n", "3", "ab{2}")
	require.NoError(t, err)
	assert.Equal(t, "abb\nabb\nabb\n", out)
}

func TestGenSeedIsReproducible(t *testing.T) {
	first, _, err := execute(t, "gen", "-n", "5", "--seed", "42", "[a-z]{10}")
	require.NoError(t, err)
	second, _, err := execute(t, "gen", "-n", "5", "--seed", "42", "[a-z]{10}")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, strings.Split(strings.TrimSpace(first), "\n"), 5)
}

func TestGenSyntaxErrorMarksPosition(t *testing.T) {
	_, stderr, err := execute(t, "gen", "ab[z-a]")
	require.Error(t, err)
	assert.Contains(t, stderr, "Syntaxfehler")
	assert.Contains(t, stderr, "  ab[z-a]\n")
	assert.Contains(t, stderr, "\n     ^\n")
}

func TestGenLimits(t *testing.T) {
	_, _, err := execute(t, "gen", "a{20000}")
	require.Error(t, err)

	out, _, err := execute(t, "gen", "--no-limits", "a{20000}")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 20000)
}

func TestGenRejectsZeroCount(t *testing.T) {
	_, _, err := execute(t, "gen", "-n", "0", "a")
	assert.Error(t, err)
}

func TestParseText(t *testing.T) {
	out, _, err := execute(t, "parse", "(a|b){2,}")
	require.NoError(t, err)
	assert.Contains(t, out, "Kanonisch: (a|b){2,}")
	assert.Contains(t, out, "Tiefe:     1")
	assert.Contains(t, out, "Zweige:    1")
}

func TestParseYAMLAndJSON(t *testing.T) {
	out, _, err := execute(t, "parse", "--format", "yaml", "a|b")
	require.NoError(t, err)
	var tree map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Len(t, tree["union"], 2)

	out, _, err = execute(t, "parse", "--format", "json", "[a-c]")
	require.NoError(t, err)
	tree = nil
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Contains(t, tree, "union")

	_, _, err = execute(t, "parse", "--format", "xml", "a")
	assert.Error(t, err)
}

func TestPatternsLifecycle(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "patterns", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Keine Muster")

	out, _, err = execute(t, "patterns", "save", "greet", "hallo( welt){2}")
	require.NoError(t, err)
	assert.Contains(t, out, "gespeichert")

	_, _, err = execute(t, "patterns", "save", "broken", "(ab")
	assert.Error(t, err)

	out, _, err = execute(t, "patterns", "get", "greet")
	require.NoError(t, err)
	assert.Contains(t, out, "hallo( welt){2}")
	assert.Contains(t, out, "tester")

	out, _, err = execute(t, "patterns", "list", "--format", "json")
	require.NoError(t, err)
	var recs []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "greet", recs[0]["key"])

	out, _, err = execute(t, "patterns", "stats", "--format", "json")
	require.NoError(t, err)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, float64(1), stats["patterns"])
	assert.Equal(t, float64(1), stats["owners"])

	_, _, err = execute(t, "patterns", "remove", "greet", "--user", "someone-else")
	assert.Error(t, err)

	out, _, err = execute(t, "patterns", "remove", "greet", "--user", "tester")
	require.NoError(t, err)
	assert.Contains(t, out, "gelöscht")

	_, _, err = execute(t, "patterns", "get", "greet")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rexbot v")
	assert.Contains(t, out, "Komponenten")
}

func TestServeRequiresCredentials(t *testing.T) {
	isolate(t)
	t.Setenv("REXBOT_ACCESS_TOKEN", "")
	t.Setenv("REXBOT_BOT_ID", "")

	_, _, err := execute(t, "serve")
	assert.Error(t, err)
}
