package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/gqlextract/internal/config"
	"github.com/mvp-joe/gqlextract/internal/document"
	"github.com/mvp-joe/gqlextract/internal/scan"
)

// Test plan for CLI commands:
// 1. extract walks directories with the configured globs and skips ignored dirs
// 2. extract --all includes files without fragments
// 3. extract reports per-file failures and exits with an error
// 4. tags prints the tag finder's templates as JSON
// 5. version prints build information
// 6. expandPaths and writeResults helpers
// Note: tests share rootCmd and its flag variables, so none run in parallel.

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		extractWatch, extractProgress, extractPretty, extractAll = false, false, false, false
		tagsTree = false
		cfgFile, verbose = "", false
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func decodeResults(t *testing.T, out string) []scan.FileResult {
	t.Helper()

	var results []scan.FileResult
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var r scan.FileResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		results = append(results, r)
	}
	require.NoError(t, scanner.Err())
	return results
}

func setupProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "schema.graphql"), "{ a }")
	writeFile(t, filepath.Join(dir, "src", "q.ts"), "const q = gql`query { me }`;\n")
	writeFile(t, filepath.Join(dir, "src", "empty.ts"), "export const x = 1;\n")
	writeFile(t, filepath.Join(dir, "node_modules", "lib", "q.ts"), "gql`{ ignored }`")
	writeFile(t, filepath.Join(dir, "notes.txt"), "{ a }")
	return dir
}

func TestExtractCommand_Directory(t *testing.T) {
	dir := setupProject(t)

	out, err := executeCommand(t, "extract", dir)
	require.NoError(t, err)

	results := decodeResults(t, out)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(dir, "schema.graphql"), results[0].Path)
	require.Len(t, results[0].Fragments, 1)
	assert.Equal(t, "{ a }", results[0].Fragments[0].Text)

	assert.Equal(t, filepath.Join(dir, "src", "q.ts"), results[1].Path)
	require.Len(t, results[1].Fragments, 1)
	assert.Equal(t, "query { me }", results[1].Fragments[0].Text)
	assert.Equal(t, document.Position{Line: 0, Character: 14}, results[1].Fragments[0].Range.Start)
}

func TestExtractCommand_All(t *testing.T) {
	dir := setupProject(t)

	out, err := executeCommand(t, "extract", "--all", dir)
	require.NoError(t, err)

	results := decodeResults(t, out)
	require.Len(t, results, 3)
	assert.Equal(t, filepath.Join(dir, "src", "empty.ts"), results[1].Path)
	assert.Empty(t, results[1].Fragments)
}

func TestExtractCommand_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.ts")
	writeFile(t, bad, "const q = gql`query {")

	out, err := executeCommand(t, "extract", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")

	results := decodeResults(t, out)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Error)
}

func TestExtractCommand_WatchRejectsMultiplePaths(t *testing.T) {
	_, err := executeCommand(t, "extract", "--watch", "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single directory")
}

func TestTagsCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	writeFile(t, path, "q = gql(\"{ me }\")\n")

	out, err := executeCommand(t, "tags", path)
	require.NoError(t, err)

	var fragments []document.Fragment
	require.NoError(t, json.Unmarshal([]byte(out), &fragments))
	require.Len(t, fragments, 1)
	assert.Equal(t, "{ me }", fragments[0].Text)
}

func TestTagsCommand_Tree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.rb")
	writeFile(t, path, "Q = <<~GRAPHQL\n  { me }\nGRAPHQL\n")

	out, err := executeCommand(t, "tags", "--tree", path)
	require.NoError(t, err)
	assert.Contains(t, out, "heredoc_body")
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gqlextract "+Version)
}

func TestExpandPaths(t *testing.T) {
	dir := setupProject(t)
	cfg := config.Default()

	paths, err := expandPaths(cfg, []string{filepath.Join(dir, "notes.txt"), filepath.Join(dir, "src")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "src", "empty.ts"),
		filepath.Join(dir, "src", "q.ts"),
	}, paths)

	_, err = expandPaths(cfg, []string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	results := []scan.FileResult{
		{Path: "a.graphql", Fragments: []document.Fragment{{Text: "{ a }"}}},
		{Path: "b.ts", Fragments: []document.Fragment{}},
		{Path: "c.ts", Fragments: []document.Fragment{}, Error: "boom"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, results, false, false))
	assert.Len(t, decodeResults(t, buf.String()), 2)

	buf.Reset()
	require.NoError(t, writeResults(&buf, results, false, true))
	assert.Len(t, decodeResults(t, buf.String()), 3)

	buf.Reset()
	require.NoError(t, writeResults(&buf, results[:1], true, false))
	assert.Contains(t, buf.String(), "\n  \"path\": \"a.graphql\"")
}
