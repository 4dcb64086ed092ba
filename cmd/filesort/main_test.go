package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, *test.Hook, error) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	var stdout bytes.Buffer
	err := newApp(logger, &stdout).Run(append([]string{"filesort"}, args...))
	return stdout.String(), hook, err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSortCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out", "sorted.txt")
	writeFile(t, in, "banana\napple\ncherry\napple\n")

	t.Run("ascending", func(t *testing.T) {
		_, hook, err := runApp(t, "sort", in, out)
		require.NoError(t, err)
		assert.Equal(t, "apple\napple\nbanana\ncherry\n", readFile(t, out))
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, "sorted", hook.LastEntry().Message)
		assert.Equal(t, in, hook.LastEntry().Data["input"])
	})

	t.Run("descending unique", func(t *testing.T) {
		_, _, err := runApp(t, "sort", "--descending", "--unique", in, out)
		require.NoError(t, err)
		assert.Equal(t, "cherry\nbanana\napple\n", readFile(t, out))
	})

	t.Run("ignore case", func(t *testing.T) {
		mixed := filepath.Join(dir, "mixed.txt")
		writeFile(t, mixed, "b\nA\nc\na\nB\n")
		_, _, err := runApp(t, "sort", "--comparison", "ordinal-ignore-case", mixed, out)
		require.NoError(t, err)
		assert.Equal(t, "A\na\nb\nB\nc\n", readFile(t, out))
	})
}

func TestSortCommandOutputDir(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "sorted")
	var inputs []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, "3\n1\n2\n")
		inputs = append(inputs, path)
	}

	args := append([]string{"sort", "--output-dir", outDir, "--jobs", "2"}, inputs...)
	_, hook, err := runApp(t, args...)
	require.NoError(t, err)
	for _, in := range inputs {
		assert.Equal(t, "1\n2\n3\n", readFile(t, filepath.Join(outDir, filepath.Base(in))))
	}
	assert.Len(t, hook.AllEntries(), len(inputs))
}

func TestSortCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	writeFile(t, in, "b\na\n")

	t.Run("missing output", func(t *testing.T) {
		_, _, err := runApp(t, "sort", in)
		var exitErr cli.ExitCoder
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.ExitCode())
	})

	t.Run("buffer size out of range", func(t *testing.T) {
		_, _, err := runApp(t, "sort", "--buffer-size", "512KiB", in, filepath.Join(dir, "out.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BufferSize")
		assert.NoFileExists(t, filepath.Join(dir, "out.txt"))
	})

	t.Run("unknown comparison", func(t *testing.T) {
		_, _, err := runApp(t, "sort", "--comparison", "bogus", in, filepath.Join(dir, "out.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown comparison mode")
	})

	t.Run("missing input", func(t *testing.T) {
		_, _, err := runApp(t, "sort", filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("colliding outputs", func(t *testing.T) {
		other := filepath.Join(dir, "other")
		require.NoError(t, os.Mkdir(other, 0o755))
		writeFile(t, filepath.Join(other, "in.txt"), "x\n")
		_, _, err := runApp(t, "sort", "-o", filepath.Join(dir, "out"), in, filepath.Join(other, "in.txt"))
		var exitErr cli.ExitCoder
		require.ErrorAs(t, err, &exitErr)
	})
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	sorted := filepath.Join(dir, "sorted.txt")
	unsorted := filepath.Join(dir, "unsorted.txt")
	writeFile(t, sorted, "a\nb\nc\n")
	writeFile(t, unsorted, "a\nc\nb\n")

	stdout, _, err := runApp(t, "check", sorted)
	require.NoError(t, err)
	assert.Equal(t, sorted+": sorted (3 lines)\n", stdout)

	stdout, _, err = runApp(t, "check", sorted, unsorted)
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stdout, unsorted+`: disorder at line 3: "b" after "c"`)

	_, _, err = runApp(t, "check", "--descending", unsorted)
	require.ErrorAs(t, err, &exitErr)
}

func TestGenerateThenSort(t *testing.T) {
	dir := t.TempDir()
	sample := filepath.Join(dir, "sample.txt")
	out := filepath.Join(dir, "sample.sorted.txt")

	_, hook, err := runApp(t, "generate", "--size", "64KiB", "--seed", "7", sample)
	require.NoError(t, err)
	info, err := os.Stat(sample)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, info.Size(), int64(64<<10))
	assert.Equal(t, "generated sample data", hook.LastEntry().Message)

	_, _, err = runApp(t, "--log-level", "debug", "sort", sample, out)
	require.NoError(t, err)
	_, _, err = runApp(t, "check", out)
	require.NoError(t, err)

	assert.Equal(t,
		strings.Count(readFile(t, sample), "\n"),
		strings.Count(readFile(t, out), "\n"))
}

func TestConfigureLogger(t *testing.T) {
	logger := logrus.New()
	require.NoError(t, configureLogger(logger, "debug", "json"))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	assert.Error(t, configureLogger(logger, "loud", "text"))
	assert.Error(t, configureLogger(logger, "info", "xml"))
}
