package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abikoushi/stan/internal/gradcheck"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "agrad "+version+"\n", out)
}

func TestCheck(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "agrad.prom")
	out, logs, err := execute(t, "check", "--case", "pow,determinant", "--case", "softmax",
		"--samples", "3", "--seed", "5", "--workers", "2", "--metrics-file", metrics)
	require.NoError(t, err, logs)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "CASE"))
	assert.True(t, strings.HasPrefix(lines[1], "pow "))
	assert.True(t, strings.HasPrefix(lines[2], "determinant "))
	assert.True(t, strings.HasPrefix(lines[3], "softmax "))
	for _, line := range lines[1:] {
		assert.True(t, strings.HasSuffix(line, "ok"), line)
	}
	assert.Contains(t, logs, "gradient checks passed")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `agrad_model_evaluations_total{kind="gradient",outcome="ok"} 9`)
}

func TestCheck_Config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agrad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
check:
  cases: [arith]
  samples: 2
parallel:
  enabled: false
log:
  level: debug
`), 0o600))

	out, logs, err := execute(t, "check", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "arith")
	assert.NotContains(t, out, "determinant")
	assert.Contains(t, logs, "gradient check passed")
}

func TestCheck_Errors(t *testing.T) {
	_, _, err := execute(t, "check", "--case", "nope")
	assert.ErrorIs(t, err, gradcheck.ErrUnknownCase)

	_, _, err = execute(t, "check", "--samples", "0")
	assert.ErrorContains(t, err, "invalid flags")

	_, _, err = execute(t, "check", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "check", "extra")
	assert.Error(t, err)
}

func TestCheck_List(t *testing.T) {
	out, _, err := execute(t, "check", "--list")
	require.NoError(t, err)
	assert.Equal(t, gradcheck.Names(), strings.Fields(out))
}

func TestPrintReports(t *testing.T) {
	var buf bytes.Buffer
	failed := printReports(&buf, []gradcheck.Report{
		{Case: "good", Samples: 3},
		{Case: "bad", Samples: 3, Failures: 2, MaxError: 0.5},
	})
	assert.Equal(t, 1, failed)
	assert.Contains(t, buf.String(), "bad")
	assert.Contains(t, buf.String(), "FAIL")
}
