package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feasible = `
variables:
  - {name: a, min: 0, max: 20}
  - {name: b, min: 0, max: 20}
  - {name: c, min: 0, max: 20}
  - {name: d, min: 0, max: 20, optional: used}
literals: [used, late]
precedences:
  - {tail: a, head: b, offset: 5}
  - {tail: b, head: c, offset: 3, when: late}
  - {tail: a, head: d}
assume: [used, late]
query: [d, c, b, a]
`

const cycle = `
variables:
  - {name: x, min: 0, max: 100}
  - {name: y, min: 0, max: 100}
literals: [l1, l2]
precedences:
  - {tail: x, head: y, offset: 3, when: l1}
  - {tail: y, head: x, offset: 2, when: l2}
assume: [l1, l2]
`

func writeModel(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestCheck(t *testing.T) {
	out, stats, err := run(t, "check", writeModel(t, feasible))
	require.NoError(t, err)

	assert.Equal(t, "FEASIBLE\na in [0, 12]\nb in [5, 17]\nc in [8, 20]\nd in [0, 20] present\n", out)
	assert.Contains(t, stats, "Arcs:            6\n")
	assert.Contains(t, stats, "Decisions:       2\n")
}

func TestCheckConflict(t *testing.T) {
	out, _, err := run(t, "check", "--stats=false", writeModel(t, cycle))

	assert.Equal(t, errConflict, errors.Cause(err))
	assert.Equal(t, "CONFLICT assuming l2\nReason: {l1, l2}\n", out)
}

func TestQuery(t *testing.T) {
	out, _, err := run(t, "query", "--stats=false", writeModel(t, feasible))
	require.NoError(t, err)

	assert.Equal(t, "a -> b, d [used]\nd ->\nb -> c [late]\nc ->\n", out)
}

func TestMetricsFlag(t *testing.T) {
	_, stats, err := run(t, "check", "--stats=false", "--metrics", writeModel(t, cycle))

	assert.Equal(t, errConflict, errors.Cause(err))
	assert.Contains(t, stats, `precedences_conflicts_total{kind="cycle"}`)
	assert.Contains(t, stats, "precedences_propagations_total")
}

func TestErrors(t *testing.T) {
	_, _, err := run(t, "check", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "opening model")

	_, _, err = run(t, "query", writeModel(t, "variables: [{name: x, min: 1, max: 0}]"))
	assert.ErrorContains(t, err, "empty domain")

	_, _, err = run(t, "check")
	assert.Error(t, err)

	_, _, err = run(t, "check", "--config", filepath.Join(t.TempDir(), "missing.yaml"), writeModel(t, feasible))
	assert.ErrorContains(t, err, "reading config")
}
