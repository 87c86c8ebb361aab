package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robknight/pod2-prover/internal/types"
)

func writeRequest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRequest(t *testing.T) {
	path := writeRequest(t, `
facts:
  - kind: value_of
    key: {pod: user, key: age}
    value: {int: 25}
  - kind: value_of
    key: {pod: user, key: roles}
    value: {array: [{string: admin}, {string: dev}]}
  - kind: equal
    keys: [{pod: x, key: x}, {pod: y, key: y, class: main}]
targets:
  - kind: not_equal
    keys: [{wildcard: n, key: value}, {pod: y, key: value}]
  - kind: gt
    keys: [{pod: a, key: score}, {pod: b, key: score}]
`)

	req, err := loadRequest(path)
	require.NoError(t, err)

	facts, err := req.factStatements()
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.True(t, facts[0].Equals(types.ValueOf(types.At("user", "age"), types.Int(25))))
	assert.True(t, facts[1].Equals(types.ValueOf(
		types.At("user", "roles"),
		types.Array{types.String("admin"), types.String("dev")},
	)))
	assert.Equal(t, types.ClassMain, facts[2].Keys[1].Origin.Class)

	targets, err := req.proveTargets()
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "?n.value ≠ value", targets[0].label)
	assert.Equal(t, "score > score", targets[1].label)
}

func TestRequestValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			"wildcard in facts",
			"facts:\n  - kind: equal\n    keys: [{wildcard: n, key: x}, {pod: y, key: y}]\n",
		},
		{
			"wrong arity",
			"facts:\n  - kind: sum_of\n    keys: [{pod: s, key: s}, {pod: a, key: a}]\n",
		},
		{
			"unknown kind",
			"facts:\n  - kind: implies\n    keys: [{pod: x, key: x}, {pod: y, key: y}]\n",
		},
		{
			"value_of without value",
			"facts:\n  - kind: value_of\n    key: {pod: x, key: x}\n",
		},
		{
			"two tagged value fields",
			"facts:\n  - kind: value_of\n    key: {pod: x, key: x}\n    value: {int: 1, string: one}\n",
		},
		{
			"unknown pod class",
			"facts:\n  - kind: equal\n    keys: [{pod: x, key: x, class: ghost}, {pod: y, key: y}]\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := loadRequest(writeRequest(t, tc.content))
			require.NoError(t, err)
			_, err = req.factStatements()
			assert.Error(t, err)
		})
	}

	t.Run("wildcard outside first position", func(t *testing.T) {
		req, err := loadRequest(writeRequest(t, "targets:\n  - kind: equal\n    keys: [{pod: x, key: x}, {wildcard: n, key: y}]\n"))
		require.NoError(t, err)
		_, err = req.proveTargets()
		assert.Error(t, err)
	})
}
