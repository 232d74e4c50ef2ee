package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlfn/pkg/function"
)

func TestKindHeading(t *testing.T) {
	tests := []struct {
		kind function.Kind
		want string
	}{
		{function.Scalar, "Scalar functions"},
		{function.OrderedSetAggregate, "Ordered-Set Aggregate functions"},
		{function.SetReturning, "Set-Returning functions"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, kindHeading(tt.kind))
	}
}

func TestGenerateFunctionDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateFunctionDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), generatedHeader)
	assert.Contains(t, string(index), "`generate_series`")

	page, err := os.ReadFile(filepath.Join(dir, "postgres.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "## Aggregate functions")
	assert.Contains(t, string(page), "## Ordered-Set Aggregate functions")
}
