package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTree(t *testing.T) {
	dir := WriteTree(t, map[string]string{
		"a.txt":        "a",
		"nested/b.txt": "b",
	})

	assert.Equal(t, "a", ReadFile(t, dir, "a.txt"))
	assert.Equal(t, "b", ReadFile(t, dir, "nested/b.txt"))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestContext(t *testing.T) {
	ctx := Context(t)
	assert.NotEqual(t, zerolog.Disabled, zerolog.Ctx(ctx).GetLevel())
}

func TestPlainOutput(t *testing.T) {
	t.Run("inner", func(t *testing.T) {
		PlainOutput(t)
		assert.True(t, color.NoColor)
	})
}
