package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/libris/internal/testutil"
)

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal text",
			input:    "Normal Text",
			expected: "Normal Text",
		},
		{
			name:     "text with colon",
			input:    "Dune: Messiah",
			expected: "Dune - Messiah",
		},
		{
			name:     "text with slashes",
			input:    `Input/Output\Part`,
			expected: "Input-Output-Part",
		},
		{
			name:     "reserved characters",
			input:    `What? "Why" <Now> *`,
			expected: "What 'Why' Now",
		},
		{
			name:     "collapses whitespace",
			input:    "  Many   spaces  ",
			expected: "Many spaces",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFilename(tc.input))
		})
	}
}

func TestGetMarkdownFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("notes", "Dune - Messiah.md"), GetMarkdownFilePath("Dune: Messiah", "notes"))
}

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("exists.txt", []byte("x"))

	assert.True(t, FileExists(env.Path("exists.txt")))
	assert.False(t, FileExists(env.Path("missing.txt")))
	assert.False(t, FileExists(env.RootDir()), "directories are not files")
}

func TestWriteFileWithOverwrite(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("nested", "dir", "note.md")

	written, err := WriteFileWithOverwrite(path, []byte("first"), 0o644, false)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = WriteFileWithOverwrite(path, []byte("second"), 0o644, false)
	require.NoError(t, err)
	assert.False(t, written)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))

	written, err = WriteFileWithOverwrite(path, []byte("third"), 0o644, true)
	require.NoError(t, err)
	assert.True(t, written)
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "third", string(content))
}
