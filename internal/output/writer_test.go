package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/conceptmerge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter(t *testing.T) {
	assert.False(t, NewWriter(WriterOptions{}).DryRun())
	assert.True(t, NewWriter(WriterOptions{DryRun: true}).DryRun())
}

func TestWriter_Write(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		content  string
	}{
		{name: "new file", content: "# Index\n\n"},
		{name: "overwrites unrelated content", existing: "stale content that is much longer than the new one", content: "# Index\n"},
		{name: "empty content truncates", existing: "old", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "combined_concepts.md")
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0644))
			}

			w := NewWriter(WriterOptions{})
			require.NoError(t, w.Write(path, []byte(tt.content)))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestWriter_Write_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "combined.md")

	w := NewWriter(WriterOptions{})
	require.NoError(t, w.Write(path, []byte("x")))

	assert.FileExists(t, path)
}

func TestWriter_Write_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined.md")

	w := NewWriter(WriterOptions{DryRun: true})
	require.NoError(t, w.Write(path, []byte("x")))

	assert.NoFileExists(t, path)
}

func TestWriter_Write_Failure(t *testing.T) {
	// A directory at the target path cannot be replaced by a file
	path := t.TempDir()

	w := NewWriter(WriterOptions{})
	err := w.Write(path, []byte("x"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWriteFailed)

	var writeErr *domain.OutputWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, path, writeErr.Path)
}
