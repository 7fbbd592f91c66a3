package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateFile(t *testing.T) {
	tempDir := t.TempDir()

	txtPath := writeFile(t, tempDir, "notes.txt", []byte("hello"))
	emptyPath := writeFile(t, tempDir, "empty.pdf", nil)
	largePath := writeFile(t, tempDir, "large.pdf", make([]byte, 2048))
	brokenPath := writeFile(t, tempDir, "broken.pdf", notAPDF)
	dirPath := filepath.Join(tempDir, "reports.pdf")
	require.NoError(t, os.Mkdir(dirPath, 0o755))

	v := NewValidator(1024)

	tests := []struct {
		name    string
		path    string
		message string
	}{
		{name: "empty path", path: "", message: "path cannot be empty"},
		{name: "missing file", path: filepath.Join(tempDir, "missing.pdf"), message: "file does not exist"},
		{name: "directory", path: dirPath, message: "path is a directory"},
		{name: "wrong extension", path: txtPath, message: "file is not a PDF"},
		{name: "empty file", path: emptyPath, message: "file is empty"},
		{name: "too large", path: largePath, message: "file too large"},
		{name: "not a PDF structure", path: brokenPath, message: "invalid PDF file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateFile(ValidateFileRequest{Path: tt.path})
			require.NoError(t, err)

			assert.False(t, result.Valid)
			assert.Equal(t, tt.path, result.Path)
			assert.Contains(t, result.Message, tt.message)
			assert.False(t, v.IsValidPDF(tt.path))
		})
	}
}

func TestValidator_ValidDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "2006_elk.pdf", textPDF(harvestPage, "Page two", "Page three"))
	v := NewValidator(1024 * 1024)

	result, err := v.ValidateFile(ValidateFileRequest{Path: path})
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Message)
	assert.Equal(t, 3, result.Pages)
	assert.Empty(t, result.Message)
	assert.True(t, v.IsValidPDF(path))

	pages, err := v.PageCount(path)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestIsPDFName(t *testing.T) {
	assert.True(t, isPDFName("2006_elk_harvest.pdf"))
	assert.True(t, isPDFName("2024_ELK_DRAW.PDF"))
	assert.False(t, isPDFName("otc.json"))
	assert.False(t, isPDFName("pdf"))
}
