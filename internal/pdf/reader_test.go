package pdf

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageReader_ReadPagesErrors(t *testing.T) {
	tempDir := t.TempDir()
	txtPath := writeFile(t, tempDir, "notes.txt", []byte("hello"))
	brokenPath := writeFile(t, tempDir, "broken.pdf", notAPDF)

	reader := NewPageReader(1024 * 1024)

	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{name: "empty path", path: "", errMsg: "path cannot be empty"},
		{name: "missing file", path: filepath.Join(tempDir, "missing.pdf"), errMsg: "file does not exist"},
		{name: "wrong extension", path: txtPath, errMsg: "file is not a PDF"},
		{name: "broken PDF", path: brokenPath, errMsg: "failed to open PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := reader.ReadPages(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Nil(t, pages)
		})
	}
}

func TestNewPageReader(t *testing.T) {
	reader := NewPageReader(4096)

	assert.Equal(t, int64(4096), reader.validator.maxFileSize)
	assert.Equal(t, 1024*1024, reader.maxPageSize)
}

func TestPageReader_ReadPages(t *testing.T) {
	path := writeFile(t, t.TempDir(), "2006_elk.pdf", textPDF("first page\nline two", "second page"))

	pages, err := NewPageReader(1024 * 1024).ReadPages(path)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Contains(t, pages[0], "first page")
	assert.Contains(t, pages[0], "line two")
	assert.NotContains(t, pages[0], "second page")
	assert.Contains(t, pages[1], "second page")
}

func TestPageReader_RejectsOversizedPage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "2006_elk.pdf", textPDF("short", "this page carries more text than allowed"))

	reader := NewPageReader(1024 * 1024)
	reader.maxPageSize = 16

	pages, err := reader.ReadPages(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2 of 2")
	assert.Contains(t, err.Error(), "limit is 16")
	assert.Nil(t, pages)
}

// stubPages serves canned page texts; a non-nil entry in errs fails that page
type stubPages struct {
	texts []string
	errs  map[int]error
}

func (s stubPages) NumPage() int { return len(s.texts) }

func (s stubPages) PageText(num int) (string, error) {
	if err := s.errs[num]; err != nil {
		return "", err
	}
	return s.texts[num-1], nil
}

func TestPageReader_ExtractPagesNamesFailingPage(t *testing.T) {
	reader := NewPageReader(1024 * 1024)
	broken := errors.New("malformed content stream")

	pages, err := reader.extractPages(stubPages{
		texts: []string{"one", "two", "three"},
		errs:  map[int]error{2: broken},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, broken)
	assert.Contains(t, err.Error(), "page 2 of 3")
	assert.Nil(t, pages)

	pages, err = reader.extractPages(stubPages{texts: []string{"one", "", "three"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "", "three"}, pages)
}
