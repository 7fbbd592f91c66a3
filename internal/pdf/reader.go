package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

// PageReader extracts the plain text of every page of a PDF. The extractor is a
// black box to the report parsers: they only see one string per page.
type PageReader struct {
	validator   *Validator
	maxPageSize int
}

// NewPageReader creates a new page reader with the specified constraints
func NewPageReader(maxFileSize int64) *PageReader {
	return &PageReader{
		validator:   NewValidator(maxFileSize),
		maxPageSize: 1024 * 1024, // 1MB of text per page
	}
}

// ReadPages returns the text of each page in document order. A page whose text
// cannot be extracted, or exceeds the page size limit, fails the whole read with
// an error naming the page.
func (r *PageReader) ReadPages(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	// Check if file exists and get basic info
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validator.ValidateFileInfo(path, fileInfo); err != nil {
		return nil, err
	}

	// Open and parse PDF
	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages, err := r.extractPages(document{pdfReader})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return pages, nil
}

// pageSource is the view of a parsed document that extractPages needs
type pageSource interface {
	NumPage() int
	PageText(num int) (string, error)
}

// document adapts a parsed PDF to pageSource
type document struct {
	r *pdf.Reader
}

func (d document) NumPage() int {
	return d.r.NumPage()
}

func (d document) PageText(num int) (string, error) {
	page := d.r.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page object is missing")
	}
	return page.GetPlainText(nil)
}

// extractPages extracts the text of every page, 1-based page numbers in errors
func (r *PageReader) extractPages(src pageSource) ([]string, error) {
	total := src.NumPage()
	pages := make([]string, total)

	for pageNum := 1; pageNum <= total; pageNum++ {
		content, err := src.PageText(pageNum)
		if err != nil {
			return nil, fmt.Errorf("page %d of %d: %w", pageNum, total, err)
		}
		if len(content) > r.maxPageSize {
			return nil, fmt.Errorf("page %d of %d: extracted text is %d bytes, limit is %d",
				pageNum, total, len(content), r.maxPageSize)
		}
		pages[pageNum-1] = content
	}

	return pages, nil
}
