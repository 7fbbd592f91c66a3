package pdf

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/huntreport/internal/report/draw"
	"github.com/a3tai/huntreport/internal/report/harvest"
)

// Service handles report operations by orchestrating the PDF components and
// the report parsers
type Service struct {
	maxFileSize   int64
	reader        *PageReader
	validator     *Validator
	search        *Search
	pathValidator *PathValidator
	logger        logrus.FieldLogger
}

// NewService creates a new service rooted at configuredDirectory. Every path
// it is given must resolve inside that directory.
func NewService(maxFileSize int64, configuredDirectory string, logger logrus.FieldLogger) (*Service, error) {
	pathValidator, err := NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewPageReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
		logger:        logger,
	}, nil
}

// resolve normalizes path against the configured directory and rejects
// anything outside it
func (s *Service) resolve(path string) (string, error) {
	resolved, err := s.pathValidator.NormalizePath(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// ReadPages returns the text of every page of a report
func (s *Service) ReadPages(path string) ([]string, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return s.reader.ReadPages(resolved)
}

// ExtractHarvest reads a harvest report and returns its archery rows
func (s *Service) ExtractHarvest(ctx context.Context, req HarvestExtractRequest) (*HarvestExtractResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}

	year := req.Year
	if year == 0 {
		year, err = harvest.YearFromFilename(path)
		if err != nil {
			return nil, err
		}
	}

	pages, err := s.reader.ReadPages(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := harvest.ParseDocument(pages, harvest.Options{
		Anchor: req.Anchor,
		Year:   year,
		Logger: s.logger.WithField("source", filepath.Base(path)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &HarvestExtractResult{
		Path:  path,
		Pages: len(pages),
		Year:  year,
		Rows:  rows,
	}, nil
}

// ExtractDraw reads a draw-result report and reassembles its records. Pages
// are fed to a fresh parser in order; a fatal outcome aborts this document only.
func (s *Service) ExtractDraw(ctx context.Context, req DrawExtractRequest) (*DrawExtractResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}

	pages, err := s.reader.ReadPages(path)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	parser := draw.NewParser(draw.WithLogger(s.logger), draw.WithSource(source))
	for i, text := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if out := parser.ParsePage(i+1, text); out.Fatal != nil {
			return nil, out.Fatal
		}
	}

	result, err := parser.Finish()
	if err != nil {
		return nil, err
	}

	return &DrawExtractResult{
		Path:     path,
		Pages:    len(pages),
		Records:  result.Records,
		Warnings: result.Warnings,
	}, nil
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// SearchDirectory searches for report PDFs in a directory
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	// If no directory specified, use configured directory
	if req.Directory == "" {
		req.Directory = s.pathValidator.ConfiguredDirectory()
	}

	dir, err := s.resolve(req.Directory)
	if err != nil {
		return nil, err
	}
	req.Directory = dir

	return s.search.SearchDirectory(req)
}

// FindReports lists the reports of one kind under the configured directory
func (s *Service) FindReports(kind string) ([]FileInfo, error) {
	return s.search.FindReports(s.pathValidator.ConfiguredDirectory(), kind)
}

// Directory returns the configured report directory
func (s *Service) Directory() string {
	return s.pathValidator.ConfiguredDirectory()
}

// MaxFileSize returns the maximum file size limit
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}
