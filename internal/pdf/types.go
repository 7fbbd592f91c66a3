package pdf

import (
	"time"

	"github.com/a3tai/huntreport/internal/report/diag"
	"github.com/a3tai/huntreport/internal/report/draw"
	"github.com/a3tai/huntreport/internal/report/harvest"
)

// FileInfo represents information about a report PDF
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
	Kind         string `json:"kind"`
}

// Report kinds recognized from file names
const (
	KindHarvest = "harvest"
	KindDraw    = "draw"
	KindUnknown = "unknown"
)

// Request types

// HarvestExtractRequest selects a harvest report and its parsing options
type HarvestExtractRequest struct {
	Path   string `json:"path"`
	Anchor string `json:"anchor,omitempty"`
	// Year overrides the year taken from the file name when non-zero
	Year int `json:"year,omitempty"`
}

// DrawExtractRequest selects a draw-result report
type DrawExtractRequest struct {
	Path string `json:"path"`
}

// ValidateFileRequest selects a file to check
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// SearchDirectoryRequest lists report PDFs, optionally filtered
type SearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query,omitempty"`
}

// Result types

// HarvestExtractResult is the output of one harvest document
type HarvestExtractResult struct {
	Path  string        `json:"path"`
	Pages int           `json:"pages"`
	Year  int           `json:"year"`
	Rows  []harvest.Row `json:"rows"`
}

// DrawExtractResult is the output of one draw-result document
type DrawExtractResult struct {
	Path     string        `json:"path"`
	Pages    int           `json:"pages"`
	Records  []draw.Record `json:"records"`
	Warnings []*diag.Error `json:"warnings"`
}

// ValidateFileResult reports whether a file can be read as a PDF
type ValidateFileResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// SearchDirectoryResult is the list of report PDFs in a directory
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// ServerInfoResult represents the server configuration and the reports on disk
type ServerInfoResult struct {
	ServerName        string         `json:"server_name"`
	Version           string         `json:"version"`
	DefaultDirectory  string         `json:"default_directory"`
	MaxFileSize       int64          `json:"max_file_size"`
	DirectoryContents []FileInfo     `json:"directory_contents"`
	ReportCounts      map[string]int `json:"report_counts"`
	FromCache         bool           `json:"from_cache"`
	CacheAge          time.Duration  `json:"cache_age"`
}
