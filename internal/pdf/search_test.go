package pdf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReportTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "harvest/2007_elk.pdf", notAPDF)
	writeFile(t, dir, "harvest/2006_elk.pdf", notAPDF)
	writeFile(t, dir, "2024_elk_draw_recap.pdf", notAPDF)
	writeFile(t, dir, "brochure.pdf", notAPDF)
	writeFile(t, dir, "otc.json", []byte("{}"))
	writeFile(t, dir, "empty.pdf", nil)
	writeFile(t, dir, ".cache/2005_elk_harvest.pdf", notAPDF)
	return dir
}

func TestSearch_SearchDirectory(t *testing.T) {
	dir := setupReportTree(t)
	s := NewSearch(1024 * 1024)

	result, err := s.SearchDirectory(SearchDirectoryRequest{Directory: dir})
	require.NoError(t, err)

	names := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		rel, err := filepath.Rel(dir, f.Path)
		require.NoError(t, err)
		names = append(names, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{
		"2024_elk_draw_recap.pdf",
		"brochure.pdf",
		"harvest/2006_elk.pdf",
		"harvest/2007_elk.pdf",
	}, names)
	assert.Equal(t, 4, result.TotalCount)
}

func TestSearch_Query(t *testing.T) {
	dir := setupReportTree(t)
	s := NewSearch(1024 * 1024)

	tests := []struct {
		query string
		want  int
	}{
		{query: "2006", want: 1},
		{query: "elk 2007", want: 1},
		{query: "harvest", want: 2},
		{query: "draw", want: 1},
		{query: "moose", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result, err := s.SearchDirectory(SearchDirectoryRequest{Directory: dir, Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.TotalCount)
			assert.Equal(t, tt.query, result.SearchQuery)
		})
	}
}

func TestSearch_FindReports(t *testing.T) {
	dir := setupReportTree(t)
	s := NewSearch(1024 * 1024)

	harvest, err := s.FindReports(dir, KindHarvest)
	require.NoError(t, err)
	require.Len(t, harvest, 2)
	assert.Equal(t, "2006_elk.pdf", harvest[0].Name)

	draws, err := s.FindReports(dir, KindDraw)
	require.NoError(t, err)
	require.Len(t, draws, 1)

	all, err := s.FindReports(dir, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSearch_Errors(t *testing.T) {
	s := NewSearch(1024)

	_, err := s.SearchDirectory(SearchDirectoryRequest{})
	assert.Error(t, err)

	_, err = s.SearchDirectory(SearchDirectoryRequest{Directory: "/nonexistent/huntreport"})
	assert.Error(t, err)
}

func TestClassifyName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "pdf/harvest/2006_elk.pdf", want: KindHarvest},
		{path: "2006_Elk_Harvest.pdf", want: KindHarvest},
		{path: "pdf/draw/2024_elk.pdf", want: KindDraw},
		{path: "2024_elk_draw_recap.pdf", want: KindDraw},
		{path: "brochure.pdf", want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyName(filepath.FromSlash(tt.path)))
		})
	}
}

func TestMatchesQuery(t *testing.T) {
	assert.True(t, matchesQuery("2006_elk_harvest.pdf", ""))
	assert.True(t, matchesQuery("2006_elk_harvest.pdf", "elk_harvest"))
	assert.True(t, matchesQuery("2006_elk_harvest.pdf", "harvest 2006"))
	assert.False(t, matchesQuery("2006_elk_harvest.pdf", "harvest 2007"))
}
