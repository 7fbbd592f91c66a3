// Package harvest recovers per-unit rows from the text of harvest summary reports.
//
// A harvest page looks like:
//
//	2006 Elk Harvest, Hunters and Recreation Days for All Archery Seasons
//	     Total Total Percent Total
//	Unit  Bulls Cows Calves Harvest Hunters Success Rec. Days
//	 69 22 31 0 53 251 21 1,041
//	 ...
//	 Total 1,203 ...
//
// Only the subtable that starts at the anchor keyword is read, and only lines made
// of exactly RowWidth integers are kept.
package harvest

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/a3tai/huntreport/internal/report/diag"
	"github.com/sirupsen/logrus"
)

const (
	// RowWidth is the number of tokens in a data row
	RowWidth = 8

	// DefaultAnchor identifies the target subtable on a page
	DefaultAnchor = "archery"

	// TerminalMarker is the first token of the table's end sentinel row
	TerminalMarker = "total"

	thousandsSeparator = ","
	yearPrefixLength   = 4
)

// Columns lists the output columns in order
var Columns = []string{
	"unit",
	"bulls",
	"cows",
	"calves",
	"total_harvest",
	"total_hunters",
	"percent_success",
	"total_rec_days",
	"year",
}

// Row is one decoded table row
type Row struct {
	Unit           int `json:"unit"`
	Bulls          int `json:"bulls"`
	Cows           int `json:"cows"`
	Calves         int `json:"calves"`
	TotalHarvest   int `json:"total_harvest"`
	TotalHunters   int `json:"total_hunters"`
	PercentSuccess int `json:"percent_success"`
	TotalRecDays   int `json:"total_rec_days"`
	Year           int `json:"year"`
}

// Values returns the row in Columns order
func (r Row) Values() []any {
	return []any{
		r.Unit, r.Bulls, r.Cows, r.Calves, r.TotalHarvest,
		r.TotalHunters, r.PercentSuccess, r.TotalRecDays, r.Year,
	}
}

// Options configures document parsing
type Options struct {
	Anchor string
	Year   int
	Logger logrus.FieldLogger
}

// LocateDataSection returns the lines from the first occurrence of anchor to the
// end of the page. The page is lower-cased first. ok is false when the page does
// not contain the anchor, which is normal for pages without the subtable.
func LocateDataSection(pageText, anchor string) (lines []string, ok bool) {
	if anchor == "" {
		anchor = DefaultAnchor
	}

	lower := strings.ToLower(pageText)
	idx := strings.Index(lower, strings.ToLower(anchor))
	if idx == -1 {
		return nil, false
	}

	return strings.Split(lower[idx:], "\n"), true
}

// ClassifyRows returns the data rows found in lines, in input order. Thousands
// separators are stripped before tokenizing. Scanning stops at the first
// RowWidth-token line whose first token is TerminalMarker.
func ClassifyRows(lines []string) [][]string {
	var rows [][]string

	for _, line := range lines {
		tokens := strings.Fields(strings.ReplaceAll(line, thousandsSeparator, ""))
		if len(tokens) != RowWidth {
			continue
		}

		if tokens[0] == TerminalMarker {
			break
		}

		if allDigits(tokens) {
			rows = append(rows, tokens)
		}
	}

	return rows
}

func allDigits(tokens []string) bool {
	for _, tok := range tokens {
		if tok == "" {
			return false
		}
		for i := 0; i < len(tok); i++ {
			if tok[i] < '0' || tok[i] > '9' {
				return false
			}
		}
	}
	return true
}

// ParseDocument runs LocateDataSection and ClassifyRows over every page in order
// and converts the collected rows to integers tagged with opts.Year.
func ParseDocument(pages []string, opts Options) ([]Row, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var raw [][]string
	for i, page := range pages {
		lines, ok := LocateDataSection(page, opts.Anchor)
		if !ok {
			continue
		}
		found := ClassifyRows(lines)
		logger.WithFields(logrus.Fields{"page": i + 1, "rows": len(found)}).Debug("harvest page parsed")
		raw = append(raw, found...)
	}

	rows := make([]Row, 0, len(raw))
	for _, tokens := range raw {
		row, err := ConvertRow(tokens, opts.Year)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ConvertRow turns one classified token row into a Row
func ConvertRow(tokens []string, year int) (Row, error) {
	if err := diag.CheckWidth(tokens, RowWidth, "harvest row"); err != nil {
		return Row{}, err
	}

	var values [RowWidth]int
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 {
			return Row{}, diag.Fatal(diag.KindConversion,
				fmt.Sprintf("column %s value %q is not a non-negative integer", Columns[i], tok))
		}
		values[i] = n
	}

	return Row{
		Unit:           values[0],
		Bulls:          values[1],
		Cows:           values[2],
		Calves:         values[3],
		TotalHarvest:   values[4],
		TotalHunters:   values[5],
		PercentSuccess: values[6],
		TotalRecDays:   values[7],
		Year:           year,
	}, nil
}

// YearFromFilename parses the report year from the first four characters of the
// file's base name, e.g. "2006_elk_harvest.pdf".
func YearFromFilename(path string) (int, error) {
	base := filepath.Base(path)
	if len(base) < yearPrefixLength {
		return 0, fmt.Errorf("file name %q is too short to carry a year prefix", base)
	}

	prefix := base[:yearPrefixLength]
	for _, c := range prefix {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("file name %q does not start with a 4-digit year", base)
		}
	}
	year, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("file name %q does not start with a 4-digit year: %w", base, err)
	}
	return year, nil
}
