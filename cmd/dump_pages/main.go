// Command dump_pages prints the raw text, the normalized text and the classified
// segments of each page of a draw results report. It is used to debug the rule
// table against a new report layout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/a3tai/huntreport/internal/config"
	"github.com/a3tai/huntreport/internal/pdf"
	"github.com/a3tai/huntreport/internal/report/draw"
)

var (
	pageNumber   = flag.Int("page", 0, "Only dump this page (1-based); 0 dumps every page")
	outputFormat = flag.String("format", "text", "Output format: text, json")
	showRaw      = flag.Bool("raw", true, "Include the raw page text")
	help         = flag.Bool("help", false, "Show help message")
)

// PageDump is the diagnostic view of one page
type PageDump struct {
	Page       int           `json:"page"`
	Raw        string        `json:"raw,omitempty"`
	Normalized string        `json:"normalized"`
	Segments   []SegmentDump `json:"segments"`
}

// SegmentDump is one segment and its classification
type SegmentDump struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

func main() {
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	pages, err := pdf.NewPageReader(config.DefaultMaxFileSize).ReadPages(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading pages: %v\n", err)
		os.Exit(1)
	}

	dumps, err := dumpPages(pages, *pageNumber, *showRaw, draw.DefaultRules())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(os.Stdout, dumps, *outputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  dump_pages [OPTIONS] <draw_report.pdf>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
}

// dumpPages normalizes and segments the selected pages
func dumpPages(pages []string, only int, raw bool, rules draw.RuleTable) ([]PageDump, error) {
	if only < 0 || only > len(pages) {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", only, len(pages))
	}

	var dumps []PageDump
	for i, text := range pages {
		if only != 0 && i+1 != only {
			continue
		}

		normalized := draw.Normalize(text, rules)
		d := PageDump{Page: i + 1, Normalized: normalized}
		if raw {
			d.Raw = text
		}
		for _, seg := range draw.Segment(normalized) {
			d.Segments = append(d.Segments, SegmentDump{Text: seg, Kind: draw.Classify(seg).String()})
		}
		dumps = append(dumps, d)
	}
	return dumps, nil
}

func outputResults(w io.Writer, dumps []PageDump, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dumps)
	case "text":
		for _, d := range dumps {
			fmt.Fprintf(w, "=== Page %d ===\n", d.Page)
			if d.Raw != "" {
				fmt.Fprintf(w, "--- raw ---\n%s\n", d.Raw)
			}
			fmt.Fprintf(w, "--- normalized ---\n%s\n", d.Normalized)
			fmt.Fprintf(w, "--- segments (%d) ---\n", len(d.Segments))
			for i, s := range d.Segments {
				fmt.Fprintf(w, "%3d %-18s %q\n", i+1, s.Kind, s.Text)
			}
			fmt.Fprintln(w)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
