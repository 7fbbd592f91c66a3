package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/a3tai/huntreport/internal/report/draw"
)

const testPage = "EE001E1R A \nDrawn Out At 1 2 3 4 5 6 \n# Drawn at Final Level 6 5 4 3 2 1"

func TestDumpPages(t *testing.T) {
	dumps, err := dumpPages([]string{"cover page", testPage}, 2, false, draw.DefaultRules())
	if err != nil {
		t.Fatalf("dumpPages() error = %v", err)
	}
	if len(dumps) != 1 {
		t.Fatalf("expected 1 page, got %d", len(dumps))
	}

	d := dumps[0]
	if d.Page != 2 {
		t.Errorf("Page = %d, want 2", d.Page)
	}
	if d.Raw != "" {
		t.Errorf("Raw should be omitted, got %q", d.Raw)
	}

	want := []SegmentDump{
		{Text: "EE001E1R A", Kind: "identifier_pair"},
		{Text: "DRA 1 2 3 4 5 6", Kind: "first_round_result"},
		{Text: "DAFL 6 5 4 3 2 1", Kind: "final_round_result"},
	}
	if len(d.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(d.Segments), len(want), d.Segments)
	}
	for i := range want {
		if d.Segments[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, d.Segments[i], want[i])
		}
	}
}

func TestDumpPages_PageOutOfRange(t *testing.T) {
	if _, err := dumpPages([]string{testPage}, 3, true, draw.DefaultRules()); err == nil {
		t.Error("expected error for page out of range")
	}
}

func TestOutputResults(t *testing.T) {
	dumps, err := dumpPages([]string{testPage}, 0, true, draw.DefaultRules())
	if err != nil {
		t.Fatalf("dumpPages() error = %v", err)
	}

	var text bytes.Buffer
	if err := outputResults(&text, dumps, "text"); err != nil {
		t.Fatalf("text output failed: %v", err)
	}
	for _, want := range []string{"=== Page 1 ===", "--- raw ---", "--- segments (3) ---", "identifier_pair"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, text.String())
		}
	}

	var js bytes.Buffer
	if err := outputResults(&js, dumps, "json"); err != nil {
		t.Fatalf("json output failed: %v", err)
	}
	var decoded []PageDump
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded) != 1 || len(decoded[0].Segments) != 3 {
		t.Errorf("unexpected json output: %s", js.String())
	}

	if err := outputResults(&js, dumps, "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
