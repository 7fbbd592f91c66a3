package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile creates a file under dir, creating parent directories as needed
func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

// notAPDF has the right extension but no PDF structure
var notAPDF = []byte("This is not a PDF document")

// textPDF builds a small PDF with one page per argument. Each line of a page is
// drawn by its own Tj and keeps its trailing newline inside the string, so the
// extracted text reproduces the page argument line for line.
func textPDF(pages ...string) []byte {
	var objects []string

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, text := range pages {
		var content strings.Builder
		content.WriteString("BT\n/F1 10 Tf\n72 740 Td\n")
		lines := strings.Split(text, "\n")
		for j, line := range lines {
			if j < len(lines)-1 {
				line += "\n"
			}
			fmt.Fprintf(&content, "(%s) Tj\n0 -12 Td\n", escapePDFString(line))
		}
		content.WriteString("ET")

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func escapePDFString(s string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\n", `\n`).Replace(s)
}

// harvestPage is a harvest summary page holding two archery rows
const harvestPage = "2006 Elk Harvest, Hunters and Recreation Days for All Archery Seasons\n" +
	"Total Total Percent Total\n" +
	"Unit Bulls Cows Calves Harvest Hunters Success Rec. Days\n" +
	"69 22 31 0 53 251 21 1,041\n" +
	"70 1 2 0 3 40 8 120\n" +
	"Total 23 33 0 56 291 19 1,161"

// drawPage is a draw results page holding one complete record
const drawPage = "EE001E1R A \nDrawn Out At 19 Pref \nPoints \n30 Pref \nPoints \nNone \nDrawn \nNone \n" +
	"Drawn 4 Pref Points 2 Pref Points \n# Drawn at Final Level 1 of 3 1 of 1 N/A N/A 1 of 2 1 of 3"
