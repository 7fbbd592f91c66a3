package draw

import (
	"strings"
)

// FootnoteMarker starts the shading footnote at the bottom of a page. Nothing
// after it belongs to a record.
const FootnoteMarker = "*  Hunts shaded"

// headerTag appears in report titles that reuse the first-round label
const headerTag = "Report"

// Valid hunt code prefixes and list code suffixes
var (
	codePrefixes = []string{"EE", "EM", "EF", "EP"}
	listSuffixes = []string{"A", "B", "C"}
)

// SegmentKind is the structural class of a segment
type SegmentKind int

const (
	Unclassified SegmentKind = iota
	IdentifierPair
	FirstRoundResult
	FinalRoundResult
)

// String returns a string representation of the SegmentKind
func (k SegmentKind) String() string {
	switch k {
	case IdentifierPair:
		return "identifier_pair"
	case FirstRoundResult:
		return "first_round_result"
	case FinalRoundResult:
		return "final_round_result"
	default:
		return "unclassified"
	}
}

// Segment splits normalized page text into record units. The footnote marker
// ends the useful content of the page. Segments are trimmed and their internal
// line breaks become single spaces.
func Segment(normalized string) []string {
	if idx := strings.Index(normalized, FootnoteMarker); idx != -1 {
		normalized = normalized[:idx]
	}

	parts := strings.Split(normalized, SplitMarker)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", " ")
		p = strings.ReplaceAll(p, "\n", " ")
		segments = append(segments, p)
	}
	return segments
}

// Classify returns the structural class of a segment
func Classify(segment string) SegmentKind {
	switch {
	case hasAnyPrefix(segment, codePrefixes) && hasAnySuffix(segment, listSuffixes):
		return IdentifierPair
	case strings.HasPrefix(segment, FirstRoundTag+" ") && !strings.Contains(segment, headerTag):
		return FirstRoundResult
	case strings.HasPrefix(segment, FinalRoundTag):
		return FinalRoundResult
	default:
		return Unclassified
	}
}

// resultTokens strips the leading tag and returns the remaining whitespace
// separated values.
func resultTokens(segment, tag string) []string {
	return strings.Fields(strings.TrimPrefix(segment, tag))
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, x := range suffixes {
		if strings.HasSuffix(s, x) {
			return true
		}
	}
	return false
}
