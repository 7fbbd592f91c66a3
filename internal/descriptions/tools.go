package descriptions

// Tool descriptions with practical examples and use cases

const (
	HarvestExtractDescription = `Recover the archery rows of a yearly harvest report as a table.

**When to use:** Need per-unit archery harvest numbers (bulls, cows, calves, hunters, success, recreation days) from a harvest statistics PDF.

**How it works:** Finds the archery section, reads every 8-number row until the total row, and stamps each row with the report year.

**Examples:**
• "Extract archery harvest from harvest/2006_elk.pdf"
• "Extract harvest/2019_elk.pdf using the 'muzzleloader' section"

**Best practices:** Name files with a leading 4-digit year (2006_elk.pdf) or pass the year explicitly. Paths are relative to the report directory.`

	DrawExtractDescription = `Reassemble the records of a draw results report as a table.

**When to use:** Need per-hunt-code draw outcomes (applicants by list, drawn-out-at levels for first and final rounds) from a draw recap PDF.

**How it works:** Splits each page into segments, classifies them as hunt codes or result blocks, and reassembles one record per hunt code. Records torn across page breaks are repaired and reported as warnings.

**Examples:**
• "Extract draw results from draw/2024_elk_draw_recap.pdf"

**Best practices:** Check the warnings in the response. A fatal error means the layout was not recognized and nothing from that document should be trusted.`

	ValidateFileDescription = `Verify that a report PDF is readable before extraction.

**When to use:** Before extracting a report, or when an extraction fails and you want to know whether the file itself is the problem.

**Examples:**
• "Validate harvest/2006_elk.pdf"

**Best practices:** Reports the page count of valid files.`

	SearchDirectoryDescription = `Find report PDFs in the report directory with optional fuzzy search.

**When to use:** Discover which harvest and draw reports are available before extracting them.

**Examples:**
• "List all reports"
• "Find the 2006 harvest report" (query: "2006 harvest")

**Best practices:** Each result carries its kind (harvest, draw or unknown) guessed from the file name and its folder.`

	ServerInfoDescription = `Get server information, configured directory, and the reports found there.

**When to use:** At the start of a session to learn where reports live and which tools can read them.

**Best practices:** The report listing is cached for a few minutes.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"harvest_extract":         HarvestExtractDescription,
	"draw_extract":            DrawExtractDescription,
	"report_validate_file":    ValidateFileDescription,
	"report_search_directory": SearchDirectoryDescription,
	"report_server_info":      ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
