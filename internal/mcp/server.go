package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/huntreport/internal/config"
	"github.com/a3tai/huntreport/internal/descriptions"
	"github.com/a3tai/huntreport/internal/pdf"
	"github.com/a3tai/huntreport/internal/table"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	serverInfo *pdf.ServerInfo
	mcpServer  *server.MCPServer
	logger     logrus.FieldLogger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger logrus.FieldLogger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		serverInfo: pdf.NewServerInfo(pdfService),
		mcpServer:  mcpServer,
		logger:     logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	harvestTool := mcp.NewTool(
		"harvest_extract",
		mcp.WithDescription(descriptions.GetToolDescription("harvest_extract")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the harvest report, relative to the report directory"),
		),
		mcp.WithString("anchor",
			mcp.Description("Keyword that starts the target subtable (defaults to the configured anchor)"),
		),
		mcp.WithNumber("year",
			mcp.Description("Report year (defaults to the 4-digit prefix of the file name)"),
		),
	)
	s.mcpServer.AddTool(harvestTool, s.handleHarvestExtract)

	drawTool := mcp.NewTool(
		"draw_extract",
		mcp.WithDescription(descriptions.GetToolDescription("draw_extract")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the draw results report, relative to the report directory"),
		),
	)
	s.mcpServer.AddTool(drawTool, s.handleDrawExtract)

	validateTool := mcp.NewTool(
		"report_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("report_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateFile)

	searchTool := mcp.NewTool(
		"report_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("report_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchDirectory)

	infoTool := mcp.NewTool(
		"report_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("report_server_info")),
	)
	s.mcpServer.AddTool(infoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleHarvestExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	req := pdf.HarvestExtractRequest{Path: path, Anchor: s.config.Anchor}
	if anchor, ok := args["anchor"].(string); ok && anchor != "" {
		req.Anchor = anchor
	}
	if raw, ok := args["year"]; ok && raw != nil {
		year, ok := raw.(float64)
		if !ok || year != math.Trunc(year) || year < 1 || year > math.MaxInt32 {
			return mcp.NewToolResultError(fmt.Sprintf("year must be a positive whole number, got %v", raw)), nil
		}
		req.Year = int(year)
	}

	result, err := s.pdfService.ExtractHarvest(ctx, req)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("harvest extraction failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := s.formatHarvestResult(result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleDrawExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractDraw(ctx, pdf.DrawExtractRequest{Path: path})
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("draw extraction failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := s.formatDrawResult(result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	req := pdf.SearchDirectoryRequest{}
	if dir, ok := args["directory"].(string); ok {
		req.Directory = dir
	}
	if q, ok := args["query"].(string); ok {
		req.Query = q
	}

	result, err := s.pdfService.SearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No report PDFs found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.serverInfo.GetServerInfo(s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// Formatting methods
func (s *Server) formatHarvestResult(result *pdf.HarvestExtractResult) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Harvest report: %s\n", result.Path)
	fmt.Fprintf(&b, "Year: %d\n", result.Year)
	fmt.Fprintf(&b, "Pages: %d\n", result.Pages)
	fmt.Fprintf(&b, "Rows: %d\n\n", len(result.Rows))

	if err := table.WriteCSV(&b, table.FromHarvest("harvest", result.Rows)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) formatDrawResult(result *pdf.DrawExtractResult) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Draw report: %s\n", result.Path)
	fmt.Fprintf(&b, "Pages: %d\n", result.Pages)
	fmt.Fprintf(&b, "Records: %d\n", len(result.Records))

	if len(result.Warnings) > 0 {
		fmt.Fprintf(&b, "Warnings: %d\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w.Error())
		}
	}
	b.WriteString("\n")

	if err := table.WriteCSV(&b, table.FromDraw("draw", result.Records)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) formatSearchDirectoryResult(result *pdf.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d report PDF(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s [%s]\n", i+1, file.Name, file.Kind)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Report Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("Reports (%d harvest, %d draw, %d unknown):\n",
			result.ReportCounts[pdf.KindHarvest], result.ReportCounts[pdf.KindDraw], result.ReportCounts[pdf.KindUnknown])
		for i, file := range result.DirectoryContents {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s [%s]\n", i+1, file.Name, file.Kind)
		}
		text += "\n"
	} else {
		text += "Reports: No report PDFs found in the report directory\n\n"
	}

	text += "Available Tools:\n"
	names := []string{"harvest_extract", "draw_extract", "report_validate_file", "report_search_directory", "report_server_info"}
	for _, name := range names {
		desc := descriptions.GetToolDescription(name)
		if i := strings.Index(desc, "\n"); i != -1 {
			desc = desc[:i]
		}
		text += fmt.Sprintf("  • %s: %s\n", name, desc)
	}

	return text
}

// Run serves MCP over stdio until the client disconnects or ctx is done
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks MCP over the given streams. Cancelling ctx is a clean shutdown.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.WithFields(logrus.Fields{
		"directory": s.config.Directory,
		"version":   s.config.Version,
	}).Info("starting huntreport MCP server in stdio mode")

	err := server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	s.logger.Debug("MCP server stopped")
	return nil
}
