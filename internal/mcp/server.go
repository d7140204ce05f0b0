// Package mcp exposes the extraction pipeline as a Model Context
// Protocol server.
package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formvane/formvane/internal/config"
	"github.com/formvane/formvane/internal/engine"
	"github.com/formvane/formvane/internal/process"
)

// Server represents the MCP server instance.
type Server struct {
	config    *config.Config
	processor *process.Processor
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config, processor *process.Processor) (*Server, error) {
	if processor == nil {
		return nil, fmt.Errorf("processor cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // No dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		processor: processor,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	extractFileTool := mcp.NewTool(
		"form_extract_file",
		mcp.WithDescription("Extract key-value data from a PDF form file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF form file"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	extractDirectoryTool := mcp.NewTool(
		"form_extract_directory",
		mcp.WithDescription("Extract key-value data from every PDF form in a directory"),
		mcp.WithString("directory",
			mcp.Description("Directory path to process (uses default if empty)"),
		),
	)
	s.mcpServer.AddTool(extractDirectoryTool, s.handleExtractDirectory)

	identifyFileTool := mcp.NewTool(
		"form_identify_file",
		mcp.WithDescription("Identify which known form template a PDF matches"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF form file"),
		),
	)
	s.mcpServer.AddTool(identifyFileTool, s.handleIdentifyFile)

	templatesListTool := mcp.NewTool(
		"form_templates_list",
		mcp.WithDescription("List the loaded form templates and their declared fields"),
	)
	s.mcpServer.AddTool(templatesListTool, s.handleTemplatesList)

	validateFileTool := mcp.NewTool(
		"form_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF within the size limit"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	serverInfoTool := mcp.NewTool(
		"form_server_info",
		mcp.WithDescription("Get server information, available tools, and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.processor.ProcessFile(path)
	return mcp.NewToolResultText(formatDocumentResult(result)), nil
}

func (s *Server) handleExtractDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	results, err := s.processor.ProcessDirectory(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", directory)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Processed %d PDF file(s) in directory: %s\n", len(results), directory)
	for _, res := range results {
		sb.WriteString("\n")
		sb.WriteString(formatDocumentResult(res))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleIdentifyFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := engine.OpenFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot open %s: %v", path, err)), nil
	}
	defer doc.Close()

	tmpl := s.processor.Identify(doc)
	if tmpl == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No known form template matches %s", path)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("File %s matches form template: %s", path, tmpl.FormType)), nil
}

func (s *Server) handleTemplatesList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates := s.processor.Templates()
	if len(templates) == 0 {
		return mcp.NewToolResultText("No form templates loaded"), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Loaded %d form template(s):\n", len(templates))
	for i, t := range templates {
		fmt.Fprintf(&sb, "\n%d. %s\n", i+1, t.FormType)
		fmt.Fprintf(&sb, "   Identification: %q\n", t.IdentificationString)
		fmt.Fprintf(&sb, "   Fields: %d, Checkboxes: %d\n",
			len(t.DataElements.Fields), len(t.DataElements.Checkboxes))
		for _, f := range t.DataElements.Fields {
			required := ""
			if f.Required {
				required = " (required)"
			}
			fmt.Fprintf(&sb, "   - %s [%s]%s\n", f.Name, f.Type, required)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	validator := process.NewValidator(s.config.MaxFileSize)
	if err := validator.ValidateFile(path); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %v", path, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid and readable", path)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&sb, "Default Directory: %s\n", s.config.PDFDirectory)
	if s.config.TemplateDirectory != "" {
		fmt.Fprintf(&sb, "Template Directory: %s (%d templates)\n",
			s.config.TemplateDirectory, len(s.processor.Templates()))
	}
	fmt.Fprintf(&sb, "Max File Size: %d MB\n\n", s.config.MaxFileSize/(1024*1024))

	files, err := process.ScanDirectory(s.config.PDFDirectory)
	if err == nil && len(files) > 0 {
		fmt.Fprintf(&sb, "Directory Contents (%d PDF files found):\n", len(files))
		for i, f := range files {
			if i >= 10 { // Limit to first 10 files for readability
				fmt.Fprintf(&sb, "   ... and %d more files\n", len(files)-10)
				break
			}
			fmt.Fprintf(&sb, "   %d. %s\n", i+1, f)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("Directory Contents: No PDF files found in default directory\n\n")
	}

	sb.WriteString("Available Tools:\n")
	sb.WriteString("• form_extract_file - extract key-value data from one PDF form\n")
	sb.WriteString("• form_extract_directory - extract from every PDF in a directory\n")
	sb.WriteString("• form_identify_file - match a PDF against the loaded templates\n")
	sb.WriteString("• form_templates_list - list loaded templates and fields\n")
	sb.WriteString("• form_validate_file - check a file is a readable PDF\n")
	sb.WriteString("• form_server_info - this information\n")

	return mcp.NewToolResultText(sb.String()), nil
}

// formatDocumentResult renders one document's extraction outcome as
// readable text.
func formatDocumentResult(res process.DocumentResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s\n", res.File)
	if res.FormType != "" {
		fmt.Fprintf(&sb, "Form Type: %s\n", res.FormType)
	}
	fmt.Fprintf(&sb, "Status: %s\n", res.Status)
	if res.Path != "" {
		fmt.Fprintf(&sb, "Extraction: %s\n", res.Path)
	}
	if res.Error != "" {
		fmt.Fprintf(&sb, "Error: %s\n", res.Error)
	}
	if len(res.MissingRequired) > 0 {
		fmt.Fprintf(&sb, "Missing Required: %s\n", strings.Join(res.MissingRequired, ", "))
	}
	if len(res.Records) > 0 {
		fmt.Fprintf(&sb, "Records (%d):\n", len(res.Records))
		for _, rec := range res.Records {
			fmt.Fprintf(&sb, "  [page %d] %s = %s (%s @ %s)\n",
				rec.Page, rec.Key, rec.Value, rec.Method, rec.Coords())
		}
	}
	return sb.String()
}

// Run starts the MCP server in the configured mode.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode.
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting form extraction MCP server in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode.
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs transport still serves stdio only.
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
