// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Compliee tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/compliee/compliee/internal/ai"
	"github.com/compliee/compliee/internal/library"
)

// mcpAuthor is recorded as the owner of documents created over MCP.
const mcpAuthor = "mcp"

// Server wraps the MCP server with Compliee tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *library.Service
	drafter *ai.Drafter
}

// New creates a new MCP server with all Compliee tools registered. drafter
// may be nil; the draft tool then reports that drafting is not configured.
func New(svc *library.Service, drafter *ai.Drafter) *Server {
	s := &Server{svc: svc, drafter: drafter}

	s.mcp = server.NewMCPServer(
		"Compliee",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search through compliance document content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a compliance document: title, label color, body HTML, completeness score and audit status."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. q4_policy.html)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new compliance document. Body content MUST follow the canonical "+
			"document format (HTML fragment, no outer envelope). Read the contract first via "+
			"the get_document_contract tool or the compliee://document-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Human-readable document title")),
		mcp.WithString("color", mcp.Description("Optional label color as a hex value (e.g. #4f46e5)")),
		mcp.WithString("body", mcp.Description("Optional initial body HTML following the document format contract")),
	), s.createDocument)

	s.mcp.AddTool(mcp.NewTool("get_document_contract",
		mcp.WithDescription("Returns the canonical Compliee document format contract. "+
			"Call this before creating or updating documents to ensure correct structure."),
	), s.getDocumentContract)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all compliance documents, newest first."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("draft",
		mcp.WithDescription("Generate draft content from an instruction, optionally continuing an existing document."),
		mcp.WithString("instruction", mcp.Required(), mcp.Description("What the draft should contain")),
		mcp.WithString("path", mcp.Description("Optional path of the document to continue")),
	), s.draft)

	// Resource: document format contract.
	s.mcp.AddResource(
		mcp.NewResource("compliee://document-format", "Document Format Contract",
			mcp.WithResourceDescription("Canonical HTML document format that all documents must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDocumentFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Load(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	color := req.GetString("color", "")
	body := req.GetString("body", "")

	doc, err := s.svc.Create(ctx, title, color, mcpAuthor)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if body != "" {
		if doc, err = s.svc.Save(ctx, doc.Path, doc.Title, doc.Color, body); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return mcp.NewToolResultText(fmt.Sprintf("created: %s", doc.Path)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", item.Path, item.Title, item.Status))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) draft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.drafter == nil {
		return mcp.NewToolResultError("ai drafting is not configured"), nil
	}
	instruction, err := req.RequireString("instruction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var documentHTML string
	if path := req.GetString("path", ""); path != "" {
		doc, loadErr := s.svc.Load(ctx, path)
		if loadErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		documentHTML = doc.Body
	}

	content, err := s.drafter.Draft(ctx, instruction, documentHTML, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) getDocumentContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentFormatContract), nil
}

func (s *Server) readDocumentFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "compliee://document-format",
			MIMEType: "text/markdown",
			Text:     DocumentFormatContract,
		},
	}, nil
}
