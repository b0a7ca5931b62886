// Package mcpserver exposes the library search as MCP (Model Context Protocol)
// tools over stdio, so LLM clients can look up study material.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/synapsemed/synapse/internal/models"
	"github.com/synapsemed/synapse/internal/search"
)

// Server wraps the MCP server with the library tools.
type Server struct {
	mcp    *server.MCPServer
	engine *search.Engine
}

// New creates a new MCP server with all tools registered.
func New(engine *search.Engine, version string) *Server {
	s := &Server{engine: engine}

	s.mcp = server.NewMCPServer(
		"Synapse Med",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_library",
		mcp.WithDescription("Search books, articles, drugs, and topics by title, name, author, drug class, or category. "+
			"Returns at most 20 records, title/name matches first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Case-insensitive substring to look for")),
		mcp.WithString("type", mcp.Description("Restrict to one record type"),
			mcp.Enum("all", "book", "article", "drug", "topic")),
		mcp.WithString("category", mcp.Description("Restrict to one category (e.g. Cardiology); 'all' for none")),
	), s.searchLibrary)

	s.mcp.AddTool(mcp.NewTool("get_record",
		mcp.WithDescription("Fetch a single record by type and id."),
		mcp.WithString("type", mcp.Required(), mcp.Enum("book", "article", "drug", "topic")),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Record id within its type")),
	), s.getRecord)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the categories present in the library, optionally for one record type."),
		mcp.WithString("type", mcp.Enum("all", "book", "article", "drug", "topic")),
	), s.listCategories)

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

func (s *Server) searchLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q := search.Normalize(query, req.GetString("type", search.All), req.GetString("category", search.All))

	results, err := s.engine.Search(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no results found"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, ok := models.ParseKind(typ)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown type: %s", typ)), nil
	}
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, found, err := s.engine.Get(ctx, kind, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s/%d", kind, id)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var kind models.Kind
	if k, ok := models.ParseKind(req.GetString("type", search.All)); ok {
		kind = k
	}
	cats, err := s.engine.Categories(ctx, kind)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.Join(cats, "\n")), nil
}
