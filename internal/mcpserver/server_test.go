package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/synapsemed/synapse/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.SampleEngine(t), "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process call helper; invoke the handlers directly.
	var result *mcp.CallToolResult
	var err error
	switch name {
	case "search_library":
		result, err = srv.searchLibrary(ctx, req)
	case "get_record":
		result, err = srv.getRecord(ctx, req)
	case "list_categories":
		result, err = srv.listCategories(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchLibrary(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_library", map[string]any{"query": "aspirin"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"name": "Aspirin"`) {
		t.Errorf("result = %s", resultText(r))
	}
}

func TestSearchLibrary_TypeFilter(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_library", map[string]any{"query": "cardio", "type": "article"})
	text := resultText(r)
	if !strings.Contains(text, "Recent Advances in Cardiac Surgery") {
		t.Errorf("missing article: %s", text)
	}
	if strings.Contains(text, `"type": "drug"`) {
		t.Errorf("type filter ignored: %s", text)
	}
}

func TestSearchLibrary_MissingQuery(t *testing.T) {
	r := callTool(t, testServer(t), "search_library", map[string]any{})
	if !r.IsError {
		t.Error("expected error without query")
	}
}

func TestSearchLibrary_NoResults(t *testing.T) {
	r := callTool(t, testServer(t), "search_library", map[string]any{"query": "zzzz"})
	if resultText(r) != "no results found" {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestGetRecord(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_record", map[string]any{"type": "topic", "id": float64(5)})
	if r.IsError || !strings.Contains(resultText(r), "ECG Interpretation") {
		t.Errorf("result = %s", resultText(r))
	}

	r = callTool(t, srv, "get_record", map[string]any{"type": "topic", "id": float64(42)})
	if !r.IsError {
		t.Error("expected error for missing record")
	}
}

func TestListCategories(t *testing.T) {
	r := callTool(t, testServer(t), "list_categories", map[string]any{"type": "drug"})
	text := resultText(r)
	if !strings.Contains(text, "Cardiology") || strings.Contains(text, "Anatomy") {
		t.Errorf("drug categories = %q", text)
	}
}
