package editor

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aryan1718/OverLeaf-MCP/kit"
)

// RegisterMCP registers the Overleaf tools on an MCP server.
func (e *Editor) RegisterMCP(srv *mcp.Server) {
	e.registerReadTool(srv)
	e.registerListTool(srv)
	e.registerUpdateTool(srv)
	e.registerSummarizeTool(srv)
	e.registerRecentEditsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- read ---

type readRequest struct {
	Path string `json:"path,omitempty"`
	Raw  bool   `json:"raw,omitempty"`
}

func (e *Editor) registerReadTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "overleaf_read",
		Description: "Read a file from the Overleaf project. Raw returns full LaTeX source; otherwise a human-friendly preview.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Relative path inside the project (default main.tex)"},
			"raw":  map[string]any{"type": "boolean", "description": "Return raw LaTeX instead of a preview"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*readRequest)
		return e.Read(ctx, r.Path, r.Raw)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r readRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- list ---

func (e *Editor) registerListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "overleaf_list",
		Description: "List all files in the Overleaf project (recursively, .git excluded).",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return e.List(ctx)
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- update_section ---

func (e *Editor) registerUpdateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "overleaf_update_section",
		Description: "Replace ONLY the body of a LaTeX section with the given title, then commit and push. Everything outside the section body is left byte-for-byte untouched. The only write tool.",
		InputSchema: inputSchema(map[string]any{
			"path":             map[string]any{"type": "string", "description": "File to edit, e.g. main.tex"},
			"section_title":    map[string]any{"type": "string", "description": "Exact section title, e.g. PROJECTS or Methodology"},
			"heading_command":  map[string]any{"type": "string", "description": "Heading macro name: section matches \\section{...}, sect matches \\sect{...} (default section)"},
			"new_section_body": map[string]any{"type": "string", "description": "New LaTeX body for the section"},
			"commit_message":   map[string]any{"type": "string", "description": "Optional git commit message"},
		}, []string{"path", "section_title", "new_section_body"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*UpdateRequest)
		return e.Update(ctx, *r)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r UpdateRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- summarize_section ---

type summarizeRequest struct {
	Path           string `json:"path"`
	SectionTitle   string `json:"section_title"`
	HeadingCommand string `json:"heading_command,omitempty"`
	MaxSentences   int    `json:"max_sentences,omitempty"`
}

func (e *Editor) registerSummarizeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "overleaf_summarize_section",
		Description: "Summarize one LaTeX section in plain language, keeping technical terms.",
		InputSchema: inputSchema(map[string]any{
			"path":            map[string]any{"type": "string", "description": "File to read"},
			"section_title":   map[string]any{"type": "string", "description": "Exact section title"},
			"heading_command": map[string]any{"type": "string", "description": "Heading macro name (default section)"},
			"max_sentences":   map[string]any{"type": "integer", "description": "Max summary sentences (default 3)"},
		}, []string{"path", "section_title"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*summarizeRequest)
		return e.Summarize(ctx, r.Path, r.SectionTitle, r.HeadingCommand, r.MaxSentences)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r summarizeRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- recent_edits ---

type recentEditsRequest struct {
	Limit int `json:"limit,omitempty"`
}

func (e *Editor) registerRecentEditsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "overleaf_recent_edits",
		Description: "Show the most recent section edits recorded in the audit log.",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max entries (default 20)"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*recentEditsRequest)
		entries, err := e.RecentEdits(ctx, r.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"edits": entries}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r recentEditsRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
