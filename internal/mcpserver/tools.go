package mcpserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Yeseh/cortex/internal/store"
)

// jsonResult renders v as an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolError maps an expected store failure onto a tool error result.
// The store's error strings already carry the machine-readable code in
// brackets, so agents can branch on it.
func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func registerTools(s *server.MCPServer, ops store.Operations) {
	s.AddTool(mcp.NewTool("memory_create",
		mcp.WithDescription("Store a memory at a category path. Replaces any existing memory at the same path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Slug path, e.g. project/cortex/decisions")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content of the memory")),
		mcp.WithString("source", mcp.Description("Where this memory came from, e.g. a session id")),
		mcp.WithArray("tags", mcp.Description("Tags for the memory"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("citations", mcp.Description("Provenance references"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("expires_at", mcp.Description("RFC3339 expiration timestamp")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		expires, err := parseExpiry(req.GetString("expires_at", ""))
		if err != nil {
			return mcp.NewToolResultError("invalid expires_at: " + err.Error()), nil
		}
		mem, err := ops.Create(ctx, store.CreateParams{
			Path:      path,
			Content:   content,
			Source:    req.GetString("source", ""),
			Tags:      req.GetStringSlice("tags", nil),
			Citations: req.GetStringSlice("citations", nil),
			ExpiresAt: expires,
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(mem)
	})

	s.AddTool(mcp.NewTool("memory_get",
		mcp.WithDescription("Retrieve one memory by path."),
		mcp.WithString("path", mcp.Required()),
		mcp.WithBoolean("include_expired", mcp.Description("Return the memory even if it has expired")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		mem, err := ops.Get(ctx, store.GetParams{
			Path:           path,
			IncludeExpired: req.GetBool("include_expired", false),
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(mem)
	})

	s.AddTool(mcp.NewTool("memory_update",
		mcp.WithDescription("Update fields of an existing memory. Only provided fields change; set clear_expires_at to remove the expiration."),
		mcp.WithString("path", mcp.Required()),
		mcp.WithString("content"),
		mcp.WithArray("tags", mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("citations", mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("expires_at", mcp.Description("RFC3339 expiration timestamp")),
		mcp.WithBoolean("clear_expires_at"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		params := store.UpdateParams{
			Path:           path,
			ClearExpiresAt: req.GetBool("clear_expires_at", false),
		}
		args := req.GetArguments()
		if _, ok := args["content"]; ok {
			content := req.GetString("content", "")
			params.Content = &content
		}
		if _, ok := args["tags"]; ok {
			tags := req.GetStringSlice("tags", nil)
			params.Tags = &tags
		}
		if _, ok := args["citations"]; ok {
			citations := req.GetStringSlice("citations", nil)
			params.Citations = &citations
		}
		expires, err := parseExpiry(req.GetString("expires_at", ""))
		if err != nil {
			return mcp.NewToolResultError("invalid expires_at: " + err.Error()), nil
		}
		params.ExpiresAt = expires
		mem, err := ops.Update(ctx, params)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(mem)
	})

	s.AddTool(mcp.NewTool("memory_remove",
		mcp.WithDescription("Delete one memory. Fails if the memory does not exist."),
		mcp.WithString("path", mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := ops.Remove(ctx, path); err != nil {
			return toolError(err)
		}
		return jsonResult(map[string]any{"removed": path})
	})

	s.AddTool(mcp.NewTool("memory_move",
		mcp.WithDescription("Move a memory to a new path. Fails if the destination already exists."),
		mcp.WithString("from", mcp.Required()),
		mcp.WithString("to", mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		from, err := req.RequireString("from")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		to, err := req.RequireString("to")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := ops.Move(ctx, from, to); err != nil {
			return toolError(err)
		}
		return jsonResult(map[string]any{"from": from, "to": to})
	})

	s.AddTool(mcp.NewTool("memory_list",
		mcp.WithDescription("List memories, optionally scoped to one category subtree."),
		mcp.WithString("category", mcp.Description("Category path; omit to list the whole store")),
		mcp.WithString("pattern", mcp.Description("Glob filter over memory paths, e.g. project/*/decisions")),
		mcp.WithBoolean("include_expired"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := ops.List(ctx, store.ListParams{
			Category:       req.GetString("category", ""),
			Pattern:        req.GetString("pattern", ""),
			IncludeExpired: req.GetBool("include_expired", false),
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(result)
	})

	s.AddTool(mcp.NewTool("memory_prune",
		mcp.WithDescription("Delete every expired memory. With dry_run, only report what would be deleted."),
		mcp.WithBoolean("dry_run"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := ops.Prune(ctx, store.PruneParams{
			DryRun: req.GetBool("dry_run", false),
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(result)
	})

	s.AddTool(mcp.NewTool("memory_reindex",
		mcp.WithDescription("Rebuild the category index tree from the raw file layout."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := ops.Reindex(ctx); err != nil {
			return toolError(err)
		}
		return jsonResult(map[string]any{"reindexed": true})
	})
}
