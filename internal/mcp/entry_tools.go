// ABOUTME: MCP tool implementations for daily log entries.
// ABOUTME: Registers get_entry, add_entry, list_entry_ids, edit_entry, delete_entry, nuke_entries.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/daily/internal/models"
	"github.com/2389-research/daily/internal/storage"
)

func (s *Server) registerEntryTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_entry",
		Description: "Read the daily log for a date. Falls back to the most recent day with entries in the last 30 days and says so.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"date": {"type": "string", "description": "today, yesterday, last, or YYYY-MM-DD (default: today)"}
			}
		}`),
	}, s.handleGetEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "add_entry",
		Description: "Append one or more entries to the daily log for a date. Each message becomes its own entry.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"date": {"type": "string", "description": "today, yesterday, last, or YYYY-MM-DD (default: today)"},
				"messages": {"type": "array", "items": {"type": "string"}, "description": "Entries to append"},
				"tag": {"type": "string", "description": "Optional tag, stored by the sqlite backend only"}
			},
			"required": ["messages"]
		}`),
	}, s.handleAddEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_entry_ids",
		Description: "List entries for a date with their ids. Requires the sqlite backend.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"date": {"type": "string", "description": "today, yesterday, last, or YYYY-MM-DD (default: today)"}
			}
		}`),
	}, s.handleListEntryIDs)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "edit_entry",
		Description: "Replace the content of one entry by id. Requires the sqlite backend.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Entry id from list_entry_ids"},
				"content": {"type": "string", "description": "New content for the entry"}
			},
			"required": ["id", "content"]
		}`),
	}, s.handleEditEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "delete_entry",
		Description: "Delete one entry by id. Requires the sqlite backend.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "integer", "description": "Entry id from list_entry_ids"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "nuke_entries",
		Description: "Delete every entry for a date. Refuses unless confirm is true.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"date": {"type": "string", "description": "today, yesterday, last, or YYYY-MM-DD (default: today)"},
				"confirm": {"type": "boolean", "description": "Must be true to delete"}
			},
			"required": ["confirm"]
		}`),
	}, s.handleNukeEntries)
}

func (s *Server) resolveDate(token string) (models.DateKey, error) {
	if strings.TrimSpace(token) == "" {
		token = "today"
	}
	return s.svc.Resolve(token)
}

func (s *Server) handleGetEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Date string `json:"date"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	date, err := s.resolveDate(args.Date)
	if err != nil {
		return toolError("%v", err), nil
	}

	result, err := s.svc.GetEntry(date)
	if err != nil {
		return storageToolError("read entries", err), nil
	}

	var b strings.Builder
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}
	if !result.Date.IsZero() {
		fmt.Fprintf(&b, "Entries for %s:\n", result.Date)
	}
	for _, item := range result.Items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return textResult(b.String()), nil
}

func (s *Server) handleAddEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Date     string   `json:"date"`
		Messages []string `json:"messages"`
		Tag      string   `json:"tag"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	var messages []string
	for _, m := range args.Messages {
		if strings.TrimSpace(m) != "" {
			messages = append(messages, m)
		}
	}
	if len(messages) == 0 {
		return toolError("at least one non-empty message is required"), nil
	}

	date, err := s.resolveDate(args.Date)
	if err != nil {
		return toolError("%v", err), nil
	}

	var warnings []string
	for i, m := range messages {
		result, err := s.svc.AddTaggedEntry(date, m, args.Tag)
		if err != nil {
			return toolError("failed to add entry %d of %d: %v", i+1, len(messages), err), nil
		}
		// The same tag warning repeats per message; report it once.
		if i == 0 {
			warnings = result.Warnings
		}
	}
	s.logger.Debug("added entries via MCP", "date", date.String(), "count", len(messages))

	var b strings.Builder
	for _, w := range warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}
	fmt.Fprintf(&b, "Added %d %s to %s", len(messages), plural(len(messages), "entry", "entries"), date)
	return textResult(b.String()), nil
}

func (s *Server) handleListEntryIDs(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Date string `json:"date"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	date, err := s.resolveDate(args.Date)
	if err != nil {
		return toolError("%v", err), nil
	}

	entries, err := s.svc.EntryIDs(date)
	if err != nil {
		return storageToolError("list entries", err), nil
	}
	if len(entries) == 0 {
		return textResult(fmt.Sprintf("No entries for %s", date)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Entries for %s:\n", date)
	for _, e := range entries {
		fmt.Fprintf(&b, "%s\n", e.Line())
	}
	return textResult(b.String()), nil
}

func (s *Server) handleEditEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		ID      int64  `json:"id"`
		Content string `json:"content"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.ID <= 0 {
		return toolError("id is required"), nil
	}
	if strings.TrimSpace(args.Content) == "" {
		return toolError("content is required, use delete_entry to remove an entry"), nil
	}

	if err := s.svc.EditEntryByID(args.ID, args.Content); err != nil {
		return storageToolError("edit entry", err), nil
	}
	return textResult(fmt.Sprintf("Entry %d updated", args.ID)), nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		ID int64 `json:"id"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.ID <= 0 {
		return toolError("id is required"), nil
	}

	removed, err := s.svc.DeleteEntryByID(args.ID)
	if err != nil {
		return storageToolError("delete entry", err), nil
	}
	if !removed {
		return toolError("entry %d not found", args.ID), nil
	}
	return textResult(fmt.Sprintf("Entry %d deleted", args.ID)), nil
}

func (s *Server) handleNukeEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Date    string `json:"date"`
		Confirm bool   `json:"confirm"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	date, err := s.resolveDate(args.Date)
	if err != nil {
		return toolError("%v", err), nil
	}
	if !args.Confirm {
		return toolError("refusing to delete entries for %s without confirm=true", date), nil
	}

	removed, err := s.svc.NukeEntries(date)
	if err != nil {
		return storageToolError("delete entries", err), nil
	}
	if !removed {
		return textResult(fmt.Sprintf("No entries to delete for %s", date)), nil
	}
	return textResult(fmt.Sprintf("Deleted all entries for %s", date)), nil
}

// unmarshalArgs decodes tool arguments, treating absent arguments as empty.
func unmarshalArgs(req *gomcp.CallToolRequest, v interface{}) error {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func storageToolError(op string, err error) *gomcp.CallToolResult {
	if errors.Is(err, storage.ErrUnsupported) || errors.Is(err, storage.ErrStorage) {
		return toolError("%v", err)
	}
	return toolError("failed to %s: %v", op, err)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
