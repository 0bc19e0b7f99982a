package mcp

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/errors"
	"github.com/hpungsan/sprig/internal/ops"
	"github.com/hpungsan/sprig/internal/repository"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	repo   *repository.Repository
	cfg    *config.Config
	logger *log.Logger
}

// NewHandlers creates a new Handlers instance. logger may be nil.
func NewHandlers(repo *repository.Repository, cfg *config.Config, logger *log.Logger) *Handlers {
	return &Handlers{repo: repo, cfg: cfg, logger: logger}
}

// Request types for each tool

// CreateRequest represents the arguments for prompt_create.
type CreateRequest struct {
	Title      string   `json:"title,omitempty"`
	Content    string   `json:"content,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	IsFavorite bool     `json:"is_favorite,omitempty"`
}

// IDRequest represents the arguments for tools addressed by id only.
type IDRequest struct {
	ID string `json:"id"`
}

// UpdateRequest represents the arguments for prompt_update.
type UpdateRequest struct {
	ID         string    `json:"id"`
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	RemoveTags []string  `json:"remove_tags,omitempty"`
	IsFavorite *bool     `json:"is_favorite,omitempty"`
}

// ListRequest represents the arguments for prompt_list.
type ListRequest struct {
	Query  string `json:"query,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// SuggestTagsRequest represents the arguments for prompt_suggest_tags.
type SuggestTagsRequest struct {
	Partial  string   `json:"partial"`
	Attached []string `json:"attached,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

// ExportRequest represents the arguments for prompt_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for prompt_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// HandleCreate handles the prompt_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(ctx, h.repo, ops.CreateInput{
		Title:      input.Title,
		Content:    input.Content,
		Tags:       input.Tags,
		IsFavorite: input.IsFavorite,
	})
	if err != nil {
		return h.fail("prompt_create", err), nil
	}

	return successResult(result)
}

// HandleGet handles the prompt_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(ctx, h.repo, ops.GetInput{ID: input.ID})
	if err != nil {
		return h.fail("prompt_get", err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the prompt_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(ctx, h.repo, ops.UpdateInput{
		ID:         input.ID,
		Title:      input.Title,
		Content:    input.Content,
		Tags:       input.Tags,
		RemoveTags: input.RemoveTags,
		IsFavorite: input.IsFavorite,
	})
	if err != nil {
		return h.fail("prompt_update", err), nil
	}

	return successResult(result)
}

// HandleDelete handles the prompt_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.repo, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return h.fail("prompt_delete", err), nil
	}

	return successResult(result)
}

// HandleToggleFavorite handles the prompt_toggle_favorite tool call.
func (h *Handlers) HandleToggleFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ToggleFavorite(ctx, h.repo, ops.ToggleFavoriteInput{ID: input.ID})
	if err != nil {
		return h.fail("prompt_toggle_favorite", err), nil
	}

	return successResult(result)
}

// HandleList handles the prompt_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.repo, ops.ListInput{
		Query:  input.Query,
		Sort:   input.Sort,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return h.fail("prompt_list", err), nil
	}

	return successResult(result)
}

// HandleSuggestTags handles the prompt_suggest_tags tool call.
func (h *Handlers) HandleSuggestTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SuggestTagsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	// Suggestions read the in-memory snapshot; refresh it first.
	if _, err := h.repo.Load(ctx); err != nil {
		return h.fail("prompt_suggest_tags", err), nil
	}

	result := ops.SuggestTags(h.repo, h.cfg, ops.SuggestTagsInput{
		Partial:  input.Partial,
		Attached: input.Attached,
		Limit:    input.Limit,
	})

	return successResult(result)
}

// HandleExport handles the prompt_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.repo, h.cfg, ops.ExportInput{Path: input.Path})
	if err != nil {
		return h.fail("prompt_export", err), nil
	}

	return successResult(result)
}

// HandleImport handles the prompt_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.repo, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return h.fail("prompt_import", err), nil
	}

	return successResult(result)
}

// fail logs server-side failures and converts err to a tool error result.
func (h *Handlers) fail(tool string, err error) *mcp.CallToolResult {
	if h.logger != nil {
		if sErr, ok := errors.As(err); !ok || sErr.Status >= 500 {
			h.logger.Error("tool call failed", "tool", tool, "err", err)
		}
	}
	return errorResult(err)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := errors.As(err); ok {
		message := sErr.Message
		if error(sErr) != err {
			// keep wrapper context such as "items[2]: ..."
			message = err.Error()
		}
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
