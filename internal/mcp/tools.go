package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("prompt_create",
	mcp.WithDescription("Create a prompt. Title and content may be empty. Tags are trimmed and deduplicated in order."),
	mcp.WithString("title", mcp.Description("Prompt title")),
	mcp.WithString("content", mcp.Description("Prompt body")),
	mcp.WithArray("tags", mcp.Description("Tags to attach"), mcp.WithStringItems()),
	mcp.WithBoolean("is_favorite", mcp.Description("Mark as favorite on creation (default: false)")),
)

var getToolDef = mcp.NewTool("prompt_get",
	mcp.WithDescription("Fetch one prompt by id, including its full content."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Prompt id")),
)

var updateToolDef = mcp.NewTool("prompt_update",
	mcp.WithDescription("Update a prompt. Only provided fields change; id and created_at are preserved. Pass tags: [] to clear tags."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Prompt id")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("content", mcp.Description("New content")),
	mcp.WithArray("tags", mcp.Description("Replacement tag list"), mcp.WithStringItems()),
	mcp.WithArray("remove_tags", mcp.Description("Tags to detach (applied after tags)"), mcp.WithStringItems()),
	mcp.WithBoolean("is_favorite", mcp.Description("New favorite flag")),
)

var deleteToolDef = mcp.NewTool("prompt_delete",
	mcp.WithDescription("Delete a prompt. Deleting an unknown id succeeds with deleted=false."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Prompt id")),
)

var toggleFavoriteToolDef = mcp.NewTool("prompt_toggle_favorite",
	mcp.WithDescription("Flip the favorite flag of a prompt."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Prompt id")),
)

var listToolDef = mcp.NewTool("prompt_list",
	mcp.WithDescription("List prompt summaries. The query is a case-insensitive substring match over title, content and tags."),
	mcp.WithString("query", mcp.Description("Search text (empty matches all)")),
	mcp.WithString("sort", mcp.Description("newest (default), oldest or favorites; other values keep stored order")),
	mcp.WithNumber("limit", mcp.Description("Page size (default: 20, max: 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip (default: 0)")),
)

var suggestTagsToolDef = mcp.NewTool("prompt_suggest_tags",
	mcp.WithDescription("Suggest tags matching partially typed text, drawn from the default tags and tags already in use."),
	mcp.WithString("partial", mcp.Required(), mcp.Description("Text typed so far")),
	mcp.WithArray("attached", mcp.Description("Tags already attached; these are excluded"), mcp.WithStringItems()),
	mcp.WithNumber("limit", mcp.Description("Maximum suggestions (default: suggest_limit from config)")),
)

var exportToolDef = mcp.NewTool("prompt_export",
	mcp.WithDescription("Export the whole collection to a JSON file that can be imported again."),
	mcp.WithString("path", mcp.Description("Destination (default: ~/.sprig/exports/<storage_key>-<timestamp>.json)")),
)

var importToolDef = mcp.NewTool("prompt_import",
	mcp.WithDescription("Import prompts from a JSON collection file. The file is validated before anything is written."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source file")),
	mcp.WithString("mode", mcp.Description("Collision behavior (default: error)"), mcp.Enum("error", "replace", "skip")),
)
