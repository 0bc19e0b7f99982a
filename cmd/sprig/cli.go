package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/errors"
	"github.com/hpungsan/sprig/internal/ops"
	"github.com/hpungsan/sprig/internal/repository"
	"github.com/hpungsan/sprig/internal/web"
)

// maxContentBytes caps prompt content read from stdin.
const maxContentBytes = 1 << 20

// newCLIApp creates the CLI application with all commands.
func newCLIApp(repo *repository.Repository, cfg *config.Config, logger *log.Logger) *cli.App {
	app := &cli.App{
		Name:    "sprig",
		Usage:   "Local prompt library",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(repo),
			getCmd(repo),
			editCmd(repo),
			deleteCmd(repo),
			favCmd(repo),
			listCmd(repo),
			tagsCmd(repo, cfg),
			suggestCmd(repo, cfg),
			exportCmd(repo, cfg),
			importCmd(repo, cfg),
			serveCmd(repo, cfg, logger),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(repo *repository.Repository) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a prompt (content from --content or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Prompt title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Prompt content (default: read from stdin)"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.BoolFlag{Name: "fav", Aliases: []string{"f"}, Usage: "Mark as favorite"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CreateInput{
				Title:      c.String("title"),
				Content:    c.String("content"),
				Tags:       parseTags(c.String("tags")),
				IsFavorite: c.Bool("fav"),
			}

			if !c.IsSet("content") && hasPipedInput(c.App.Reader) {
				text, err := readStdin(c.App.Reader, maxContentBytes)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.Content = text
			}

			output, err := ops.Create(c.Context, repo, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// getCmd creates the get command.
func getCmd(repo *repository.Repository) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show a prompt with its full content",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Get(c.Context, repo, ops.GetInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// editCmd creates the edit command.
func editCmd(repo *repository.Repository) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a prompt; only the given fields change (--content=- reads stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "New content, or - for stdin"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated tags (empty clears)"},
			&cli.StringFlag{Name: "remove-tags", Usage: "Comma-separated tags to detach"},
			&cli.BoolFlag{Name: "fav", Aliases: []string{"f"}, Usage: "Set the favorite flag (--fav=false clears)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{ID: c.Args().First()}

			if c.IsSet("title") {
				title := c.String("title")
				input.Title = &title
			}
			if c.IsSet("content") {
				content := c.String("content")
				if content == "-" {
					text, err := readStdin(c.App.Reader, maxContentBytes)
					if err != nil {
						return outputError(errors.NewInvalidRequest(err.Error()))
					}
					content = text
				}
				input.Content = &content
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				if tags == nil {
					tags = []string{}
				}
				input.Tags = &tags
			}
			input.RemoveTags = parseTags(c.String("remove-tags"))
			if c.IsSet("fav") {
				fav := c.Bool("fav")
				input.IsFavorite = &fav
			}

			output, err := ops.Update(c.Context, repo, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(repo *repository.Repository) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a prompt",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, repo, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// favCmd creates the fav command.
func favCmd(repo *repository.Repository) *cli.Command {
	return &cli.Command{
		Name:      "fav",
		Usage:     "Toggle the favorite flag of a prompt",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.ToggleFavorite(c.Context, repo, ops.ToggleFavoriteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(repo *repository.Repository) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List prompts, optionally filtered by a search query",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search title, content and tags"},
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Value: "newest", Usage: "Sort: newest|oldest|favorites"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Value: 0, Usage: "Skip first N results"},
		},
		Action: func(c *cli.Context) error {
			query := c.String("query")
			if query == "" && c.NArg() > 0 {
				query = strings.Join(c.Args().Slice(), " ")
			}

			output, err := ops.List(c.Context, repo, ops.ListInput{
				Query:  query,
				Sort:   c.String("sort"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// tagsCmd creates the tags command.
func tagsCmd(repo *repository.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "List the tag vocabulary (defaults plus tags in use)",
		Action: func(c *cli.Context) error {
			output, err := ops.ListTags(c.Context, repo, cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// suggestCmd creates the suggest command.
func suggestCmd(repo *repository.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest tags matching partially typed text",
		ArgsUsage: "<partial>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "attached", Aliases: []string{"a"}, Usage: "Comma-separated tags to exclude"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Max suggestions (default: suggest_limit)"},
		},
		Action: func(c *cli.Context) error {
			if _, err := repo.Load(c.Context); err != nil {
				return outputError(err)
			}
			output := ops.SuggestTags(repo, cfg, ops.SuggestTagsInput{
				Partial:  c.Args().First(),
				Attached: parseTags(c.String("attached")),
				Limit:    c.Int("limit"),
			})
			return outputJSON(c, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(repo *repository.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all prompts to a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"o"}, Usage: "Output path (default: ~/.sprig/exports/<storage_key>-<timestamp>.json)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, repo, cfg, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(repo *repository.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import prompts from a JSON file",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, repo, cfg, ops.ImportInput{
				Path: c.Args().First(),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(repo *repository.Repository, cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8420, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port <= 0 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("port must be between 1 and 65535, got %d", port)))
			}
			srv := web.NewServer(repo, cfg, logger, c.String("bind"), port)
			return web.Run(srv, logger)
		},
	}
}

// Helper functions

// outputJSON writes v to the app's writer as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// hasPipedInput reports whether r carries piped data. Readers that are not
// files (tests) always count as piped.
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most limit bytes from r. Trailing newlines are dropped;
// other whitespace is kept since it is part of the prompt.
func readStdin(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %d bytes", limit)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
