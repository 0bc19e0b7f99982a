package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/logging"
	"github.com/hpungsan/sprig/internal/mcp"
	"github.com/hpungsan/sprig/internal/ops"
	"github.com/hpungsan/sprig/internal/repository"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "get": true, "edit": true, "delete": true, "fav": true,
	"list": true, "tags": true, "suggest": true,
	"export": true, "import": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___ _ __  _ __(_) __ _
  / __| '_ \| '__| |/ _' |
  \__ \ |_) | |  | | (_| |
  |___/ .__/|_|  |_|\__, |
      |_|           |___/

  Local prompt library

  Usage: sprig <command> [options]
         sprig --help

  MCP server mode requires piped input.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before opening storage
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if !isCLIMode() && len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'sprig --help' for usage.\n")
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, config.DirName)

	cwd, err := os.Getwd()
	if err != nil {
		fatal("could not determine working directory: %v", err)
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatal("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config: %v", err)
	}

	// stdout carries CLI output and the MCP stream; logs go to stderr
	logger := logging.New(cfg.LogLevel, os.Stderr)

	repo, closeStore, err := openRepository(context.Background(), cfg, baseDir, logger)
	if err != nil {
		fatal("%v", err)
	}
	defer closeStore()

	if isCLIMode() {
		app := newCLIApp(repo, cfg, logger)
		if err := app.Run(os.Args); err != nil {
			closeStore()
			fatal("%v", err)
		}
		return
	}

	// MCP server mode (default)
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logger.Warn("unknown tools in disabled_tools", "tools", unknown)
	}
	if err := mcp.Run(repo, cfg, logger, Version); err != nil {
		closeStore()
		fatal("%v", err)
	}
}

// openRepository opens the configured store and loads the collection,
// writing the seed on first run.
func openRepository(ctx context.Context, cfg *config.Config, baseDir string, logger *log.Logger) (*repository.Repository, func() error, error) {
	s, closeStore, err := openStore(ctx, cfg, baseDir)
	if err != nil {
		return nil, closeStore, err
	}

	seed, err := ops.LoadSeed(cfg, time.Now())
	if err != nil {
		closeStore()
		return nil, closeStore, fmt.Errorf("failed to load seed: %w", err)
	}

	repo := repository.New(s,
		repository.WithSeed(seed),
		repository.WithKey(cfg.StorageKey),
		repository.WithLogger(logger),
	)
	if _, err := repo.Load(ctx); err != nil {
		closeStore()
		return nil, closeStore, fmt.Errorf("failed to load prompts: %w", err)
	}
	logger.Debug("storage ready", "backend", cfg.Backend, "key", cfg.StorageKey)
	return repo, closeStore, nil
}
