package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Globals are flags shared by all commands.
type Globals struct {
	Config  string `short:"c" default:"mdlinkcheck.yaml" help:"Configuration file path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
}

// CLI is the top-level command structure.
type CLI struct {
	Globals

	Check   CheckCmd   `cmd:"" default:"withargs" help:"Scan Markdown trees for broken project-internal links"`
	Watch   WatchCmd   `cmd:"" help:"Re-run the scan whenever watched Markdown files change"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

func main() {
	// A local .env can supply environment like MDLINKCHECK_GIT_TOKEN.
	_ = godotenv.Load()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("mdlinkcheck"),
		kong.Description("Checker for project-internal Markdown links."),
		kong.UsageOnError(),
	)

	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "mdlinkcheck: error: %v\n", err)
		os.Exit(2)
	}
}
