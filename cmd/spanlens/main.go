// Command spanlens serves the Arize AX observability platform as MCP
// tools over stdio.
//
// Usage:
//
//	spanlens serve
//	spanlens serve --config spanlens.yaml --log-level debug --log-file spanlens.log
//	spanlens status
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/alecthomas/kong"

	"github.com/spanlens/spanlens/pkg/config"
	"github.com/spanlens/spanlens/pkg/logger"
	"github.com/spanlens/spanlens/pkg/observability"
	"github.com/spanlens/spanlens/pkg/server"
)

// CLI defines the command-line interface.
type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve MCP over stdio."`
	Status  StatusCmd  `cmd:"" help:"Check configuration and exit."`
	Version VersionCmd `cmd:"" help:"Show version information."`

	Config   string `short:"c" help:"Path to YAML config overrides." type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info" env:"LOG_LEVEL"`
	LogFile  string `help:"Log file path (empty = stderr)." env:"LOG_FILE"`
}

// ServeCmd runs the MCP server on stdio.
type ServeCmd struct {
	TraceExport bool `help:"Emit OpenTelemetry spans for outbound calls to stderr."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	if c.TraceExport {
		shutdown, err := observability.Init(context.Background())
		if err != nil {
			return err
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	srv := server.New(cli.Config)
	if err := srv.InitErr(); err != nil {
		// Keep serving: get_status reports the failure to the client.
		slog.Warn("serving degraded: only get_status is available", "error", err)
	}

	slog.Info("serving MCP over stdio", "server", server.Name, "version", server.Version)
	return srv.ServeStdio()
}

// StatusCmd performs the startup check and reports the result.
type StatusCmd struct{}

func (c *StatusCmd) Run(cli *CLI) error {
	if _, err := config.Load(cli.Config); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "hint: check your ARIZE_API_KEY and ARIZE_SPACE_ID environment variables")
		os.Exit(1)
	}
	fmt.Println("configuration ok")
	return nil
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("spanlens %s\n", server.Version)
	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Printf("go: %s\n", info.GoVersion)
	}
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("spanlens"),
		kong.Description("MCP server for the Arize AX observability platform."),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(1)
	}
	cleanup, err := logger.Init(logger.Options{Level: level, File: cli.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := ctx.Run(cli); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
