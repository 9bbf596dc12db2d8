package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/langfuse-report/internal/commands"
	"github.com/wolfeidau/langfuse-report/internal/help"
)

var (
	version = "dev"
)

// CLI represents the command-line interface
type CLI struct {
	commands.Globals

	Version kong.VersionFlag `short:"v" help:"Show version information"`

	Report   commands.ReportCmd   `cmd:"" help:"Generate a JUnit XML or text report for a Langfuse dataset run (default)" default:"withargs"`
	Validate commands.ValidateCmd `cmd:"" help:"Validate configuration file against JSON schema"`
	Schema   commands.SchemaCmd   `cmd:"" help:"Generate JSON schema for the configuration file"`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("langfuse-report"),
		kong.Description("Export Langfuse dataset runs as JUnit XML or text reports"),
		kong.UsageOnError(),
		kong.Help(help.Printer(help.DefaultStyles())),
		kong.Vars{"version": version},
	)

	ctx.FatalIfErrorf(commands.SetupLogging(cli.LogLevel, os.Stderr))

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
