package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/stmartin/cmd/visitorcount/commands"
	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
	"git.home.luguber.info/inful/stmartin/internal/version"
)

func main() {
	cli := &commands.CLI{}
	kctx := kong.Parse(cli,
		kong.Name("visitorcount"),
		kong.Description("Visitor counter using Simple Analytics. Updates the count by default."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout}
	if err := kctx.Run(global); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
