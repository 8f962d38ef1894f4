package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/stmartin/cmd/sitebuild/commands"
	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
	"git.home.luguber.info/inful/stmartin/internal/version"
)

func main() {
	cli := &commands.CLI{}
	kctx := kong.Parse(cli,
		kong.Name("sitebuild"),
		kong.Description("Build the Saint-Martin website: inject components, substitute placeholders and fingerprint assets."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout}
	if err := kctx.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
