package commands

import (
	"fmt"

	"git.home.luguber.info/inful/stmartin/internal/site"
)

// CleanCmd implements the 'clean' command. It needs no site variables.
type CleanCmd struct{}

func (c *CleanCmd) Run(g *Global, root *CLI) error {
	a := site.NewAssembler(site.Options{SrcDir: root.Src, OutDir: root.Output}, nil).WithLogger(g.logger())
	removed, err := a.Clean()
	if err != nil {
		return err
	}
	if removed {
		_, _ = fmt.Fprintf(g.stdout(), "Cleaned: %s\n", root.Output)
	}
	return nil
}
