package cmd

import (
	"fmt"
	"os"

	"github.com/dekarrin/rosed"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/peglang/pego/analyze"
	"github.com/peglang/pego/langdef"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a grammar and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
}

func runCheck(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	g, err := langdef.ParseBytes(path, src)
	if err != nil {
		pterm.Error.Println(rosed.Edit(err.Error()).Wrap(100).String())
		return fmt.Errorf("grammar has parse errors")
	}

	errs := analyze.Run(g)
	if len(errs) > 0 {
		for _, e := range errs {
			pterm.Error.Println(rosed.Edit(e.Error()).Wrap(100).String())
		}
		return fmt.Errorf("grammar has %d error(s)", len(errs))
	}

	pterm.Success.Printfln("%s: %d rule(s), no errors", path, g.Rules.Len())
	return nil
}
