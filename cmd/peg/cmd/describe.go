package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/peglang/pego/analyze"
	"github.com/peglang/pego/langdef"
)

func newDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file>",
		Short: "Print a table of every rule's analyzed properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(args[0])
		},
	}
}

func runDescribe(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	g, err := langdef.ParseBytes(path, src)
	if err != nil {
		return err
	}
	if errs := analyze.Run(g); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("grammar has %d error(s)", len(errs))
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"rule", "leader", "left_recursive", "nullable", "memoize"})

	for _, r := range g.Rules.Ordered() {
		tbl.AppendRow(table.Row{r.Name, r.Leader, r.LeftRecursive, r.Nullable, r.Memoize})
	}
	tbl.AppendFooter(table.Row{"total", "", "", "", g.Rules.Len()})
	tbl.Render()
	return nil
}
