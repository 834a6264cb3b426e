package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/peglang/pego/analyze"
	"github.com/peglang/pego/langdef"
	"github.com/peglang/pego/peval"
	"github.com/peglang/pego/sxtree"
	"github.com/peglang/pego/token/simple"
)

func newRunCommand() *cobra.Command {
	var startRule string

	cmd := &cobra.Command{
		Use:   "run <grammar-file> <input-file>",
		Short: "Parse an input file against a grammar's start rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if startRule == "" {
				startRule = cfg.StartRule
			}
			return runRun(args[0], args[1], startRule)
		},
	}
	cmd.Flags().StringVar(&startRule, "start", "", "start rule (default from config)")
	return cmd
}

func runRun(grammarPath, inputPath, startRule string) error {
	runID := uuid.New()
	pterm.Info.Printfln("run %s: grammar=%s input=%s start=%s", runID, grammarPath, inputPath, startRule)

	gsrc, err := os.ReadFile(grammarPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", grammarPath, err)
	}
	g, err := langdef.ParseBytes(grammarPath, gsrc)
	if err != nil {
		return err
	}
	if _, has := g.Metadata["start"]; !has {
		g.Metadata["start"] = startRule
	}
	if errs := analyze.Run(g); len(errs) > 0 {
		for _, e := range errs {
			pterm.Error.Println(e.Error())
		}
		return fmt.Errorf("grammar has %d error(s)", len(errs))
	}

	isrc, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	stream, err := simple.New(inputPath, isrc)
	if err != nil {
		return fmt.Errorf("tokenizing %s: %w", inputPath, err)
	}

	ev, err := peval.New(g, stream, demoAction)
	if err != nil {
		return err
	}
	ev = ev.WithMetrics(reg)

	value, err := ev.Parse(context.Background())
	if err != nil {
		pterm.Error.Printfln("%s: %v", runID, err)
		return err
	}

	root := sxtree.FromValue(value)
	if root == nil {
		pterm.Success.Printfln("%s: matched (no value)", runID)
		return nil
	}
	printTree(root, "")
	return nil
}

func printTree(n sxtree.Node, indent string) {
	if n.IsNonTerm() {
		name := n.TypeName()
		if name == "" {
			name = "(seq)"
		}
		fmt.Println(indent + name)
		for _, c := range sxtree.Children(n) {
			printTree(c, indent+"  ")
		}
		return
	}
	fmt.Printf("%s%q\n", indent, n.Token().Text)
}
