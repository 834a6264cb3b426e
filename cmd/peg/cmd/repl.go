package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/peglang/pego/analyze"
	"github.com/peglang/pego/langdef"
	"github.com/peglang/pego/peval"
	"github.com/peglang/pego/sxtree"
	"github.com/peglang/pego/token/simple"
)

func newReplCommand() *cobra.Command {
	var grammarPath string
	var startRule string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Reparse and reanalyze a grammar file on every line of input typed against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if startRule == "" {
				startRule = cfg.StartRule
			}
			return runRepl(grammarPath, startRule)
		},
	}
	cmd.Flags().StringVar(&grammarPath, "grammar", "", "grammar file to reparse on every line (required)")
	cmd.Flags().StringVar(&startRule, "start", "", "start rule (default from config)")
	_ = cmd.MarkFlagRequired("grammar")
	return cmd
}

func runRepl(grammarPath, startRule string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "peg> ",
		HistoryFile: cfg.HistoryFile,
	})
	if err != nil {
		return fmt.Errorf("starting repl: %w", err)
	}
	defer rl.Close()

	pterm.Info.Printfln("reparsing %s on every line; quit with ^D", grammarPath)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		evalReplLine(grammarPath, startRule, line)
	}
}

func evalReplLine(grammarPath, startRule, line string) {
	gsrc, err := os.ReadFile(grammarPath)
	if err != nil {
		pterm.Error.Printfln("reading %s: %v", grammarPath, err)
		return
	}
	g, err := langdef.ParseBytes(grammarPath, gsrc)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	if _, has := g.Metadata["start"]; !has {
		g.Metadata["start"] = startRule
	}
	if errs := analyze.Run(g); len(errs) > 0 {
		for _, e := range errs {
			pterm.Error.Println(e.Error())
		}
		return
	}

	stream, err := simple.New("<repl>", []byte(line))
	if err != nil {
		pterm.Error.Printfln("tokenizing input: %v", err)
		return
	}

	ev, err := peval.New(g, stream, demoAction)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	ev = ev.WithMetrics(reg)

	value, err := ev.Parse(context.Background())
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}

	if root := sxtree.FromValue(value); root != nil {
		printTree(root, "")
	} else {
		pterm.Success.Println("matched (no value)")
	}
}
