// Command peg is a PEG grammar checker, analyzer, and reference
// interpreter built on top of the pego packages (langdef, analyze,
// peval, ast, token). It does not generate parser code; peval runs the
// analyzed grammar directly.
package main

import (
	"github.com/peglang/pego/cmd/peg/cmd"
)

func main() {
	cmd.Execute()
}
