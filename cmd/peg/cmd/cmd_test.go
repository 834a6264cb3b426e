package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peglang/pego/internal/config"
	"github.com/peglang/pego/internal/metrics"
	"github.com/peglang/pego/token"
)

func writeGrammar(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunCheckAcceptsValidGrammar(t *testing.T) {
	dir := t.TempDir()
	path := writeGrammar(t, dir, "g.peg", "start: NUMBER ENDMARKER\n")
	assert.NoError(t, runCheck(path))
}

func TestRunCheckReportsUndefinedRule(t *testing.T) {
	dir := t.TempDir()
	path := writeGrammar(t, dir, "g.peg", "start: missing ENDMARKER\n")
	assert.Error(t, runCheck(path))
}

func TestRunDescribePrintsEveryRule(t *testing.T) {
	dir := t.TempDir()
	src := "start: e ENDMARKER\ne: e \"+\" NUMBER | NUMBER\n"
	path := writeGrammar(t, dir, "g.peg", src)
	assert.NoError(t, runDescribe(path))
}

func TestRunRunParsesInputAgainstStartRule(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeGrammar(t, dir, "g.peg", "start: NAME ENDMARKER\n")
	inputPath := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(inputPath, []byte("x"), 0o644))

	cfg = &config.Config{StartRule: "start", Color: true}
	reg = metrics.New()

	assert.NoError(t, runRun(grammarPath, inputPath, "start"))
}

func TestEvalExprAddition(t *testing.T) {
	bindings := map[string]any{
		"a": token.Token{Text: "2"},
		"b": token.Token{Text: "3"},
	}
	v, err := evalExpr("$a + $b", bindings)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestEvalExprBareOperand(t *testing.T) {
	bindings := map[string]any{"n": token.Token{Text: "9"}}
	v, err := evalExpr("$n", bindings)
	require.NoError(t, err)
	assert.Equal(t, bindings["n"], v)
}

func TestEvalExprUnboundNameErrors(t *testing.T) {
	_, err := evalExpr("$missing", map[string]any{})
	assert.Error(t, err)
}
