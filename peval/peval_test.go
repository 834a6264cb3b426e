package peval

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peglang/pego/analyze"
	"github.com/peglang/pego/ast"
	"github.com/peglang/pego/langdef"
	"github.com/peglang/pego/token"
)

func mustGrammar(t *testing.T, src string) *ast.Grammar {
	t.Helper()
	g, e := langdef.ParseString("test", src)
	require.NoError(t, e)
	require.Empty(t, analyze.Run(g))
	return g
}

func mustParse(t *testing.T, src string, toks *testStream) any {
	t.Helper()
	g := mustGrammar(t, src)
	ev, e := New(g, toks, nil)
	require.NoError(t, e)
	v, e := ev.Parse(context.Background())
	require.NoError(t, e)
	return v
}

// Scenario 1: start: NUMBER ENDMARKER on "42" matches, value is the number.
func TestScenarioPlainToken(t *testing.T) {
	v := mustParse(t, `start: NUMBER ENDMARKER`, newTestStream(num("42"), end()))
	assert.Equal(t, []string{"42"}, leaves(v))
}

// Scenario 2: direct left recursion, left-associative "+".
func TestScenarioDirectLeftRecursion(t *testing.T) {
	src := "start: e ENDMARKER\ne: e \"+\" NUMBER | NUMBER"
	toks := newTestStream(num("1"), op("+"), num("2"), op("+"), num("3"), end())
	v := mustParse(t, src, toks)
	assert.Equal(t, []string{"1", "+", "2", "+", "3"}, leaves(v))

	g := mustGrammar(t, src)
	e, _ := g.Rules.Get("e")
	assert.True(t, e.LeftRecursive)
	assert.True(t, e.Leader)
}

// Scenario 3: indirect left recursion through two mutually-calling rules.
func TestScenarioIndirectLeftRecursion(t *testing.T) {
	src := "start: a ENDMARKER\na: b \"x\" | NUMBER\nb: a \"y\""
	toks := newTestStream(num("1"), name("y"), name("x"), end())
	v := mustParse(t, src, toks)
	assert.Equal(t, []string{"1", "y", "x"}, leaves(v))
}

// Scenario 4 / property 7: a cut after a failing alternative forbids the
// alternation from trying its remaining siblings.
func TestScenarioCutForbidsFallback(t *testing.T) {
	src := `start: '(' ~ NAME ')' | NAME`
	toks := newTestStream(op("("), num("42"), op(")"))
	g := mustGrammar(t, src)
	ev, e := New(g, toks, nil)
	require.NoError(t, e)
	_, e = ev.Parse(context.Background())
	assert.Error(t, e)
	_, isSyntaxErr := e.(*SyntaxError)
	assert.True(t, isSyntaxErr)
}

func TestCutCorrectnessObservableDifference(t *testing.T) {
	toks := func() *testStream { return newTestStream(name("a")) }

	withCut := mustGrammarEval(t, `start: "a" ~ "b" | "a"`, toks())
	_, err := withCut.Parse(context.Background())
	assert.Error(t, err, "cut after a failing alt must forbid falling back to the sibling")

	withoutCut := mustGrammarEval(t, `start: "a" "b" | "a"`, toks())
	v, err := withoutCut.Parse(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, leaves(v))
}

func mustGrammarEval(t *testing.T, src string, toks *testStream) *Evaluator {
	t.Helper()
	g := mustGrammar(t, src)
	ev, e := New(g, toks, nil)
	require.NoError(t, e)
	return ev
}

// Scenario 5: a separated repetition collects values, discarding separators.
func TestScenarioSeparatedRepetition(t *testing.T) {
	src := `start: ','.NUMBER+ ENDMARKER`
	toks := newTestStream(num("1"), op(","), num("2"), op(","), num("3"), end())
	v := mustParse(t, src, toks)
	assert.Equal(t, []string{"1", "2", "3"}, leaves(v))
}

// Scenario 6: greedy, non-backtracking repetition means an optional that
// can match always does, even when that starves a later mandatory item
// of the token it needed. The sequence matches only when there are
// tokens for both; with a single "a" available the optional consumes it
// and the mandatory item is left with nothing, per §4.3's explicit
// "never backtracking into shorter matches" rule for repetition.
func TestScenarioOptionalThenMandatory(t *testing.T) {
	src := `start: "a"? "a" ENDMARKER`

	g := mustGrammar(t, src)
	ev, e := New(g, newTestStream(name("a"), end()), nil)
	require.NoError(t, e)
	_, e = ev.Parse(context.Background())
	assert.Error(t, e)

	v := mustParse(t, src, newTestStream(name("a"), name("a"), end()))
	assert.Equal(t, []string{"a", "a"}, leaves(v))
}

// Property 2: a failing item restores pos: after the first alternative
// fails partway through, the second one starts over at 0 and isn't
// corrupted by the failed attempt's partial consumption.
func TestPositionRestorationAcrossFailedAlternative(t *testing.T) {
	src := `start: NUMBER NAME | NUMBER`
	g := mustGrammar(t, src)
	toks := newTestStream(num("1"))
	ev, e := New(g, toks, nil)
	require.NoError(t, e)
	v, e := ev.Parse(context.Background())
	require.NoError(t, e)
	assert.Equal(t, []string{"1"}, leaves(v))
}

// Property 3: a successful lookahead never advances pos.
func TestLookaheadNonConsumption(t *testing.T) {
	src := `start: &NUMBER NUMBER ENDMARKER`
	v := mustParse(t, src, newTestStream(num("7"), end()))
	assert.Equal(t, []string{"7"}, leaves(v))
}

func TestNegativeLookaheadNonConsumption(t *testing.T) {
	src := `start: !NAME NUMBER ENDMARKER`
	v := mustParse(t, src, newTestStream(num("7"), end()))
	assert.Equal(t, []string{"7"}, leaves(v))
}

// Property 4: memo consistency — a memoized rule invoked at two
// consecutive positions yields each position's own result.
func TestMemoConsistencyForMultiplyReferencedRule(t *testing.T) {
	src := "start: a a ENDMARKER\na: NUMBER"
	v := mustParse(t, src, newTestStream(num("1"), num("1"), end()))
	assert.Equal(t, []string{"1", "1"}, leaves(v))
}

func TestSyntaxErrorOnUnconsumedInput(t *testing.T) {
	src := `start: NUMBER ENDMARKER`
	g := mustGrammar(t, src)
	toks := newTestStream(num("1"), num("2"), end())
	ev, e := New(g, toks, nil)
	require.NoError(t, e)
	_, e = ev.Parse(context.Background())
	require.Error(t, e)
	se, ok := e.(*SyntaxError)
	require.True(t, ok)
	assert.GreaterOrEqual(t, se.Pos, 1)
}

func TestActionEvalInvokedWhenActionPresent(t *testing.T) {
	src := `start: n=NUMBER ENDMARKER { n }`
	g := mustGrammar(t, src)
	toks := newTestStream(num("9"), end())

	var gotRule, gotAction string
	var gotAlt int
	var gotBindings map[string]any

	ev, e := New(g, toks, func(rule string, alt int, action string, bindings map[string]any, span token.Span) (any, error) {
		gotRule, gotAlt, gotAction, gotBindings = rule, alt, action, bindings
		return bindings["n"], nil
	})
	require.NoError(t, e)

	v, e := ev.Parse(context.Background())
	require.NoError(t, e)
	assert.Equal(t, "start", gotRule)
	assert.Equal(t, 0, gotAlt)
	assert.Equal(t, "n", strings.TrimSpace(gotAction))
	assert.Equal(t, num("9"), gotBindings["n"])
	assert.Equal(t, num("9"), v)
}
