package langdef

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/peglang/pego/ast"
	"github.com/peglang/pego/lexer"
	"github.com/peglang/pego/source"
)

const (
	nameTokType = iota
	stringTokType
	opTokType
)

var tokenRe = regexp.MustCompile(
	`(?s:[ \t\r\n\f]+|#[^\n]*|([A-Za-z_][A-Za-z0-9_-]*)|('[^']*'|"[^"]*")|([@:|()\[\]&!~?*+.={}]))`,
)

var tokenTypes = []lexer.TokenType{
	{Type: nameTokType, TypeName: "name"},
	{Type: stringTokType, TypeName: "string"},
	{Type: opTokType, TypeName: "op"},
}

func newLexer() *lexer.Lexer {
	return lexer.New(tokenRe, tokenTypes)
}

// ParseString parses grammar description text and returns a grammar on
// success, or a grammar-time *errors.Error on failure.
func ParseString(name, content string) (*ast.Grammar, error) {
	return Parse(source.New(name, []byte(content)))
}

// ParseBytes parses grammar description bytes and returns a grammar on
// success, or a grammar-time *errors.Error on failure.
func ParseBytes(name string, content []byte) (*ast.Grammar, error) {
	return Parse(source.New(name, content))
}

// Parse parses a grammar description from s. It performs no analysis
// beyond the file format itself: reference resolution, nullability,
// and left-recursion detection are analyze.Run's job.
func Parse(s *source.Source) (*ast.Grammar, error) {
	q := source.NewQueue()
	q.Append(s)
	c := &parseContext{lex: newLexer(), q: q}
	return c.parseFile()
}

type parseContext struct {
	lex *lexer.Lexer
	q   *source.Queue
	buf []*lexer.Token
}

func (c *parseContext) fill(n int) error {
	for len(c.buf) <= n {
		t, e := c.lex.Next(c.q)
		if e != nil {
			return lexError(e)
		}
		if t.Type() == lexer.EofTokenType {
			continue
		}
		c.buf = append(c.buf, t)
	}
	return nil
}

func (c *parseContext) peek(n int) (*lexer.Token, error) {
	if e := c.fill(n); e != nil {
		return nil, e
	}
	return c.buf[n], nil
}

func (c *parseContext) cur() (*lexer.Token, error) {
	return c.peek(0)
}

func (c *parseContext) advance() error {
	if e := c.fill(0); e != nil {
		return e
	}
	c.buf = c.buf[1:]
	return nil
}

func atEnd(t *lexer.Token) bool {
	return t.Type() == lexer.EoiTokenType
}

func isOp(t *lexer.Token, text string) bool {
	return t.Type() == opTokType && t.Text() == text
}

func isName(t *lexer.Token) bool {
	return t.Type() == nameTokType
}

func isString(t *lexer.Token) bool {
	return t.Type() == stringTokType
}

func unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	return text[1 : len(text)-1]
}

// rawScanBalanced reads raw bytes directly from the queue, starting
// right after the opening delimiter (already consumed by the lexer as
// the current token), tracking nested delimiters and quoted strings,
// and stops once the matching close delimiter is found. It leaves the
// queue positioned right after that close delimiter.
func (c *parseContext) rawScanBalanced(openTok *lexer.Token, open, close byte) (string, error) {
	content, pos := c.q.ContentPos()
	depth := 1
	quote := byte(0)
	start := pos
	i := pos
	for i < len(content) {
		ch := content[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			i++
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				text := string(content[start:i])
				c.q.Skip(i - pos + 1)
				return text, nil
			}
		}
		i++
	}
	return "", unterminatedActionError(openTok)
}

func (c *parseContext) parseFile() (*ast.Grammar, error) {
	g := ast.NewGrammar()
	for {
		t, e := c.cur()
		if e != nil {
			return nil, e
		}
		if atEnd(t) {
			break
		}

		if isOp(t, "@") {
			if e := c.parseDirective(g); e != nil {
				return nil, e
			}
			continue
		}

		if isName(t) {
			rule, e := c.parseRule()
			if e != nil {
				return nil, e
			}
			if !g.Rules.Add(rule) {
				return nil, duplicateRuleNameError(t)
			}
			continue
		}

		return nil, unexpectedTokenError(t, "rule or @directive")
	}
	return g, nil
}

func (c *parseContext) parseDirective(g *ast.Grammar) error {
	at, _ := c.cur()
	if e := c.advance(); e != nil {
		return e
	}

	key, e := c.cur()
	if e != nil {
		return e
	}
	if !isName(key) {
		return malformedDirectiveError(at)
	}
	if e := c.advance(); e != nil {
		return e
	}

	val, e := c.cur()
	if e != nil {
		return e
	}
	if !isString(val) {
		return malformedDirectiveError(at)
	}
	if e := c.advance(); e != nil {
		return e
	}

	g.Metadata[key.Text()] = unquote(val.Text())
	return nil
}

func (c *parseContext) parseRule() (*ast.Rule, error) {
	nameTok, _ := c.cur()
	name := nameTok.Text()
	if e := c.advance(); e != nil {
		return nil, e
	}

	returnType := ""
	t, e := c.cur()
	if e != nil {
		return nil, e
	}
	if isOp(t, "[") {
		openTok := t
		text, e := c.rawScanBalanced(openTok, '[', ']')
		if e != nil {
			return nil, e
		}
		returnType = text
		if e := c.advance(); e != nil {
			return nil, e
		}
	}

	t, e = c.cur()
	if e != nil {
		return nil, e
	}
	if !isOp(t, ":") {
		return nil, unexpectedTokenError(t, "':'")
	}
	if e := c.advance(); e != nil {
		return nil, e
	}

	rhs, e := c.parseRhs()
	if e != nil {
		return nil, e
	}

	return &ast.Rule{Name: name, ReturnType: returnType, Rhs: rhs}, nil
}

func (c *parseContext) parseRhs() (*ast.Rhs, error) {
	t, e := c.cur()
	if e != nil {
		return nil, e
	}
	if isOp(t, "|") {
		if e := c.advance(); e != nil {
			return nil, e
		}
	}

	alts := make([]*ast.Alt, 0, 2)
	for {
		alt, e := c.parseAlt()
		if e != nil {
			return nil, e
		}
		alts = append(alts, alt)

		t, e := c.cur()
		if e != nil {
			return nil, e
		}
		if isOp(t, "|") {
			if e := c.advance(); e != nil {
				return nil, e
			}
			continue
		}
		break
	}

	return &ast.Rhs{Alts: alts}, nil
}

func startsItem(t *lexer.Token) bool {
	if isName(t) || isString(t) {
		return true
	}
	for _, op := range []string{"(", "[", "&", "!", "~"} {
		if isOp(t, op) {
			return true
		}
	}
	return false
}

// startsNewRule reports whether t begins the header of a new rule
// (NAME ':' or NAME '[' TYPE ']' ':') rather than continuing the
// current alternative with a plain NAME item. NAME ':' always starts a
// rule. Within an alternative a name atom may be followed by a bracketed
// optional group ("a [b]"), so NAME '[' starts a rule only when the name
// is the first thing on its line.
func (c *parseContext) startsNewRule() (bool, error) {
	t, e := c.cur()
	if e != nil {
		return false, e
	}
	if !isName(t) {
		return false, nil
	}
	t2, e := c.peek(1)
	if e != nil {
		return false, e
	}
	return isOp(t2, ":") || (isOp(t2, "[") && t.Col() == 1), nil
}

func (c *parseContext) parseAlt() (*ast.Alt, error) {
	items := make([]*ast.NamedItem, 0, 4)
	hasCut := false
	cutIndex := 0
	seen := make(map[string]bool, 4)

	for {
		t, e := c.cur()
		if e != nil {
			return nil, e
		}
		if !startsItem(t) {
			break
		}
		newRule, e := c.startsNewRule()
		if e != nil {
			return nil, e
		}
		if newRule {
			break
		}

		cutTok := t
		ni, bindTok, e := c.parseNamedItem()
		if e != nil {
			return nil, e
		}

		if ni.Bind != "" {
			if seen[ni.Bind] {
				return nil, duplicateBindingInAltError(bindTok)
			}
			seen[ni.Bind] = true
		}

		if _, isCut := ni.Item.(*ast.Cut); isCut {
			if len(items) == 0 {
				return nil, cutAtAlternativeStartError(cutTok)
			}
			if !hasCut {
				hasCut = true
				cutIndex = len(items)
			}
		}

		items = append(items, ni)
	}

	if len(items) == 0 {
		t, e := c.cur()
		if e != nil {
			return nil, e
		}
		return nil, unexpectedTokenError(t, "item")
	}

	action := ""
	t, e := c.cur()
	if e != nil {
		return nil, e
	}
	if isOp(t, "{") {
		openTok := t
		text, e := c.rawScanBalanced(openTok, '{', '}')
		if e != nil {
			return nil, e
		}
		action = text
		if e := c.advance(); e != nil {
			return nil, e
		}
	}

	return &ast.Alt{Items: items, Action: action, HasCut: hasCut, CutIndex: cutIndex}, nil
}

func (c *parseContext) parseNamedItem() (*ast.NamedItem, *lexer.Token, error) {
	bind := ""
	var bindTok *lexer.Token
	t, e := c.cur()
	if e != nil {
		return nil, nil, e
	}

	if isName(t) {
		t2, e := c.peek(1)
		if e != nil {
			return nil, nil, e
		}
		if isOp(t2, "=") {
			bind = t.Text()
			bindTok = t
			if e := c.advance(); e != nil {
				return nil, nil, e
			}
			if e := c.advance(); e != nil {
				return nil, nil, e
			}
		}
	}

	item, e := c.parseItemWithSuffix()
	if e != nil {
		return nil, nil, e
	}

	return &ast.NamedItem{Bind: bind, Item: item}, bindTok, nil
}

func (c *parseContext) parseItemWithSuffix() (ast.Item, error) {
	atom, e := c.parseAtom()
	if e != nil {
		return nil, e
	}

	t, e := c.cur()
	if e != nil {
		return nil, e
	}

	switch {
	case isOp(t, "?"):
		if e := c.advance(); e != nil {
			return nil, e
		}
		return &ast.Optional{Item: atom}, nil

	case isOp(t, "*"):
		if e := c.advance(); e != nil {
			return nil, e
		}
		return &ast.ZeroOrMore{Item: atom}, nil

	case isOp(t, "+"):
		if e := c.advance(); e != nil {
			return nil, e
		}
		return &ast.OneOrMore{Item: atom}, nil

	case isOp(t, "."):
		if e := c.advance(); e != nil {
			return nil, e
		}
		sep, e := c.parseAtom()
		if e != nil {
			return nil, e
		}
		t2, e := c.cur()
		if e != nil {
			return nil, e
		}
		if !isOp(t2, "+") {
			return nil, unexpectedTokenError(t2, "'+'")
		}
		if e := c.advance(); e != nil {
			return nil, e
		}
		return &ast.Separated{Item: sep, Sep: atom}, nil

	default:
		return atom, nil
	}
}

func isUpperName(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsUpper(r)
}

func (c *parseContext) parseAtom() (ast.Item, error) {
	t, e := c.cur()
	if e != nil {
		return nil, e
	}

	switch {
	case isName(t):
		if e := c.advance(); e != nil {
			return nil, e
		}
		if isUpperName(t.Text()) {
			return &ast.TokenRef{Name: t.Text()}, nil
		}
		return &ast.RuleRef{Name: t.Text()}, nil

	case isString(t):
		if e := c.advance(); e != nil {
			return nil, e
		}
		return &ast.StringLit{Value: unquote(t.Text())}, nil

	case isOp(t, "("):
		if e := c.advance(); e != nil {
			return nil, e
		}
		rhs, e := c.parseRhs()
		if e != nil {
			return nil, e
		}
		t2, e := c.cur()
		if e != nil {
			return nil, e
		}
		if !isOp(t2, ")") {
			return nil, unexpectedTokenError(t2, "')'")
		}
		if e := c.advance(); e != nil {
			return nil, e
		}
		return &ast.Group{Rhs: rhs}, nil

	case isOp(t, "["):
		if e := c.advance(); e != nil {
			return nil, e
		}
		rhs, e := c.parseRhs()
		if e != nil {
			return nil, e
		}
		t2, e := c.cur()
		if e != nil {
			return nil, e
		}
		if !isOp(t2, "]") {
			return nil, unexpectedTokenError(t2, "']'")
		}
		if e := c.advance(); e != nil {
			return nil, e
		}
		return &ast.Optional{Item: &ast.Group{Rhs: rhs}}, nil

	case isOp(t, "&"):
		if e := c.advance(); e != nil {
			return nil, e
		}
		inner, e := c.parseAtom()
		if e != nil {
			return nil, e
		}
		return &ast.PositiveLookahead{Item: inner}, nil

	case isOp(t, "!"):
		if e := c.advance(); e != nil {
			return nil, e
		}
		inner, e := c.parseAtom()
		if e != nil {
			return nil, e
		}
		return &ast.NegativeLookahead{Item: inner}, nil

	case isOp(t, "~"):
		if e := c.advance(); e != nil {
			return nil, e
		}
		return &ast.Cut{}, nil

	case atEnd(t):
		return nil, eofError(t)

	default:
		return nil, unexpectedTokenError(t, "item")
	}
}
