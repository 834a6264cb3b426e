package analyze

import (
	err "github.com/peglang/pego/errors"
)

// Error codes returned by Run. These are grammar-time errors: Run keeps
// going after finding one so callers see every problem in a grammar at
// once instead of fixing them one at a time.
const (
	UndefinedRuleError = err.AnalyzeErrors + iota
	NoStartRuleError
)

func undefinedRuleError(name string) *err.Error {
	return err.Format(UndefinedRuleError, "undefined rule %q", name)
}

func noStartRuleError() *err.Error {
	return err.Format(NoStartRuleError, "grammar has no start rule (no \"start\" metadata and no rule named \"start\")")
}
