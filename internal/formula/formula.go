// Package formula evaluates author-written accumulation rate formulas.
//
// A formula is an arithmetic expression over two bindings, a (base infliction
// rate) and b (target state rate). Only numbers, the two bindings, the
// operators + - * / % ^ (** is accepted as ^), parentheses and a small set of
// math functions are allowed. The expression is checked token by token when it
// is compiled and then run inside a Lua state that has nothing but the math
// library loaded.
package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"text/scanner"

	"github.com/Shopify/go-lua"

	dnderr "github.com/KirkDiggler/state-accumulation/internal/errors"
)

const entryPoint = "rate"

var allowedFunctions = map[string]bool{
	"abs":   true,
	"ceil":  true,
	"floor": true,
	"max":   true,
	"min":   true,
	"sqrt":  true,
}

var allowedOperators = map[rune]bool{
	'+': true, '-': true, '*': true, '/': true, '%': true, '^': true,
	'(': true, ')': true, ',': true,
}

// Formula is a compiled expression. Safe for concurrent use.
type Formula struct {
	source string

	mu    sync.Mutex
	state *lua.State
}

// Compile validates and compiles an expression
func Compile(source string) (*Formula, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, dnderr.InvalidArgument("formula is empty")
	}

	expr, err := translate(source)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument,
			fmt.Sprintf("invalid formula %q", source))
	}

	l := lua.NewState()
	lua.Require(l, "math", lua.MathOpen, true)
	l.Pop(1)

	chunk := fmt.Sprintf("return function(a, b) return (%s) end", expr)
	if err := lua.LoadString(l, chunk); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument,
			fmt.Sprintf("invalid formula %q", source))
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument,
			fmt.Sprintf("invalid formula %q", source))
	}
	l.SetGlobal(entryPoint)

	return &Formula{source: source, state: l}, nil
}

// Source returns the expression as written by the author
func (f *Formula) Source() string {
	return f.source
}

// Evaluate runs the formula with a and b bound. Failures and non-numeric
// results come back as CodeFormula errors.
func (f *Formula) Evaluate(a, b float64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	l := f.state
	top := l.Top()
	defer l.SetTop(top)

	l.Global(entryPoint)
	l.PushNumber(a)
	l.PushNumber(b)
	if err := l.ProtectedCall(2, 1, 0); err != nil {
		return 0, dnderr.Formulaf("formula %q failed: %v", f.source, err).
			WithMeta("a", a).
			WithMeta("b", b)
	}

	if l.TypeOf(-1) != lua.TypeNumber {
		return 0, dnderr.Formulaf("formula %q did not return a number", f.source).
			WithMeta("a", a).
			WithMeta("b", b)
	}

	v, _ := l.ToNumber(-1)
	if math.IsNaN(v) {
		return 0, dnderr.Formulaf("formula %q returned NaN", f.source).
			WithMeta("a", a).
			WithMeta("b", b)
	}
	return v, nil
}

// translate checks every token and rebuilds the expression as Lua source
func translate(source string) (string, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(source))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats

	var scanErr error
	s.Error = func(_ *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("%s", msg)
		}
	}

	type token struct {
		kind rune
		text string
	}
	var tokens []token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		tokens = append(tokens, token{kind: tok, text: s.TokenText()})
	}
	if scanErr != nil {
		return "", scanErr
	}

	var out []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.kind {
		case scanner.Int, scanner.Float:
			v, err := strconv.ParseFloat(tok.text, 64)
			if err != nil {
				return "", fmt.Errorf("bad number %q", tok.text)
			}
			out = append(out, strconv.FormatFloat(v, 'g', -1, 64))

		case scanner.Ident:
			switch tok.text {
			case "a", "b":
				out = append(out, tok.text)
			case "math", "Math":
				if i+3 >= len(tokens) || tokens[i+1].kind != '.' || tokens[i+2].kind != scanner.Ident || tokens[i+3].kind != '(' {
					return "", fmt.Errorf("%s must be followed by a function call", tok.text)
				}
				name := tokens[i+2].text
				if !allowedFunctions[name] {
					return "", fmt.Errorf("function %s.%s is not allowed", tok.text, name)
				}
				out = append(out, "math."+name)
				i += 2
			default:
				return "", fmt.Errorf("unknown name %q", tok.text)
			}

		default:
			if tok.kind == '*' && i+1 < len(tokens) && tokens[i+1].kind == '*' {
				out = append(out, "^")
				i++
				continue
			}
			if !allowedOperators[tok.kind] {
				return "", fmt.Errorf("character %q is not allowed", tok.text)
			}
			out = append(out, tok.text)
		}
	}

	if len(out) == 0 {
		return "", fmt.Errorf("formula has no terms")
	}
	return strings.Join(out, " "), nil
}
