// Package expr evaluates the restricted arithmetic accepted in amount
// fields: numeric literals and the operators + - * / ( ). Input is checked
// against that character set before anything is evaluated, and evaluation
// is a small recursive-descent parser. Nothing here ever delegates to a
// general-purpose evaluator.
package expr

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseError reports input rejected by the character check or by
// evaluation, carrying the offending text.
type ParseError struct {
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse amount %q: %s", e.Input, e.Msg)
}

// Parse evaluates an amount expression. A decimal comma is normalized to
// a decimal point first ("10,5" reads as 10.5). Callers are responsible
// for rejecting negative results.
func Parse(text string) (decimal.Decimal, error) {
	src := strings.ReplaceAll(text, ",", ".")

	// Hard boundary: reject anything outside the allowed character set
	// before touching the expression.
	for _, r := range src {
		if unicode.IsDigit(r) || unicode.IsSpace(r) || r == '.' || strings.ContainsRune("+-*/()", r) {
			continue
		}
		return decimal.Zero, &ParseError{Input: text, Msg: fmt.Sprintf("disallowed character %q", r)}
	}

	p := &parser{src: []rune(src), input: text}
	p.skipSpace()
	if p.eof() {
		return decimal.Zero, &ParseError{Input: text, Msg: "empty expression"}
	}

	v, err := p.expression()
	if err != nil {
		return decimal.Zero, err
	}
	p.skipSpace()
	if !p.eof() {
		return decimal.Zero, p.errorf("unexpected %q", p.peek())
	}
	return v, nil
}

type parser struct {
	src   []rune
	pos   int
	input string
}

// expression := term { ("+" | "-") term }
func (p *parser) expression() (decimal.Decimal, error) {
	v, err := p.term()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return decimal.Zero, err
			}
			v = v.Add(rhs)
		case '-':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return decimal.Zero, err
			}
			v = v.Sub(rhs)
		default:
			return v, nil
		}
	}
}

// term := factor { ("*" | "/") factor }
func (p *parser) term() (decimal.Decimal, error) {
	v, err := p.factor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.factor()
			if err != nil {
				return decimal.Zero, err
			}
			v = v.Mul(rhs)
		case '/':
			p.pos++
			rhs, err := p.factor()
			if err != nil {
				return decimal.Zero, err
			}
			if rhs.IsZero() {
				return decimal.Zero, p.errorf("division by zero")
			}
			v = v.Div(rhs)
		default:
			return v, nil
		}
	}
}

// factor := ("+" | "-") factor | "(" expression ")" | number
func (p *parser) factor() (decimal.Decimal, error) {
	p.skipSpace()
	switch p.peek() {
	case '+':
		p.pos++
		return p.factor()
	case '-':
		p.pos++
		v, err := p.factor()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	case '(':
		p.pos++
		v, err := p.expression()
		if err != nil {
			return decimal.Zero, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return decimal.Zero, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	default:
		return p.number()
	}
}

func (p *parser) number() (decimal.Decimal, error) {
	p.skipSpace()
	start := p.pos
	for !p.eof() && (unicode.IsDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		if p.eof() {
			return decimal.Zero, p.errorf("unexpected end of expression")
		}
		return decimal.Zero, p.errorf("unexpected %q", p.peek())
	}
	v, err := decimal.NewFromString(string(p.src[start:p.pos]))
	if err != nil {
		return decimal.Zero, p.errorf("invalid number %q", string(p.src[start:p.pos]))
	}
	return v, nil
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

// peek returns the current rune or 0 at end of input.
func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Input: p.input, Msg: fmt.Sprintf(format, args...)}
}
