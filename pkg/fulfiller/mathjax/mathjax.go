// Package mathjax turns arithmetic fragments on the cursor line into math
// cards with their evaluated result. It is pure and runs inline on submit.
package mathjax

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"parallax/pkg/card"
	"parallax/pkg/fulfiller"
)

var exprPattern = regexp.MustCompile(`[0-9][0-9+\-*/(). ]*[0-9)]`)

type MathJax struct{}

func New() *MathJax { return &MathJax{} }

func (m *MathJax) Name() string                       { return "mathjax" }
func (m *MathJax) Synchronous() bool                  { return true }
func (m *MathJax) Available(ctx context.Context) bool { return true }

func (m *MathJax) Fulfill(ctx context.Context, req fulfiller.Request) ([]card.Card, error) {
	line := fulfiller.CursorLine(req)
	if line == "" {
		return nil, nil
	}

	var cards []card.Card
	for _, raw := range exprPattern.FindAllString(line, -1) {
		expr := strings.TrimSpace(raw)
		if !strings.ContainsAny(expr, "+-*/") {
			continue
		}
		val, err := Eval(expr)
		if err != nil {
			continue
		}
		cards = append(cards, card.Card{
			Header:   "Math",
			Text:     fmt.Sprintf("%s = %s", expr, formatNumber(val)),
			Kind:     card.KindMath,
			Metadata: map[string]any{"source": "mathjax", "expression": expr},
		})
		if len(cards) == 2 {
			break
		}
	}
	return cards, nil
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// Eval evaluates an infix arithmetic expression with +, -, *, / and
// parentheses using recursive descent.
func Eval(expr string) (float64, error) {
	p := &parser{input: strings.ReplaceAll(expr, " ", "")}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected character at %d", p.pos)
	}
	return v, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseFactor() (float64, error) {
	if p.peek() == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}

	start := p.pos
	for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at %d", start)
	}
	return strconv.ParseFloat(p.input[start:p.pos], 64)
}
