package llm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rfielding/progsynth/pkg/strdsl"
)

// ExtractExpr scans response for the first line that begins (after trimming
// whitespace and code fences) with a recognized DSL constructor name and
// parses it into a strdsl.Expr. This replaces the unsafe
// eval-based extraction of the source this synthesizer was distilled from
// with an explicit recursive-descent parser over the fixed grammar handed to
// the model in the prompt.
func ExtractExpr(response string) (strdsl.Expr, error) {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "```")
		line = strings.TrimSuffix(line, "```")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !startsWithConstructor(line) {
			continue
		}
		p := &parser{input: line}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, fmt.Errorf("llm: parsing %q: %w", line, err)
		}
		p.skipSpace()
		if p.pos != len(p.input) {
			return nil, fmt.Errorf("llm: trailing input after expression: %q", p.input[p.pos:])
		}
		return expr, nil
	}
	return nil, fmt.Errorf("llm: no recognized expression found in response")
}

var constructors = []string{
	"InputString", "StringLiteral", "Concatenate", "Substring", "ToUpper",
	"ToLower", "Capitalize", "Strip", "Replace", "Repeat", "SplitThenTake",
}

func startsWithConstructor(line string) bool {
	for _, c := range constructors {
		if strings.HasPrefix(line, c) {
			return true
		}
	}
	return false
}

// parser is a minimal recursive-descent parser over the fixed grammar
// described in systemPrompt. It never evaluates arbitrary code: every
// accepted token is one of the named constructors, a quoted literal, or an
// integer.
type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peekIdent() string {
	p.skipSpace()
	start := p.pos
	i := p.pos
	for i < len(p.input) && isIdentRune(p.input[i]) {
		i++
	}
	return p.input[start:i]
}

func isIdentRune(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (p *parser) expect(b byte) error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != b {
		return fmt.Errorf("expected %q at position %d", b, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) parseExpr() (strdsl.Expr, error) {
	name := p.peekIdent()
	switch name {
	case "InputString":
		p.pos += len(name)
		return strdsl.InputString{}, nil
	case "StringLiteral":
		p.pos += len(name)
		v, err := p.parseParenStringLiteral()
		if err != nil {
			return nil, err
		}
		return strdsl.StringLiteral{Value: v}, nil
	case "Concatenate":
		args, err := p.parseArgs(name, 2)
		if err != nil {
			return nil, err
		}
		return strdsl.Concatenate{A: args[0], B: args[1]}, nil
	case "Substring":
		return p.parseSubstring(name)
	case "ToUpper":
		a, err := p.parseUnary(name)
		if err != nil {
			return nil, err
		}
		return strdsl.ToUpper{A: a}, nil
	case "ToLower":
		a, err := p.parseUnary(name)
		if err != nil {
			return nil, err
		}
		return strdsl.ToLower{A: a}, nil
	case "Capitalize":
		a, err := p.parseUnary(name)
		if err != nil {
			return nil, err
		}
		return strdsl.Capitalize{A: a}, nil
	case "Strip":
		a, err := p.parseUnary(name)
		if err != nil {
			return nil, err
		}
		return strdsl.Strip{A: a}, nil
	case "Replace":
		args, err := p.parseArgs(name, 3)
		if err != nil {
			return nil, err
		}
		return strdsl.Replace{A: args[0], Old: args[1], New: args[2]}, nil
	case "Repeat":
		return p.parseRepeat(name)
	case "SplitThenTake":
		return p.parseSplitThenTake(name)
	default:
		return nil, fmt.Errorf("unrecognized constructor %q", name)
	}
}

func (p *parser) parseUnary(name string) (strdsl.Expr, error) {
	args, err := p.parseArgs(name, 1)
	if err != nil {
		return nil, err
	}
	return args[0], nil
}

// parseArgs parses "Name(" expr ("," expr)* ")" expecting exactly n
// sub-expressions.
func (p *parser) parseArgs(name string, n int) ([]strdsl.Expr, error) {
	p.pos += len(name)
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var args []strdsl.Expr
	for i := 0; i < n; i++ {
		if i > 0 {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseSubstring(name string) (strdsl.Expr, error) {
	p.pos += len(name)
	if err := p.expect('('); err != nil {
		return nil, err
	}
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	start, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	end, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return strdsl.Substring{A: a, Start: start, End: end}, nil
}

func (p *parser) parseRepeat(name string) (strdsl.Expr, error) {
	p.pos += len(name)
	if err := p.expect('('); err != nil {
		return nil, err
	}
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	n, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	rep, err := strdsl.NewRepeat(a, n)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	return rep, nil
}

func (p *parser) parseSplitThenTake(name string) (strdsl.Expr, error) {
	p.pos += len(name)
	if err := p.expect('('); err != nil {
		return nil, err
	}
	a, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	delim, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	idx, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return strdsl.SplitThenTake{A: a, Delim: delim, Index: idx}, nil
}

func (p *parser) parseParenStringLiteral() (string, error) {
	if err := p.expect('('); err != nil {
		return "", err
	}
	v, err := p.parseQuoted()
	if err != nil {
		return "", err
	}
	if err := p.expect(')'); err != nil {
		return "", err
	}
	return v, nil
}

func (p *parser) parseQuoted() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '"' {
		return "", fmt.Errorf("expected quoted string at position %d", p.pos)
	}
	p.pos++
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			b.WriteByte(p.input[p.pos])
			p.pos++
			continue
		}
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("unterminated quoted string")
}

func (p *parser) parseInt() (int, error) {
	p.skipSpace()
	start := p.pos
	if p.pos < len(p.input) && p.input[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("expected integer at position %d", p.pos)
	}
	n, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return 0, fmt.Errorf("parsing integer: %w", err)
	}
	return n, nil
}
