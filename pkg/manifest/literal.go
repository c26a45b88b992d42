package manifest

import (
	"math"
	"strconv"
	"strings"
)

// ParseLiteral decodes src as a single Python literal: dicts, lists, tuples,
// sets, strings, numbers, True, False and None. Names, calls and any other
// construct that needs evaluation are rejected. With allowExpressions, binary
// '+' between literals is evaluated as well.
//
// Dicts decode to map[string]interface{}, sequences to []interface{},
// integers to int64 and floats to float64.
func ParseLiteral(src []byte, allowExpressions bool) (interface{}, error) {
	p := &parser{lex: newLexer(src), allowExpressions: allowExpressions}
	if err := p.advance(); err != nil {
		return nil, err
	}

	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected()
	}
	return value, nil
}

type parser struct {
	lex              *lexer
	tok              token
	allowExpressions bool
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return p.lex.errorf(tok.line, tok.col, format, args...)
}

func (p *parser) unexpected() error {
	if p.tok.kind == tokName {
		return p.errorf(p.tok, "name %q is not a literal", p.tok.text)
	}
	return p.errorf(p.tok, "unexpected %s", p.tok.kind)
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return p.errorf(p.tok, "expected %s, found %s", kind, p.tok.kind)
	}
	return p.advance()
}

// expr := unary ('+' unary)*
func (p *parser) expr() (interface{}, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}

	for p.tok.kind == tokPlus {
		op := p.tok
		if !p.allowExpressions {
			return nil, p.errorf(op, "expressions are not allowed in manifests")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left, err = add(left, right)
		if err != nil {
			return nil, p.errorf(op, "%v", err)
		}
	}
	return left, nil
}

// unary := ('-' | '+') unary | atom
func (p *parser) unary() (interface{}, error) {
	if p.tok.kind != tokMinus && p.tok.kind != tokPlus {
		return p.atom()
	}

	op := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.unary()
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case int64:
		if op.kind == tokMinus {
			return -v, nil
		}
		return v, nil
	case float64:
		if op.kind == tokMinus {
			return -v, nil
		}
		return v, nil
	}
	return nil, p.errorf(op, "unary %s applies to numbers only", op.kind)
}

func (p *parser) atom() (interface{}, error) {
	tok := p.tok
	switch tok.kind {
	case tokString:
		// adjacent literals are concatenated
		var sb strings.Builder
		for p.tok.kind == tokString {
			sb.WriteString(p.tok.text)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		return sb.String(), nil

	case tokNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return parseNumber(tok, p)

	case tokName:
		var value interface{}
		switch tok.text {
		case "True":
			value = true
		case "False":
			value = false
		case "None":
			value = nil
		default:
			return nil, p.unexpected()
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokLParen || p.tok.kind == tokLBracket {
			return nil, p.errorf(p.tok, "calls and subscripts are not allowed")
		}
		return value, nil

	case tokLBrace:
		return p.dictOrSet()
	case tokLBracket:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.sequence(tokRBracket)
	case tokLParen:
		return p.tupleOrGroup()
	}
	return nil, p.unexpected()
}

// sequence parses comma separated items up to the closing token, which has
// not been consumed yet.
func (p *parser) sequence(closing tokenKind) ([]interface{}, error) {
	items := []interface{}{}
	for p.tok.kind != closing {
		item, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.tok.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expect(closing); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *parser) tupleOrGroup() (interface{}, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokRParen {
		return []interface{}{}, p.advance()
	}

	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokRParen {
		// parenthesized expression, not a tuple
		return first, p.advance()
	}
	if err := p.expect(tokComma); err != nil {
		return nil, err
	}
	rest, err := p.sequence(tokRParen)
	if err != nil {
		return nil, err
	}
	return append([]interface{}{first}, rest...), nil
}

func (p *parser) dictOrSet() (interface{}, error) {
	open := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokRBrace {
		return map[string]interface{}{}, p.advance()
	}

	keyTok := p.tok
	first, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.tok.kind != tokColon {
		// set literal, decoded as a sequence
		if p.tok.kind == tokRBrace {
			return []interface{}{first}, p.advance()
		}
		if err := p.expect(tokComma); err != nil {
			return nil, err
		}
		rest, err := p.sequence(tokRBrace)
		if err != nil {
			return nil, err
		}
		return append([]interface{}{first}, rest...), nil
	}

	result := map[string]interface{}{}
	for {
		key, err := mapKey(first)
		if err != nil {
			return nil, p.errorf(keyTok, "%v", err)
		}
		if err := p.expect(tokColon); err != nil {
			return nil, err
		}
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		// later duplicates win
		result[key] = value

		if p.tok.kind == tokRBrace {
			break
		}
		if p.tok.kind != tokComma {
			return nil, p.errorf(p.tok, "expected ',' or '}' in dict opened at line %d", open.line)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRBrace {
			break
		}

		keyTok = p.tok
		if first, err = p.expr(); err != nil {
			return nil, err
		}
	}
	return result, p.advance()
}

func mapKey(v interface{}) (string, error) {
	switch k := v.(type) {
	case string:
		return k, nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64), nil
	case bool:
		if k {
			return "True", nil
		}
		return "False", nil
	case nil:
		return "None", nil
	}
	return "", errUnhashable
}

func parseNumber(tok token, p *parser) (interface{}, error) {
	text := strings.ReplaceAll(tok.text, "_", "")
	lower := strings.ToLower(text)

	if strings.HasSuffix(lower, "j") {
		return nil, p.errorf(tok, "complex numbers are not supported")
	}
	// Python 2 long suffix
	if strings.HasSuffix(lower, "l") {
		text = text[:len(text)-1]
		lower = lower[:len(lower)-1]
	}

	isHex := strings.HasPrefix(lower, "0x")
	if !isHex && strings.ContainsAny(lower, ".e") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(f, 0) {
			return nil, p.errorf(tok, "invalid number %q", tok.text)
		}
		return f, nil
	}

	i, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return nil, p.errorf(tok, "invalid integer %q", tok.text)
	}
	return i, nil
}
