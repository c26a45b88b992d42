package manifest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokColon
	tokComma
	tokPlus
	tokMinus
	tokString
	tokNumber
	tokName
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokName:
		return "name"
	}
	return "unknown token"
}

var punctuation = map[rune]tokenKind{
	'{': tokLBrace, '}': tokRBrace,
	'[': tokLBracket, ']': tokRBracket,
	'(': tokLParen, ')': tokRParen,
	':': tokColon, ',': tokComma,
	'+': tokPlus, '-': tokMinus,
}

type token struct {
	kind tokenKind
	text string // decoded value for strings, raw text otherwise
	line int
	col  int
}

// SyntaxError reports where a manifest stopped being valid literal syntax
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src []byte) *lexer {
	s := string(src)
	s = strings.TrimPrefix(s, "\ufeff")
	return &lexer{src: s, line: 1, col: 1}
}

func (l *lexer) errorf(line, col int, format string, args ...interface{}) error {
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) peekRune(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos+offset:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		r := l.peekRune(0)
		switch {
		case r == '#':
			for l.pos < len(l.src) && l.peekRune(0) != '\n' {
				l.advance()
			}
		case r == '\\':
			line, col := l.line, l.col
			l.advance()
			if l.peekRune(0) == '\r' {
				l.advance()
			}
			if l.peekRune(0) != '\n' {
				return l.errorf(line, col, "unexpected character after line continuation")
			}
			l.advance()
		case unicode.IsSpace(r):
			l.advance()
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: line, col: col}, nil
	}

	r := l.peekRune(0)
	if kind, ok := punctuation[r]; ok {
		l.advance()
		return token{kind: kind, text: string(r), line: line, col: col}, nil
	}

	switch {
	case r == '\'' || r == '"':
		return l.str(line, col, "")
	case unicode.IsDigit(r) || (r == '.' && unicode.IsDigit(l.peekRune(1))):
		return l.number(line, col)
	case r == '_' || unicode.IsLetter(r):
		return l.name(line, col)
	}
	return token{}, l.errorf(line, col, "unexpected character %q", r)
}

func (l *lexer) name(line, col int) (token, error) {
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peekRune(0)
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.advance()
	}
	word := l.src[start:l.pos]

	if q := l.peekRune(0); (q == '\'' || q == '"') && isStringPrefix(word) {
		return l.str(line, col, strings.ToLower(word))
	}
	return token{kind: tokName, text: word, line: line, col: col}, nil
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "br", "rb", "f", "fr", "rf":
		return true
	}
	return false
}

func (l *lexer) number(line, col int) (token, error) {
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peekRune(0)
		switch {
		case unicode.IsDigit(r) || unicode.IsLetter(r) || r == '_' || r == '.':
			l.advance()
		case (r == '+' || r == '-') && l.pos > start &&
			strings.ContainsRune("eE", rune(l.src[l.pos-1])) && !isHexLiteral(l.src[start:l.pos]):
			l.advance()
		default:
			return token{kind: tokNumber, text: l.src[start:l.pos], line: line, col: col}, nil
		}
	}
	return token{kind: tokNumber, text: l.src[start:l.pos], line: line, col: col}, nil
}

func isHexLiteral(s string) bool {
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func (l *lexer) str(line, col int, prefix string) (token, error) {
	if strings.Contains(prefix, "f") {
		return token{}, l.errorf(line, col, "f-strings require evaluation and are not supported")
	}
	raw := strings.Contains(prefix, "r")
	isBytes := strings.Contains(prefix, "b")

	quote := l.advance()
	triple := false
	if l.peekRune(0) == quote && l.peekRune(1) == quote {
		l.advance()
		l.advance()
		triple = true
	} else if l.peekRune(0) == quote {
		// empty string
		l.advance()
		return token{kind: tokString, line: line, col: col}, nil
	}

	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, l.errorf(line, col, "unterminated string")
		}
		r := l.peekRune(0)

		if r == quote {
			if !triple {
				l.advance()
				break
			}
			if l.peekRune(1) == quote && l.peekRune(2) == quote {
				l.advance()
				l.advance()
				l.advance()
				break
			}
		}
		if r == '\r' && l.peekRune(1) == '\n' {
			// CRLF reads as LF
			l.advance()
			continue
		}
		if r == '\n' && !triple {
			return token{}, l.errorf(line, col, "unterminated string")
		}

		if r == '\\' {
			eline, ecol := l.line, l.col
			l.advance()
			if l.pos >= len(l.src) {
				return token{}, l.errorf(line, col, "unterminated string")
			}
			if l.peekRune(0) == '\r' && l.peekRune(1) == '\n' {
				l.advance()
			}
			if raw {
				sb.WriteRune('\\')
				sb.WriteRune(l.advance())
				continue
			}
			if err := l.escape(&sb, eline, ecol, isBytes); err != nil {
				return token{}, err
			}
			continue
		}

		sb.WriteRune(l.advance())
	}

	return token{kind: tokString, text: sb.String(), line: line, col: col}, nil
}

func (l *lexer) escape(sb *strings.Builder, line, col int, isBytes bool) error {
	r := l.advance()
	if isBytes && (r == 'N' || r == 'u' || r == 'U') {
		// not escapes in bytes literals
		sb.WriteRune('\\')
		sb.WriteRune(r)
		return nil
	}
	switch r {
	case '\n', '\r':
		// line continuation inside the string
	case '\\', '\'', '"':
		sb.WriteRune(r)
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		digits := string(r)
		for len(digits) < 3 && l.peekRune(0) >= '0' && l.peekRune(0) <= '7' {
			digits += string(l.advance())
		}
		v, _ := strconv.ParseUint(digits, 8, 32)
		sb.WriteRune(rune(v))
	case 'x':
		return l.hexEscape(sb, 2, line, col)
	case 'u':
		return l.hexEscape(sb, 4, line, col)
	case 'U':
		return l.hexEscape(sb, 8, line, col)
	case 'N':
		return l.nameEscape(sb, line, col)
	default:
		// unknown escapes are kept verbatim
		sb.WriteRune('\\')
		sb.WriteRune(r)
	}
	return nil
}

// nameEscape decodes \N{NAME}; names match case-insensitively.
func (l *lexer) nameEscape(sb *strings.Builder, line, col int) error {
	end := strings.IndexAny(l.src[l.pos:], "}\n")
	if l.peekRune(0) != '{' || end < 0 || l.src[l.pos+end] != '}' {
		return l.errorf(line, col, "malformed \\N character escape")
	}
	name := l.src[l.pos+1 : l.pos+end]
	r, ok := lookupRuneName(name)
	if !ok {
		return l.errorf(line, col, "unknown Unicode character name %q", name)
	}
	for stop := l.pos + end + 1; l.pos < stop; {
		l.advance()
	}
	sb.WriteRune(r)
	return nil
}

func (l *lexer) hexEscape(sb *strings.Builder, n, line, col int) error {
	if l.pos+n > len(l.src) {
		return l.errorf(line, col, "truncated escape sequence")
	}
	digits := l.src[l.pos : l.pos+n]
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || v > unicode.MaxRune {
		return l.errorf(line, col, "invalid escape sequence \\%s", digits)
	}
	for i := 0; i < n; i++ {
		l.advance()
	}
	sb.WriteRune(rune(v))
	return nil
}
