package surql

import (
	"strings"

	"github.com/siteforge-io/surreal-codegen-sub000/internal/diag"
)

// lexer turns SurQL source text into a flat token stream. It has no
// notion of statement or clause structure — that belongs to the
// parser — mirroring the scanner/parser split of
// _examples/cue-lang-cue's cue/scanner and cue/parser packages.
type lexer struct {
	src []byte
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: []byte(src)}
}

func (l *lexer) lexAll() ([]token, error) {
	var toks []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) byteAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case c == '-' && l.byteAt(1) == '-':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.byteAt(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.byteAt(1) == '*':
			l.pos += 2
			for l.pos < len(l.src) && !(l.src[l.pos] == '*' && l.byteAt(1) == '/') {
				l.pos++
			}
			l.pos += 2
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// next lexes and returns the single token starting at the lexer's
// current position, advancing past it.
func (l *lexer) next() (token, error) {
	l.skipTrivia()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '$':
		l.pos++
		nameStart := l.pos
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokParam, text: string(l.src[nameStart:l.pos]), pos: start}, nil

	case c == '"' || c == '\'':
		return l.lexString(c)

	case isDigit(c):
		return l.lexNumberOrDuration()

	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		text := string(l.src[start:l.pos])
		// Datetime/UUID string prefixes: d"..." / u"..." with no
		// intervening space, matching SurrealQL's literal syntax.
		if (text == "d" || text == "u") && (l.peekByte() == '"' || l.peekByte() == '\'') {
			quote := l.peekByte()
			strTok, err := l.lexString(quote)
			if err != nil {
				return token{}, err
			}
			kind := tokDatetime
			if text == "u" {
				kind = tokString
			}
			return token{kind: kind, text: strTok.text, pos: start}, nil
		}
		return token{kind: tokIdent, text: text, pos: start}, nil

	case c == ':' && l.byteAt(1) == ':':
		l.pos += 2
		return token{kind: tokPunct, text: "::", pos: start}, nil

	default:
		return l.lexPunct()
	}
}

func (l *lexer) lexString(quote byte) (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, diag.Wrapf(diag.ErrParseError, "unterminated string literal", string(l.src[start:]))
		}
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			sb.WriteByte(unescape(l.src[l.pos+1]))
			l.pos += 2
			continue
		}
		sb.WriteByte(c)
		l.pos++
	}
	return token{kind: tokString, text: sb.String(), pos: start}, nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

var durationUnits = []string{"ns", "us", "µs", "ms", "s", "m", "h", "d", "w", "y"}

// lexNumberOrDuration consumes a number, then greedily consumes one or
// more unit-suffixed segments (e.g. "1h30m") with no intervening
// whitespace, producing a tokDuration; otherwise a plain tokNumber,
// optionally with a decimal point and/or exponent.
func (l *lexer) lexNumberOrDuration() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}

	if unit := l.matchDurationUnit(); unit != "" {
		l.pos += len(unit)
		for {
			segStart := l.pos
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
			if l.pos == segStart {
				break
			}
			u := l.matchDurationUnit()
			if u == "" {
				l.pos = segStart
				break
			}
			l.pos += len(u)
		}
		return token{kind: tokDuration, text: string(l.src[start:l.pos]), pos: start}, nil
	}

	if l.peekByte() == '.' && isDigit(l.byteAt(1)) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if (l.peekByte() == 'e' || l.peekByte() == 'E') && (isDigit(l.byteAt(1)) || ((l.byteAt(1) == '+' || l.byteAt(1) == '-') && isDigit(l.byteAt(2)))) {
		l.pos++
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.pos++
		}
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	return token{kind: tokNumber, text: string(l.src[start:l.pos]), pos: start}, nil
}

func (l *lexer) matchDurationUnit() string {
	rest := l.src[l.pos:]
	for _, u := range durationUnits {
		if len(rest) >= len(u) && string(rest[:len(u)]) == u {
			// Don't swallow the start of a longer identifier, e.g. the
			// "s" in a field named "1storder" (never valid anyway) or,
			// more plausibly, the "m" in a unit immediately followed
			// by further identifier characters that aren't digits.
			next := l.pos + len(u)
			if next < len(l.src) && isIdentPart(l.src[next]) && !isDigit(l.src[next]) {
				continue
			}
			return u
		}
	}
	return ""
}

var multiCharPunct = []string{"<=", ">=", "==", "!=", "&&", "||", "**", "->", "<-"}

func (l *lexer) lexPunct() (token, error) {
	start := l.pos
	for _, p := range multiCharPunct {
		if l.pos+len(p) <= len(l.src) && string(l.src[l.pos:l.pos+len(p)]) == p {
			l.pos += len(p)
			return token{kind: tokPunct, text: p, pos: start}, nil
		}
	}
	c := l.src[l.pos]
	switch c {
	case '(', ')', '[', ']', '{', '}', '.', ',', ';', ':', '*', '<', '>', '=', '!', '+', '-', '/', '%', '|', '&', '?':
		l.pos++
		return token{kind: tokPunct, text: string(c), pos: start}, nil
	default:
		return token{}, diag.Wrapf(diag.ErrParseError, "unexpected character", string(c))
	}
}
