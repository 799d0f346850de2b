package behavior

import (
	"strconv"
	"unicode"
)

type scanner struct {
	src  []rune
	pos  int
	line int
	col  int
}

func newScanner(source string) *scanner {
	return &scanner{src: []rune(source), line: 1, col: 1}
}

// scan tokenizes the whole source up front so the parser can look ahead
// freely. The first malformed token aborts the scan.
func (s *scanner) scan() ([]token, error) {
	var tokens []token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokenEOF {
			return tokens, nil
		}
	}
}

func (s *scanner) next() (token, error) {
	s.skipBlanks()
	line, col := s.line, s.col
	if s.pos >= len(s.src) {
		return token{kind: tokenEOF, line: line, col: col}, nil
	}

	ch := s.src[s.pos]
	switch {
	case unicode.IsDigit(ch) || (ch == '.' && s.peekDigit()):
		return s.number(line, col)
	case unicode.IsLetter(ch) || ch == '_':
		return s.identifier(line, col), nil
	case ch == '"':
		return s.stringLiteral(line, col)
	}

	s.advance()
	simple := func(kind tokenKind, lexeme string) (token, error) {
		return token{kind: kind, lexeme: lexeme, line: line, col: col}, nil
	}
	switch ch {
	case '(':
		return simple(tokenLeftParen, "(")
	case ')':
		return simple(tokenRightParen, ")")
	case '{':
		return simple(tokenLeftBrace, "{")
	case '}':
		return simple(tokenRightBrace, "}")
	case ',':
		return simple(tokenComma, ",")
	case '.':
		return simple(tokenDot, ".")
	case ';':
		return simple(tokenSemicolon, ";")
	case '+':
		return simple(tokenPlus, "+")
	case '-':
		return simple(tokenMinus, "-")
	case '*':
		return simple(tokenStar, "*")
	case '/':
		return simple(tokenSlash, "/")
	case '%':
		return simple(tokenPercent, "%")
	case '=':
		if s.match('=') {
			return simple(tokenEqual, "==")
		}
		return simple(tokenAssign, "=")
	case '!':
		if s.match('=') {
			return simple(tokenNotEqual, "!=")
		}
		return simple(tokenBang, "!")
	case '<':
		if s.match('=') {
			return simple(tokenLessEqual, "<=")
		}
		return simple(tokenLess, "<")
	case '>':
		if s.match('=') {
			return simple(tokenGreaterEqual, ">=")
		}
		return simple(tokenGreater, ">")
	case '&':
		if s.match('&') {
			return simple(tokenAnd, "&&")
		}
	case '|':
		if s.match('|') {
			return simple(tokenOr, "||")
		}
	}
	return token{}, &CompileError{Line: line, Col: col, Msg: "unexpected character " + strconv.QuoteRune(ch)}
}

func (s *scanner) skipBlanks() {
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			s.advance()
		case ch == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *scanner) number(line, col int) (token, error) {
	start := s.pos
	for s.pos < len(s.src) && (unicode.IsDigit(s.src[s.pos]) || s.src[s.pos] == '.') {
		s.advance()
	}
	lexeme := string(s.src[start:s.pos])
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token{}, &CompileError{Line: line, Col: col, Msg: "malformed number " + strconv.Quote(lexeme)}
	}
	return token{kind: tokenNumber, lexeme: lexeme, number: value, line: line, col: col}, nil
}

func (s *scanner) identifier(line, col int) token {
	start := s.pos
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			break
		}
		s.advance()
	}
	lexeme := string(s.src[start:s.pos])
	if kind, ok := keywords[lexeme]; ok {
		return token{kind: kind, lexeme: lexeme, line: line, col: col}
	}
	return token{kind: tokenIdent, lexeme: lexeme, line: line, col: col}
}

func (s *scanner) stringLiteral(line, col int) (token, error) {
	s.advance() // opening quote
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != '"' && s.src[s.pos] != '\n' {
		s.advance()
	}
	if s.pos >= len(s.src) || s.src[s.pos] != '"' {
		return token{}, &CompileError{Line: line, Col: col, Msg: "unterminated string"}
	}
	lexeme := string(s.src[start:s.pos])
	s.advance() // closing quote
	return token{kind: tokenString, lexeme: lexeme, line: line, col: col}, nil
}

func (s *scanner) peekDigit() bool {
	return s.pos+1 < len(s.src) && unicode.IsDigit(s.src[s.pos+1])
}

func (s *scanner) match(expected rune) bool {
	if s.pos < len(s.src) && s.src[s.pos] == expected {
		s.advance()
		return true
	}
	return false
}

func (s *scanner) advance() {
	if s.src[s.pos] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	s.pos++
}
