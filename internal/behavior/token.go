package behavior

import "fmt"

type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenString
	tokenIdent

	tokenLet
	tokenIf
	tokenElse
	tokenTrue
	tokenFalse

	tokenLeftParen
	tokenRightParen
	tokenLeftBrace
	tokenRightBrace
	tokenComma
	tokenDot
	tokenSemicolon

	tokenAssign
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPercent
	tokenBang

	tokenEqual
	tokenNotEqual
	tokenLess
	tokenLessEqual
	tokenGreater
	tokenGreaterEqual
	tokenAnd
	tokenOr
)

var keywords = map[string]tokenKind{
	"let":   tokenLet,
	"if":    tokenIf,
	"else":  tokenElse,
	"true":  tokenTrue,
	"false": tokenFalse,
}

type token struct {
	kind   tokenKind
	lexeme string
	number float64
	line   int
	col    int
}

func (t token) String() string {
	if t.kind == tokenEOF {
		return "end of source"
	}
	return fmt.Sprintf("%q", t.lexeme)
}
