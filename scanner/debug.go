package scanner

import (
	"fmt"
	"io"
)

var tokenNames = map[TokenType]string{
	TokenError:        "TokenError",
	TokenAnd:          "TokenAnd",
	TokenAssert:       "TokenAssert",
	TokenBang:         "TokenBang",
	TokenBangEqual:    "TokenBangEqual",
	TokenComma:        "TokenComma",
	TokenDo:           "TokenDo",
	TokenDot:          "TokenDot",
	TokenDotDot:       "TokenDotDot",
	TokenElse:         "TokenElse",
	TokenEnd:          "TokenEnd",
	TokenEof:          "TokenEof",
	TokenEqual:        "TokenEqual",
	TokenEqualEqual:   "TokenEqualEqual",
	TokenFalse:        "TokenFalse",
	TokenGlobal:       "TokenGlobal",
	TokenGreater:      "TokenGreater",
	TokenGreaterEqual: "TokenGreaterEqual",
	TokenIdentifier:   "TokenIdentifier",
	TokenIf:           "TokenIf",
	TokenLeftBrace:    "TokenLeftBrace",
	TokenLeftBracket:  "TokenLeftBracket",
	TokenLeftParen:    "TokenLeftParen",
	TokenLess:         "TokenLess",
	TokenLessEqual:    "TokenLessEqual",
	TokenLocal:        "TokenLocal",
	TokenMinus:        "TokenMinus",
	TokenNil:          "TokenNil",
	TokenNot:          "TokenNot",
	TokenNumber:       "TokenNumber",
	TokenOr:           "TokenOr",
	TokenPlus:         "TokenPlus",
	TokenPrint:        "TokenPrint",
	TokenRightBrace:   "TokenRightBrace",
	TokenRightBracket: "TokenRightBracket",
	TokenRightParen:   "TokenRightParen",
	TokenSemicolon:    "TokenSemicolon",
	TokenSlash:        "TokenSlash",
	TokenStar:         "TokenStar",
	TokenString:       "TokenString",
	TokenThen:         "TokenThen",
	TokenTildeEqual:   "TokenTildeEqual",
	TokenTrue:         "TokenTrue",
	TokenWhile:        "TokenWhile",
}

func (tt TokenType) String() string {
	name, ok := tokenNames[tt]
	if !ok {
		return fmt.Sprintf("TokenType(%d)", int(tt))
	}

	return name
}

func (t Token) String() string {
	return fmt.Sprintf("%v/%q", t.Type, t.Text)
}

// DebugTokens writes one source line of tokens per output line.
func DebugTokens(w io.Writer, tokens []Token) {
	line := -1

	for _, token := range tokens {
		if token.Line != line {
			if line != -1 {
				fmt.Fprintln(w)
			}

			line = token.Line
			fmt.Fprintf(w, "%04d |", line)
		}

		fmt.Fprint(w, " ", token)
	}

	fmt.Fprintln(w)
}
