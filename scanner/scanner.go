package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"arlindohall.com/glox/glerror"
)

type Token struct {
	Text string
	Type TokenType
	Line int
}

type TokenType int

const (
	TokenError TokenType = iota
	TokenAnd
	TokenAssert
	TokenBang
	TokenBangEqual
	TokenComma
	TokenDo
	TokenDot
	TokenDotDot
	TokenElse
	TokenEnd
	TokenEof
	TokenEqual
	TokenEqualEqual
	TokenFalse
	TokenGlobal
	TokenGreater
	TokenGreaterEqual
	TokenIdentifier
	TokenIf
	TokenLeftBrace
	TokenLeftBracket
	TokenLeftParen
	TokenLess
	TokenLessEqual
	TokenLocal
	TokenMinus
	TokenNil
	TokenNot
	TokenNumber
	TokenOr
	TokenPlus
	TokenPrint
	TokenRightBrace
	TokenRightBracket
	TokenRightParen
	TokenSemicolon
	TokenSlash
	TokenStar
	TokenString
	TokenThen
	TokenTildeEqual
	TokenTrue
	TokenWhile
)

var keywords = map[string]TokenType{
	"and":    TokenAnd,
	"assert": TokenAssert,
	"do":     TokenDo,
	"else":   TokenElse,
	"end":    TokenEnd,
	"false":  TokenFalse,
	"global": TokenGlobal,
	"if":     TokenIf,
	"local":  TokenLocal,
	"nil":    TokenNil,
	"not":    TokenNot,
	"or":     TokenOr,
	"print":  TokenPrint,
	"then":   TokenThen,
	"true":   TokenTrue,
	"while":  TokenWhile,
}

type Scanner struct {
	reader *bufio.Reader
	line   int
	err    glerror.Chain
}

func New(reader *bufio.Reader) *Scanner {
	return &Scanner{
		reader: reader,
		line:   1,
	}
}

// ScanTokens reads the whole input. The returned slice always ends with a
// TokenEof; the error aggregates every problem found on the way.
func (scanner *Scanner) ScanTokens() ([]Token, error) {
	var tokens []Token

	for {
		token, err := scanner.scanToken()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				scanner.error(fmt.Sprint("Error reading source: ", err))
			}

			tokens = append(tokens, scanner.makeToken("", TokenEof))

			return tokens, scanner.err.ErrorOrNil()
		}

		if token.Type != TokenError {
			tokens = append(tokens, token)
		}
	}
}

func (scanner *Scanner) peekRune() (rune, error) {
	r, _, err := scanner.reader.ReadRune()
	if err != nil {
		return 0, err
	}

	return r, scanner.reader.UnreadRune()
}

// peekNext looks two runes ahead without consuming anything.
func (scanner *Scanner) peekNext() rune {
	buf, _ := scanner.reader.Peek(2 * utf8.UTFMax)
	if len(buf) == 0 {
		return 0
	}

	_, width := utf8.DecodeRune(buf)
	if width >= len(buf) {
		return 0
	}

	r, _ := utf8.DecodeRune(buf[width:])

	return r
}

func (scanner *Scanner) advance() rune {
	r, _, err := scanner.reader.ReadRune()
	if err != nil {
		return 0
	}

	if r == '\n' {
		scanner.line++
	}

	return r
}

func (scanner *Scanner) check(r rune) bool {
	next, err := scanner.peekRune()
	if err == nil && next == r {
		scanner.advance()
		return true
	}

	return false
}

func (scanner *Scanner) skipWhitespace() error {
	for {
		r, err := scanner.peekRune()
		if err != nil {
			return err
		}

		switch {
		case unicode.IsSpace(r):
			scanner.advance()
		case r == '-' && scanner.peekNext() == '-':
			scanner.skipComment()
		default:
			return nil
		}
	}
}

func (scanner *Scanner) skipComment() {
	for r, err := scanner.peekRune(); err == nil && r != '\n'; r, err = scanner.peekRune() {
		scanner.advance()
	}
}

func (scanner *Scanner) scanToken() (Token, error) {
	if err := scanner.skipWhitespace(); err != nil {
		return Token{}, err
	}

	r, _ := scanner.peekRune()

	switch {
	case isDigit(r):
		return scanner.scanNumber(), nil
	case isAlpha(r):
		return scanner.scanWord(), nil
	}

	scanner.advance()

	switch r {
	case '+':
		return scanner.makeToken("+", TokenPlus), nil
	case '-':
		return scanner.makeToken("-", TokenMinus), nil
	case '*':
		return scanner.makeToken("*", TokenStar), nil
	case '/':
		return scanner.makeToken("/", TokenSlash), nil
	case ';':
		return scanner.makeToken(";", TokenSemicolon), nil
	case ',':
		return scanner.makeToken(",", TokenComma), nil
	case '(':
		return scanner.makeToken("(", TokenLeftParen), nil
	case ')':
		return scanner.makeToken(")", TokenRightParen), nil
	case '{':
		return scanner.makeToken("{", TokenLeftBrace), nil
	case '}':
		return scanner.makeToken("}", TokenRightBrace), nil
	case '[':
		return scanner.makeToken("[", TokenLeftBracket), nil
	case ']':
		return scanner.makeToken("]", TokenRightBracket), nil
	case '.':
		if scanner.check('.') {
			return scanner.makeToken("..", TokenDotDot), nil
		}
		return scanner.makeToken(".", TokenDot), nil
	case '!':
		if scanner.check('=') {
			return scanner.makeToken("!=", TokenBangEqual), nil
		}
		return scanner.makeToken("!", TokenBang), nil
	case '~':
		if scanner.check('=') {
			return scanner.makeToken("~=", TokenTildeEqual), nil
		}
	case '=':
		if scanner.check('=') {
			return scanner.makeToken("==", TokenEqualEqual), nil
		}
		return scanner.makeToken("=", TokenEqual), nil
	case '<':
		if scanner.check('=') {
			return scanner.makeToken("<=", TokenLessEqual), nil
		}
		return scanner.makeToken("<", TokenLess), nil
	case '>':
		if scanner.check('=') {
			return scanner.makeToken(">=", TokenGreaterEqual), nil
		}
		return scanner.makeToken(">", TokenGreater), nil
	case '"':
		return scanner.scanString(), nil
	}

	scanner.error(fmt.Sprintf("Unexpected character '%c'", r))

	return scanner.makeToken(string(r), TokenError), nil
}

func (scanner *Scanner) makeToken(text string, tt TokenType) Token {
	return Token{
		Text: text,
		Type: tt,
		Line: scanner.line,
	}
}

func (scanner *Scanner) scanNumber() Token {
	var runes []rune

	for r, err := scanner.peekRune(); err == nil && isDigit(r); r, err = scanner.peekRune() {
		runes = append(runes, scanner.advance())
	}

	if r, err := scanner.peekRune(); err == nil && r == '.' && isDigit(scanner.peekNext()) {
		runes = append(runes, scanner.advance())

		for r, err := scanner.peekRune(); err == nil && isDigit(r); r, err = scanner.peekRune() {
			runes = append(runes, scanner.advance())
		}
	}

	return scanner.makeToken(string(runes), TokenNumber)
}

func (scanner *Scanner) scanString() Token {
	var literal []rune

	for {
		r, err := scanner.peekRune()
		if err != nil {
			scanner.error("Unterminated string")
			return scanner.makeToken(string(literal), TokenError)
		}

		scanner.advance()

		switch r {
		case '"':
			return scanner.makeToken(string(literal), TokenString)
		case '\n':
			scanner.error("Newline in string literal")
			return scanner.makeToken(string(literal), TokenError)
		case '\\':
			escape, ok := scanner.scanEscape()
			if !ok {
				return scanner.makeToken(string(literal), TokenError)
			}

			literal = append(literal, escape)
		default:
			literal = append(literal, r)
		}
	}
}

func (scanner *Scanner) scanEscape() (rune, bool) {
	r, err := scanner.peekRune()
	if err != nil {
		scanner.error("Unterminated escape sequence")
		return 0, false
	}

	scanner.advance()

	switch r {
	case '\\':
		return '\\', true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case '"':
		return '"', true
	default:
		scanner.error(fmt.Sprintf("Invalid escape sequence: \\%c", r))
		return 0, false
	}
}

func (scanner *Scanner) scanWord() Token {
	var word []rune

	for r, err := scanner.peekRune(); err == nil && (isAlpha(r) || isDigit(r)); r, err = scanner.peekRune() {
		word = append(word, scanner.advance())
	}

	source := string(word)

	if tt, ok := keywords[source]; ok {
		return scanner.makeToken(source, tt)
	}

	return scanner.makeToken(source, TokenIdentifier)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isAlpha(r rune) bool {
	lower := unicode.ToLower(r)
	return 'a' <= lower && lower <= 'z' || r == '_'
}

func (scanner *Scanner) error(message string) {
	scanner.err.Append(glerror.ScanError{
		Message: message,
		Line:    scanner.line,
	})
}
