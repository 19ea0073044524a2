package lex

import (
	"strings"
)

type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() Token {
	l.skipWhiteSpaces()

	switch l.ch {
	case ',':
		tok := Token{Kind: COMMA, Value: string(l.ch)}
		l.readChar()
		return tok
	case '*':
		tok := Token{Kind: ASTERISK, Value: string(l.ch)}
		l.readChar()
		return tok
	case '=':
		tok := Token{Kind: EQUAL, Value: string(l.ch)}
		l.readChar()
		return tok
	case '(':
		tok := Token{Kind: OPENROUNDED, Value: string(l.ch)}
		l.readChar()
		return tok
	case ')':
		tok := Token{Kind: CLOSEDROUNDED, Value: string(l.ch)}
		l.readChar()
		return tok
	case ';':
		tok := Token{Kind: SEMICOLON, Value: string(l.ch)}
		l.readChar()
		return tok
	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Kind: GTE, Value: ">="}
		}
		return Token{Kind: GT, Value: ">"}
	case '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Kind: LTE, Value: "<="}
		}
		return Token{Kind: LT, Value: "<"}
	case 0:
		return Token{Kind: END, Value: ""}
	default:
		if isLetter(l.ch) {
			str := l.keyIdentLookup()
			return Token{Kind: KeyIdentKind(str), Value: str}
		} else if isNumber(l.ch) {
			return Token{Kind: NUMBER, Value: l.readNumber()}
		}
		tok := Token{Kind: INVALID, Value: string(l.ch)}
		l.readChar()
		return tok
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) skipWhiteSpaces() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isNumber(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) keyIdentLookup() string {
	start := l.pos
	for isLetter(l.ch) || isNumber(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber accepts integers and decimals.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isNumber(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isNumber(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func KeyIdentKind(str string) TokenKind {
	switch strings.ToUpper(str) {
	case "SELECT":
		return SELECT
	case "FROM":
		return FROM
	case "WHERE":
		return WHERE
	case "GROUP":
		return GROUP
	case "BY":
		return BY
	case "AND":
		return AND
	case "BETWEEN":
		return BETWEEN
	case "SUM":
		return SUM
	case "AVG":
		return AVG
	case "COUNT":
		return COUNT
	default:
		return IDENT
	}
}
