package js_lexer

// The lexer converts a source file to a stream of tokens. Unlike many
// compilers, this lexer is intended to be called by the parser one token at a
// time, not run over the whole file up front. This is necessary because of
// lexical ambiguities: regular expression literals and template literal
// continuations can only be scanned correctly with the parser's context.
//
// Errors are reported through the logger and then unwound with a LexerPanic,
// which the parser recovers from at its entry point.

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hoistpack/hoistpack/internal/logger"
)

type T uint8

// If you add a new token, remember to add it to "tokenToString" too
const (
	TEndOfFile T = iota
	TSyntaxError

	// Literals
	TNumericLiteral
	TStringLiteral
	TNoSubstitutionTemplateLiteral
	TTemplateHead
	TTemplateMiddle
	TTemplateTail
	TRegExpLiteral

	// Punctuation
	TOpenParen
	TCloseParen
	TOpenBracket
	TCloseBracket
	TOpenBrace
	TCloseBrace
	TSemicolon
	TComma
	TDot
	TDotDotDot
	TQuestion
	TColon
	TEqualsGreaterThan

	// Operators
	TPlus
	TMinus
	TAsterisk
	TAsteriskAsterisk
	TSlash
	TPercent
	TLessThan
	TLessThanEquals
	TGreaterThan
	TGreaterThanEquals
	TLessThanLessThan
	TGreaterThanGreaterThan
	TGreaterThanGreaterThanGreaterThan
	TEqualsEquals
	TExclamationEquals
	TEqualsEqualsEquals
	TExclamationEqualsEquals
	TQuestionQuestion
	TBarBar
	TAmpersandAmpersand
	TBar
	TAmpersand
	TCaret
	TExclamation
	TTilde
	TPlusPlus
	TMinusMinus

	// Assignments
	TEquals
	TPlusEquals
	TMinusEquals
	TAsteriskEquals
	TAsteriskAsteriskEquals
	TSlashEquals
	TPercentEquals
	TLessThanLessThanEquals
	TGreaterThanGreaterThanEquals
	TGreaterThanGreaterThanGreaterThanEquals
	TBarEquals
	TAmpersandEquals
	TCaretEquals
	TQuestionQuestionEquals
	TBarBarEquals
	TAmpersandAmpersandEquals

	// Identifiers and keywords
	TIdentifier
	TAwait
	TBreak
	TCase
	TCatch
	TClass
	TConst
	TContinue
	TDebugger
	TDefault
	TDelete
	TDo
	TElse
	TExport
	TExtends
	TFalse
	TFinally
	TFor
	TFunction
	TIf
	TImport
	TIn
	TInstanceof
	TLet
	TNew
	TNull
	TReturn
	TSwitch
	TThis
	TThrow
	TTrue
	TTry
	TTypeof
	TVar
	TVoid
	TWhile
	TYield
)

var Keywords = map[string]T{
	"await":      TAwait,
	"break":      TBreak,
	"case":       TCase,
	"catch":      TCatch,
	"class":      TClass,
	"const":      TConst,
	"continue":   TContinue,
	"debugger":   TDebugger,
	"default":    TDefault,
	"delete":     TDelete,
	"do":         TDo,
	"else":       TElse,
	"export":     TExport,
	"extends":    TExtends,
	"false":      TFalse,
	"finally":    TFinally,
	"for":        TFor,
	"function":   TFunction,
	"if":         TIf,
	"import":     TImport,
	"in":         TIn,
	"instanceof": TInstanceof,
	"let":        TLet,
	"new":        TNew,
	"null":       TNull,
	"return":     TReturn,
	"switch":     TSwitch,
	"this":       TThis,
	"throw":      TThrow,
	"true":       TTrue,
	"try":        TTry,
	"typeof":     TTypeof,
	"var":        TVar,
	"void":       TVoid,
	"while":      TWhile,
	"yield":      TYield,
}

var tokenToString = map[T]string{
	TEndOfFile:   "end of file",
	TSyntaxError: "syntax error",

	TNumericLiteral:                "number",
	TStringLiteral:                 "string",
	TNoSubstitutionTemplateLiteral: "template literal",
	TTemplateHead:                  "template literal",
	TTemplateMiddle:                "template literal",
	TTemplateTail:                  "template literal",
	TRegExpLiteral:                 "regular expression",

	TOpenParen:         "\"(\"",
	TCloseParen:        "\")\"",
	TOpenBracket:       "\"[\"",
	TCloseBracket:      "\"]\"",
	TOpenBrace:         "\"{\"",
	TCloseBrace:        "\"}\"",
	TSemicolon:         "\";\"",
	TComma:             "\",\"",
	TDot:               "\".\"",
	TDotDotDot:         "\"...\"",
	TQuestion:          "\"?\"",
	TColon:             "\":\"",
	TEqualsGreaterThan: "\"=>\"",

	TIdentifier: "identifier",
}

func tokenName(token T) string {
	if name, ok := tokenToString[token]; ok {
		return name
	}
	return "token"
}

// This is the type of a panic thrown on a lexer error. It is recovered from
// in the parser's entry point so a syntax error unwinds the whole parse.
type LexerPanic struct{}

type Lexer struct {
	log    logger.Log
	source logger.Source

	current int
	start   int
	end     int

	Token            T
	HasNewlineBefore bool
	Identifier       string
	String           string
	Number           float64
}

func NewLexer(log logger.Log, source logger.Source) Lexer {
	lexer := Lexer{
		log:    log,
		source: source,
	}
	lexer.Next()
	return lexer
}

func (lexer *Lexer) Loc() logger.Loc {
	return logger.Loc{Start: int32(lexer.start)}
}

func (lexer *Lexer) Range() logger.Range {
	return logger.Range{Loc: logger.Loc{Start: int32(lexer.start)}, Len: int32(lexer.end - lexer.start)}
}

func (lexer *Lexer) Raw() string {
	return lexer.source.Contents[lexer.start:lexer.end]
}

func (lexer *Lexer) IsContextualKeyword(text string) bool {
	return lexer.Token == TIdentifier && lexer.Identifier == text
}

func (lexer *Lexer) Expected(token T) {
	lexer.ExpectedString(tokenName(token))
}

func (lexer *Lexer) ExpectedString(text string) {
	found := "end of file"
	if lexer.start < len(lexer.source.Contents) {
		found = "\"" + lexer.Raw() + "\""
	}
	lexer.addRangeError(lexer.Range(), "Expected "+text+" but found "+found)
	panic(LexerPanic{})
}

func (lexer *Lexer) SyntaxError() {
	loc := logger.Loc{Start: int32(lexer.end)}
	message := "Unexpected end of file"
	if lexer.end < len(lexer.source.Contents) {
		c, _ := utf8.DecodeRuneInString(lexer.source.Contents[lexer.end:])
		message = "Syntax error \"" + string(c) + "\""
	}
	lexer.log.AddError(&lexer.source, loc, message)
	panic(LexerPanic{})
}

func (lexer *Lexer) Expect(token T) {
	if lexer.Token != token {
		lexer.Expected(token)
	}
	lexer.Next()
}

func (lexer *Lexer) ExpectContextualKeyword(text string) {
	if !lexer.IsContextualKeyword(text) {
		lexer.ExpectedString("\"" + text + "\"")
	}
	lexer.Next()
}

func (lexer *Lexer) addRangeError(r logger.Range, text string) {
	lexer.log.AddRangeError(&lexer.source, r, text)
}

func (lexer *Lexer) peek(delta int) byte {
	if lexer.current+delta < len(lexer.source.Contents) {
		return lexer.source.Contents[lexer.current+delta]
	}
	return 0
}

func isIdentifierStart(c rune) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= utf8.RuneSelf && unicode.IsLetter(c))
}

func isIdentifierContinue(c rune) bool {
	return isIdentifierStart(c) || (c >= '0' && c <= '9')
}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, c := range text {
		if i == 0 {
			if !isIdentifierStart(c) {
				return false
			}
		} else if !isIdentifierContinue(c) {
			return false
		}
	}
	return true
}

func (lexer *Lexer) Next() {
	lexer.HasNewlineBefore = lexer.end == 0
	contents := lexer.source.Contents

	for {
		// Skip whitespace and comments
		for lexer.current < len(contents) {
			c := contents[lexer.current]
			switch c {
			case '\r', '\n':
				lexer.HasNewlineBefore = true
				lexer.current++
				continue
			case ' ', '\t':
				lexer.current++
				continue
			case '/':
				if lexer.peek(1) == '/' {
					lexer.current += 2
					for lexer.current < len(contents) && contents[lexer.current] != '\n' && contents[lexer.current] != '\r' {
						lexer.current++
					}
					continue
				}
				if lexer.peek(1) == '*' {
					lexer.current += 2
					for lexer.current < len(contents) {
						if contents[lexer.current] == '*' && lexer.peek(1) == '/' {
							lexer.current += 2
							break
						}
						if contents[lexer.current] == '\n' || contents[lexer.current] == '\r' {
							lexer.HasNewlineBefore = true
						}
						lexer.current++
					}
					continue
				}
			}
			break
		}

		lexer.start = lexer.current
		if lexer.current >= len(contents) {
			lexer.Token = TEndOfFile
			lexer.end = lexer.current
			return
		}

		c := contents[lexer.current]
		lexer.current++

		switch c {
		case '(':
			lexer.Token = TOpenParen
		case ')':
			lexer.Token = TCloseParen
		case '[':
			lexer.Token = TOpenBracket
		case ']':
			lexer.Token = TCloseBracket
		case '{':
			lexer.Token = TOpenBrace
		case '}':
			lexer.Token = TCloseBrace
		case ';':
			lexer.Token = TSemicolon
		case ',':
			lexer.Token = TComma
		case ':':
			lexer.Token = TColon
		case '~':
			lexer.Token = TTilde

		case '.':
			if lexer.peek(0) >= '0' && lexer.peek(0) <= '9' {
				lexer.scanNumber()
				break
			}
			if lexer.peek(0) == '.' && lexer.peek(1) == '.' {
				lexer.current += 2
				lexer.Token = TDotDotDot
			} else {
				lexer.Token = TDot
			}

		case '?':
			if lexer.peek(0) == '?' {
				lexer.current++
				if lexer.peek(0) == '=' {
					lexer.current++
					lexer.Token = TQuestionQuestionEquals
				} else {
					lexer.Token = TQuestionQuestion
				}
			} else {
				lexer.Token = TQuestion
			}

		case '+':
			switch lexer.peek(0) {
			case '+':
				lexer.current++
				lexer.Token = TPlusPlus
			case '=':
				lexer.current++
				lexer.Token = TPlusEquals
			default:
				lexer.Token = TPlus
			}

		case '-':
			switch lexer.peek(0) {
			case '-':
				lexer.current++
				lexer.Token = TMinusMinus
			case '=':
				lexer.current++
				lexer.Token = TMinusEquals
			default:
				lexer.Token = TMinus
			}

		case '*':
			switch lexer.peek(0) {
			case '*':
				lexer.current++
				if lexer.peek(0) == '=' {
					lexer.current++
					lexer.Token = TAsteriskAsteriskEquals
				} else {
					lexer.Token = TAsteriskAsterisk
				}
			case '=':
				lexer.current++
				lexer.Token = TAsteriskEquals
			default:
				lexer.Token = TAsterisk
			}

		case '/':
			if lexer.peek(0) == '=' {
				lexer.current++
				lexer.Token = TSlashEquals
			} else {
				lexer.Token = TSlash
			}

		case '%':
			if lexer.peek(0) == '=' {
				lexer.current++
				lexer.Token = TPercentEquals
			} else {
				lexer.Token = TPercent
			}

		case '<':
			switch lexer.peek(0) {
			case '=':
				lexer.current++
				lexer.Token = TLessThanEquals
			case '<':
				lexer.current++
				if lexer.peek(0) == '=' {
					lexer.current++
					lexer.Token = TLessThanLessThanEquals
				} else {
					lexer.Token = TLessThanLessThan
				}
			default:
				lexer.Token = TLessThan
			}

		case '>':
			switch lexer.peek(0) {
			case '=':
				lexer.current++
				lexer.Token = TGreaterThanEquals
			case '>':
				lexer.current++
				switch lexer.peek(0) {
				case '=':
					lexer.current++
					lexer.Token = TGreaterThanGreaterThanEquals
				case '>':
					lexer.current++
					if lexer.peek(0) == '=' {
						lexer.current++
						lexer.Token = TGreaterThanGreaterThanGreaterThanEquals
					} else {
						lexer.Token = TGreaterThanGreaterThanGreaterThan
					}
				default:
					lexer.Token = TGreaterThanGreaterThan
				}
			default:
				lexer.Token = TGreaterThan
			}

		case '=':
			switch lexer.peek(0) {
			case '=':
				lexer.current++
				if lexer.peek(0) == '=' {
					lexer.current++
					lexer.Token = TEqualsEqualsEquals
				} else {
					lexer.Token = TEqualsEquals
				}
			case '>':
				lexer.current++
				lexer.Token = TEqualsGreaterThan
			default:
				lexer.Token = TEquals
			}

		case '!':
			if lexer.peek(0) == '=' {
				lexer.current++
				if lexer.peek(0) == '=' {
					lexer.current++
					lexer.Token = TExclamationEqualsEquals
				} else {
					lexer.Token = TExclamationEquals
				}
			} else {
				lexer.Token = TExclamation
			}

		case '|':
			switch lexer.peek(0) {
			case '|':
				lexer.current++
				if lexer.peek(0) == '=' {
					lexer.current++
					lexer.Token = TBarBarEquals
				} else {
					lexer.Token = TBarBar
				}
			case '=':
				lexer.current++
				lexer.Token = TBarEquals
			default:
				lexer.Token = TBar
			}

		case '&':
			switch lexer.peek(0) {
			case '&':
				lexer.current++
				if lexer.peek(0) == '=' {
					lexer.current++
					lexer.Token = TAmpersandAmpersandEquals
				} else {
					lexer.Token = TAmpersandAmpersand
				}
			case '=':
				lexer.current++
				lexer.Token = TAmpersandEquals
			default:
				lexer.Token = TAmpersand
			}

		case '^':
			if lexer.peek(0) == '=' {
				lexer.current++
				lexer.Token = TCaretEquals
			} else {
				lexer.Token = TCaret
			}

		case '\'', '"':
			lexer.scanString(c)

		case '`':
			lexer.scanTemplate(true)

		default:
			if c >= '0' && c <= '9' {
				lexer.current--
				lexer.scanNumber()
				break
			}

			r := rune(c)
			width := 1
			if c >= utf8.RuneSelf {
				lexer.current--
				r, width = utf8.DecodeRuneInString(contents[lexer.current:])
				lexer.current += width
			}

			if isIdentifierStart(r) {
				for lexer.current < len(contents) {
					r, width = utf8.DecodeRuneInString(contents[lexer.current:])
					if !isIdentifierContinue(r) {
						break
					}
					lexer.current += width
				}
				lexer.Identifier = contents[lexer.start:lexer.current]
				if token, ok := Keywords[lexer.Identifier]; ok {
					lexer.Token = token
				} else {
					lexer.Token = TIdentifier
				}
				break
			}

			lexer.end = lexer.current
			lexer.Token = TSyntaxError
			lexer.SyntaxError()
		}

		lexer.end = lexer.current
		return
	}
}

func (lexer *Lexer) scanNumber() {
	contents := lexer.source.Contents

	if contents[lexer.current] == '0' && lexer.current+1 < len(contents) {
		switch contents[lexer.current+1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			base := 16
			switch contents[lexer.current+1] {
			case 'o', 'O':
				base = 8
			case 'b', 'B':
				base = 2
			}
			lexer.current += 2
			digits := lexer.current
			for lexer.current < len(contents) && isRadixDigit(contents[lexer.current], base) {
				lexer.current++
			}
			if digits == lexer.current {
				lexer.end = lexer.current
				lexer.SyntaxError()
			}
			value, err := strconv.ParseUint(contents[digits:lexer.current], base, 64)
			if err != nil {
				lexer.end = lexer.current
				lexer.SyntaxError()
			}
			lexer.Number = float64(value)
			lexer.Token = TNumericLiteral
			return
		}
	}

	for lexer.current < len(contents) && contents[lexer.current] >= '0' && contents[lexer.current] <= '9' {
		lexer.current++
	}
	if lexer.current < len(contents) && contents[lexer.current] == '.' {
		lexer.current++
		for lexer.current < len(contents) && contents[lexer.current] >= '0' && contents[lexer.current] <= '9' {
			lexer.current++
		}
	}
	if lexer.current < len(contents) && (contents[lexer.current] == 'e' || contents[lexer.current] == 'E') {
		lexer.current++
		if lexer.current < len(contents) && (contents[lexer.current] == '+' || contents[lexer.current] == '-') {
			lexer.current++
		}
		for lexer.current < len(contents) && contents[lexer.current] >= '0' && contents[lexer.current] <= '9' {
			lexer.current++
		}
	}

	value, err := strconv.ParseFloat(contents[lexer.start:lexer.current], 64)
	if err != nil {
		lexer.end = lexer.current
		lexer.SyntaxError()
	}
	lexer.Number = value
	lexer.Token = TNumericLiteral
}

func isRadixDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	default:
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
}

func (lexer *Lexer) scanString(quote byte) {
	contents := lexer.source.Contents
	sb := strings.Builder{}

	for {
		if lexer.current >= len(contents) {
			lexer.end = lexer.current
			lexer.SyntaxError()
		}
		c := contents[lexer.current]
		if c == quote {
			lexer.current++
			break
		}
		switch c {
		case '\\':
			lexer.current++
			lexer.scanEscape(&sb)
		case '\r', '\n':
			lexer.end = lexer.current
			lexer.addRangeError(logger.Range{Loc: logger.Loc{Start: int32(lexer.current)}, Len: 1},
				"Unterminated string literal")
			panic(LexerPanic{})
		default:
			sb.WriteByte(c)
			lexer.current++
		}
	}

	lexer.String = sb.String()
	lexer.Token = TStringLiteral
}

// Scans a template literal chunk starting just past a "`" (head is true) or a
// "}" (continuation of a substitution). Sets TNoSubstitutionTemplateLiteral,
// TTemplateHead, TTemplateMiddle, or TTemplateTail.
func (lexer *Lexer) scanTemplate(head bool) {
	contents := lexer.source.Contents
	sb := strings.Builder{}

	for {
		if lexer.current >= len(contents) {
			lexer.end = lexer.current
			lexer.SyntaxError()
		}
		c := contents[lexer.current]
		switch c {
		case '`':
			lexer.current++
			lexer.String = sb.String()
			if head {
				lexer.Token = TNoSubstitutionTemplateLiteral
			} else {
				lexer.Token = TTemplateTail
			}
			return
		case '$':
			if lexer.peek(1) == '{' {
				lexer.current += 2
				lexer.String = sb.String()
				if head {
					lexer.Token = TTemplateHead
				} else {
					lexer.Token = TTemplateMiddle
				}
				return
			}
			sb.WriteByte(c)
			lexer.current++
		case '\\':
			lexer.current++
			lexer.scanEscape(&sb)
		default:
			sb.WriteByte(c)
			lexer.current++
		}
	}
}

// RescanCloseBraceAsTemplateToken is called by the parser when it has just
// parsed a substitution inside a template literal. The "}" the lexer saw is
// actually the start of the next template chunk.
func (lexer *Lexer) RescanCloseBraceAsTemplateToken() {
	if lexer.Token != TCloseBrace {
		lexer.Expected(TCloseBrace)
	}
	lexer.current = lexer.start + 1
	lexer.scanTemplate(false)
	lexer.end = lexer.current
}

func (lexer *Lexer) scanEscape(sb *strings.Builder) {
	contents := lexer.source.Contents
	if lexer.current >= len(contents) {
		lexer.end = lexer.current
		lexer.SyntaxError()
	}

	c := contents[lexer.current]
	lexer.current++

	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0':
		sb.WriteByte(0)
	case '\r', '\n':
		// Line continuation: the newline is dropped
		if c == '\r' && lexer.current < len(contents) && contents[lexer.current] == '\n' {
			lexer.current++
		}
	case 'x':
		if lexer.current+2 > len(contents) {
			lexer.SyntaxError()
		}
		value, err := strconv.ParseUint(contents[lexer.current:lexer.current+2], 16, 32)
		if err != nil {
			lexer.SyntaxError()
		}
		sb.WriteRune(rune(value))
		lexer.current += 2
	case 'u':
		if lexer.current < len(contents) && contents[lexer.current] == '{' {
			lexer.current++
			digits := lexer.current
			for lexer.current < len(contents) && contents[lexer.current] != '}' {
				lexer.current++
			}
			value, err := strconv.ParseUint(contents[digits:lexer.current], 16, 32)
			if err != nil {
				lexer.SyntaxError()
			}
			sb.WriteRune(rune(value))
			lexer.current++ // "}"
		} else {
			if lexer.current+4 > len(contents) {
				lexer.SyntaxError()
			}
			value, err := strconv.ParseUint(contents[lexer.current:lexer.current+4], 16, 32)
			if err != nil {
				lexer.SyntaxError()
			}
			sb.WriteRune(rune(value))
			lexer.current += 4
		}
	default:
		sb.WriteByte(c)
	}
}

// ScanRegExp is called by the parser when a "/" or "/=" token appears where a
// prefix expression is expected. The token is re-scanned as a regular
// expression literal and Raw() holds its text.
func (lexer *Lexer) ScanRegExp() {
	contents := lexer.source.Contents
	lexer.current = lexer.start + 1
	inClass := false

	for {
		if lexer.current >= len(contents) {
			lexer.end = lexer.current
			lexer.SyntaxError()
		}
		switch contents[lexer.current] {
		case '/':
			lexer.current++
			if !inClass {
				// Scan flags
				for lexer.current < len(contents) {
					r, width := utf8.DecodeRuneInString(contents[lexer.current:])
					if !isIdentifierContinue(r) {
						break
					}
					lexer.current += width
				}
				lexer.Token = TRegExpLiteral
				lexer.end = lexer.current
				return
			}
		case '[':
			inClass = true
			lexer.current++
		case ']':
			inClass = false
			lexer.current++
		case '\\':
			lexer.current += 2
		case '\r', '\n':
			lexer.end = lexer.current
			lexer.SyntaxError()
		default:
			lexer.current++
		}
	}
}
