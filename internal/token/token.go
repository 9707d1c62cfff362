package token

// TokenType identifies the lexical class of a token.
type TokenType string

// Token is a single lexical token. Literal carries the decoded value
// (string for identifiers and operators, *big.Int for integer literals),
// Lexeme the raw source text.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT_UPPER TokenType = "IDENT_UPPER" // Shape, Marker, Bound names
	IDENT_LOWER TokenType = "IDENT_LOWER" // generics, argument names
	INT         TokenType = "INT"         // 42, 7i (signed)
	UINT        TokenType = "UINT"        // 42u (unsigned)

	// Operators
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	PERCENT   TokenType = "%"
	BANG      TokenType = "!"
	AMPERSAND TokenType = "&"
	PIPE      TokenType = "|"
	AND       TokenType = "&&"
	OR        TokenType = "||"
	LT        TokenType = "<"
	GT        TokenType = ">"
	LTE       TokenType = "<="
	GTE       TokenType = ">="
	EQ        TokenType = "=="
	ASSIGN    TokenType = "="

	// Delimiters and punctuation
	COMMA      TokenType = ","
	COLON      TokenType = ":"
	SEMICOLON  TokenType = ";"
	DOT        TokenType = "."
	POUND      TokenType = "#"
	UNDERSCORE TokenType = "_"
	PATH_SEP   TokenType = "::"
	ARROW      TokenType = "->"
	FAT_ARROW  TokenType = "=>"
	LPAREN     TokenType = "("
	RPAREN     TokenType = ")"
	LBRACE     TokenType = "{"
	RBRACE     TokenType = "}"
	LBRACKET   TokenType = "["
	RBRACKET   TokenType = "]"

	// Keywords
	FN    TokenType = "FN"
	LET   TokenType = "LET"
	IF    TokenType = "IF"
	ELSE  TokenType = "ELSE"
	MATCH TokenType = "MATCH"
	WHERE TokenType = "WHERE"
	TRUE  TokenType = "TRUE"
	FALSE TokenType = "FALSE"
)

var keywords = map[string]TokenType{
	"fn":    FN,
	"let":   LET,
	"if":    IF,
	"else":  ELSE,
	"match": MATCH,
	"where": WHERE,
	"true":  TRUE,
	"false": FALSE,
}

// LookupIdent returns the keyword type for ident, or IDENT_LOWER.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT_LOWER
}
