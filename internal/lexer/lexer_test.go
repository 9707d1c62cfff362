package lexer_test

import (
	"math/big"
	"testing"

	"github.com/typelang/typc/internal/lexer"
	"github.com/typelang/typc/internal/pipeline"
	"github.com/typelang/typc/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `fn Last<l: List>(list: List) -> _ {
	match list {
		#[generics(h)]
		Cons::<h, Nil> => h,
	}
}
let x = 3u + -2i;
a <= b == c && d || !e
p[q].Add(r)
`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.FN, "fn"},
		{token.IDENT_UPPER, "Last"},
		{token.LT, "<"},
		{token.IDENT_LOWER, "l"},
		{token.COLON, ":"},
		{token.IDENT_UPPER, "List"},
		{token.GT, ">"},
		{token.LPAREN, "("},
		{token.IDENT_LOWER, "list"},
		{token.COLON, ":"},
		{token.IDENT_UPPER, "List"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.UNDERSCORE, "_"},
		{token.LBRACE, "{"},
		{token.MATCH, "match"},
		{token.IDENT_LOWER, "list"},
		{token.LBRACE, "{"},
		{token.POUND, "#"},
		{token.LBRACKET, "["},
		{token.IDENT_LOWER, "generics"},
		{token.LPAREN, "("},
		{token.IDENT_LOWER, "h"},
		{token.RPAREN, ")"},
		{token.RBRACKET, "]"},
		{token.IDENT_UPPER, "Cons"},
		{token.PATH_SEP, "::"},
		{token.LT, "<"},
		{token.IDENT_LOWER, "h"},
		{token.COMMA, ","},
		{token.IDENT_UPPER, "Nil"},
		{token.GT, ">"},
		{token.FAT_ARROW, "=>"},
		{token.IDENT_LOWER, "h"},
		{token.COMMA, ","},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.LET, "let"},
		{token.IDENT_LOWER, "x"},
		{token.ASSIGN, "="},
		{token.UINT, "3u"},
		{token.PLUS, "+"},
		{token.MINUS, "-"},
		{token.INT, "2i"},
		{token.SEMICOLON, ";"},
		{token.IDENT_LOWER, "a"},
		{token.LTE, "<="},
		{token.IDENT_LOWER, "b"},
		{token.EQ, "=="},
		{token.IDENT_LOWER, "c"},
		{token.AND, "&&"},
		{token.IDENT_LOWER, "d"},
		{token.OR, "||"},
		{token.BANG, "!"},
		{token.IDENT_LOWER, "e"},
		{token.IDENT_LOWER, "p"},
		{token.LBRACKET, "["},
		{token.IDENT_LOWER, "q"},
		{token.RBRACKET, "]"},
		{token.DOT, "."},
		{token.IDENT_UPPER, "Add"},
		{token.LPAREN, "("},
		{token.IDENT_LOWER, "r"},
		{token.RPAREN, ")"},
		{token.EOF, ""},
	}

	l := lexer.New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong type. expected=%q, got=%q (lexeme %q)",
				i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - wrong lexeme. expected=%q, got=%q",
				i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input    string
		typ      token.TokenType
		value    string
		bareSeen bool
	}{
		{"0u", token.UINT, "0", false},
		{"7i", token.INT, "7", false},
		{"7", token.INT, "7", false},
		{"340282366920938463463374607431768211455u", token.UINT, "340282366920938463463374607431768211455", false},
	}

	for _, tt := range tests {
		l := lexer.New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.typ {
			t.Errorf("%q: wrong type. expected=%q, got=%q", tt.input, tt.typ, tok.Type)
			continue
		}
		value, ok := tok.Literal.(*big.Int)
		if !ok {
			t.Errorf("%q: literal is not *big.Int", tt.input)
			continue
		}
		if value.String() != tt.value {
			t.Errorf("%q: wrong value. expected=%s, got=%s", tt.input, tt.value, value.String())
		}
	}
}

func TestMagnitudeCap(t *testing.T) {
	// One past the widest representable magnitude.
	l := lexer.New("340282366920938463463374607431768211456u")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL for oversized magnitude, got %q", tok.Type)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	l := lexer.New("// line comment\nfn /* block */ Id")
	if tok := l.NextToken(); tok.Type != token.FN {
		t.Fatalf("expected fn, got %q", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != token.IDENT_UPPER {
		t.Fatalf("expected upper ident, got %q", tok.Type)
	}
}

func TestLexerProcessorReportsIllegalToken(t *testing.T) {
	ctx := pipeline.NewPipelineContext("fn Bad() { 340282366920938463463374607431768211456u }")
	ctx = (&lexer.LexerProcessor{}).Process(ctx)

	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic for the oversized literal")
	}
	if ctx.Errors[0].Code != "S003" {
		t.Fatalf("expected S003, got %s", ctx.Errors[0].Code)
	}
}
