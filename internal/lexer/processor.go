package lexer

import (
	"github.com/typelang/typc/internal/diagnostics"
	"github.com/typelang/typc/internal/pipeline"
	"github.com/typelang/typc/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)

	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			msg := "illegal token"
			if s, ok := tok.Literal.(string); ok && s != tok.Lexeme {
				msg = s
			}
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrS003, tok, "%s: %q", msg, tok.Lexeme))
			return ctx
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	ctx.TokenStream = token.NewStream(tokens)
	return ctx
}
