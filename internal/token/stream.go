package token

// Stream is a read-once token stream with lookahead, shared between the
// lexer stage and the parser.
type Stream struct {
	tokens []Token
	pos    int
}

func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Next returns the next token, or EOF forever once exhausted.
func (s *Stream) Next() Token {
	if s.pos >= len(s.tokens) {
		return Token{Type: EOF}
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

// Peek returns up to n tokens ahead of the current position without
// consuming them.
func (s *Stream) Peek(n int) []Token {
	end := s.pos + n
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	return s.tokens[s.pos:end]
}

// Len returns the total number of tokens in the stream.
func (s *Stream) Len() int {
	return len(s.tokens)
}
