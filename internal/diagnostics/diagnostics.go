package diagnostics

import (
	"fmt"

	"github.com/typelang/typc/internal/token"
)

// ErrorCode identifies a diagnostic class. S-codes are syntax errors,
// D-codes decision-tree construction errors, R-codes resolution errors,
// E-codes emission errors, C-codes configuration/CLI errors.
type ErrorCode string

const (
	ErrS001 ErrorCode = "S001" // unexpected token
	ErrS002 ErrorCode = "S002" // unexpected end of input
	ErrS003 ErrorCode = "S003" // malformed literal
	ErrS004 ErrorCode = "S004" // expression too complex
	ErrS005 ErrorCode = "S005" // malformed attribute

	ErrD001 ErrorCode = "D001" // match/if nested inside a larger expression
	ErrD002 ErrorCode = "D002" // match subject is not a generic
	ErrD003 ErrorCode = "D003" // conflicting or indistinguishable match arms

	ErrR001 ErrorCode = "R001" // unknown generic
	ErrR002 ErrorCode = "R002" // capture error
	ErrR003 ErrorCode = "R003" // bound mismatch
	ErrR004 ErrorCode = "R004" // conflicting re-bind of a generic

	ErrE001 ErrorCode = "E001" // unsupported construct in emission

	ErrC001 ErrorCode = "C001" // configuration error
)

// DiagnosticError is a compiler diagnostic tied to a source position.
type DiagnosticError struct {
	Code    ErrorCode
	File    string
	Line    int
	Column  int
	Message string
}

// NewError builds a diagnostic from a code, the offending token and a
// fmt-style message.
func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d [%s] %s", e.File, e.Line, e.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%d:%d [%s] %s", e.Line, e.Column, e.Code, e.Message)
}

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Pretty renders the diagnostic for terminal output, colorized when the
// caller has determined the output supports it.
func (e *DiagnosticError) Pretty(color bool) string {
	if !color {
		return e.Error()
	}
	pos := fmt.Sprintf("%d:%d", e.Line, e.Column)
	if e.File != "" {
		pos = fmt.Sprintf("%s:%s", e.File, pos)
	}
	return fmt.Sprintf("%s%s%s %s[%s]%s %s", ansiBold, pos, ansiReset, ansiRed, e.Code, ansiReset, e.Message)
}
