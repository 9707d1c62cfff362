package lowering

import "github.com/typelang/typc/internal/config"

// Capability describes the trait an operator lowers to and the bound its
// result is assumed to satisfy. An empty Result means the result bound
// follows the left operand instead of being fixed.
type Capability struct {
	Trait  string
	Result string
}

// binaryCapabilities maps infix operators to their trait obligations.
// && and || deliberately lower to the same non-short-circuit traits as
// & and |: over types every operand is resolved regardless.
var binaryCapabilities = map[string]Capability{
	"+":  {Trait: "Add"},
	"-":  {Trait: "Sub"},
	"*":  {Trait: "Mul"},
	"/":  {Trait: "Div"},
	"%":  {Trait: "Rem"},
	"&":  {Trait: "BitAnd"},
	"|":  {Trait: "BitOr"},
	"&&": {Trait: "BitAnd"},
	"||": {Trait: "BitOr"},
	"<":  {Trait: "IsLess", Result: config.BoolBound},
	"<=": {Trait: "IsLessOrEqual", Result: config.BoolBound},
	">":  {Trait: "IsGreater", Result: config.BoolBound},
	">=": {Trait: "IsGreaterOrEqual", Result: config.BoolBound},
	"==": {Trait: "IsEqual", Result: config.BoolBound},
}

var unaryCapabilities = map[string]Capability{
	"-": {Trait: "Neg"},
	"!": {Trait: "Not"},
	"*": {Trait: "Deref"},
}

// IndexCapability is the trait obligation of the `lhs[idx]` form.
const IndexCapability = "Index"

// BinaryCapability resolves an infix operator to its capability.
func BinaryCapability(op string) (Capability, bool) {
	cap, ok := binaryCapabilities[op]
	return cap, ok
}

// UnaryCapability resolves a prefix operator to its capability.
func UnaryCapability(op string) (Capability, bool) {
	cap, ok := unaryCapabilities[op]
	return cap, ok
}

// BinaryResultBound infers the bound paths of an infix application:
// comparisons yield the boolean bound, everything else keeps the left
// operand's bound.
func BinaryResultBound(op string, left []string) []string {
	cap, ok := binaryCapabilities[op]
	if !ok {
		return nil
	}
	if cap.Result != "" {
		return []string{cap.Result}
	}
	return left
}

// UnaryResultBound infers the bound paths of a prefix application: the
// operand's bound is preserved.
func UnaryResultBound(op string, operand []string) []string {
	if _, ok := unaryCapabilities[op]; !ok {
		return nil
	}
	return operand
}
