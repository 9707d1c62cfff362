// Package lowering maps surface-level values and operators onto the
// collaborator vocabulary of the emitted declarations: binary-encoded
// unsigned magnitudes, sign-wrapped integers and the per-operator
// capability traits.
package lowering

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/typelang/typc/internal/config"
)

// MaxMagnitudeBits caps literal magnitudes; anything wider is rejected by
// the lexer before it reaches lowering.
const MaxMagnitudeBits = 128

var bigTwo = big.NewInt(2)

// EncodeUnsigned renders a magnitude as a binary chain: UTerm for zero,
// otherwise UInt<higher-bits, lowest-bit> applied most-significant first.
// 6 becomes UInt<UInt<UInt<UTerm, B1>, B1>, B0>.
func EncodeUnsigned(value *big.Int, names config.Names) string {
	if value.Sign() == 0 {
		return names.UTerm
	}
	rest := new(big.Int)
	bit := new(big.Int)
	rest.DivMod(value, bigTwo, bit)

	digit := names.B0
	if bit.Sign() != 0 {
		digit = names.B1
	}
	return fmt.Sprintf("%s<%s, %s>", names.UInt, EncodeUnsigned(rest, names), digit)
}

// EncodeInteger renders a signed value: Z0 for zero, otherwise the
// magnitude encoding wrapped in PInt or NInt.
func EncodeInteger(value *big.Int, negative bool, names config.Names) string {
	if value.Sign() == 0 {
		return names.Z0
	}
	wrapper := names.PInt
	if negative {
		wrapper = names.NInt
	}
	return fmt.Sprintf("%s<%s>", wrapper, EncodeUnsigned(value, names))
}

// DecodeUnsigned parses a binary-chain encoding back into a magnitude.
// The inverse of EncodeUnsigned, used by tests and diagnostics.
func DecodeUnsigned(encoded string, names config.Names) (*big.Int, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == names.UTerm {
		return big.NewInt(0), nil
	}

	inner, ok := stripApplication(encoded, names.UInt)
	if !ok {
		return nil, fmt.Errorf("lowering: %q is not an unsigned encoding", encoded)
	}
	restPart, bitPart, err := splitTopLevel(inner)
	if err != nil {
		return nil, fmt.Errorf("lowering: malformed %s application %q", names.UInt, encoded)
	}

	rest, err := DecodeUnsigned(restPart, names)
	if err != nil {
		return nil, err
	}

	var bit int64
	switch strings.TrimSpace(bitPart) {
	case names.B0:
		bit = 0
	case names.B1:
		bit = 1
	default:
		return nil, fmt.Errorf("lowering: %q is not a binary digit", bitPart)
	}

	result := new(big.Int).Mul(rest, bigTwo)
	return result.Add(result, big.NewInt(bit)), nil
}

// DecodeInteger parses a signed encoding, returning the magnitude and
// whether it was negative.
func DecodeInteger(encoded string, names config.Names) (*big.Int, bool, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == names.Z0 {
		return big.NewInt(0), false, nil
	}

	if inner, ok := stripApplication(encoded, names.PInt); ok {
		mag, err := DecodeUnsigned(inner, names)
		return mag, false, err
	}
	if inner, ok := stripApplication(encoded, names.NInt); ok {
		mag, err := DecodeUnsigned(inner, names)
		return mag, true, err
	}
	return nil, false, fmt.Errorf("lowering: %q is not an integer encoding", encoded)
}

// stripApplication peels `Name<...>` off encoded, returning the argument
// list text.
func stripApplication(encoded, name string) (string, bool) {
	if !strings.HasPrefix(encoded, name+"<") || !strings.HasSuffix(encoded, ">") {
		return "", false
	}
	return encoded[len(name)+1 : len(encoded)-1], true
}

// splitTopLevel splits "a, b" at the comma not nested inside angle
// brackets.
func splitTopLevel(s string) (string, string, error) {
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("lowering: no top-level comma in %q", s)
}
