package config

const SourceFileExt = ".typ"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".typ", ".typc"}

// ConfigFileName is the per-project configuration file looked up next to
// the compiled source.
const ConfigFileName = "typc.yaml"

// Built-in constraint path names. The arithmetic bound of a comparison is
// always BoolBound; integer literals carry UnsignedBound or IntegerBound
// depending on their suffix.
const (
	BoolBound     = "Bool"
	UnsignedBound = "Unsigned"
	IntegerBound  = "Integer"
)
