package parser_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/typelang/typc/internal/prettyprinter"
)

var update = flag.Bool("update", false, "update snapshot files")

// TestParserSnapshots pins both printers' output for representative
// inputs: the structural tree dump and the canonical source. Run with
// -update to rewrite the .snap files after an intended change.
func TestParserSnapshots(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"leaf_arithmetic", "fn Double<n: Unsigned>() -> Unsigned { n + n }"},
		{"conditional", "fn Sign<n: Integer>() -> Integer { if n < 0i { -1i } else { 1i } }"},
		{"constructor_param", "fn Fst(Pair::<x, y>: _) -> _ { x }"},
		{"match_with_attributes", `fn Head<g, l>() -> _ {
    match l {
        #[generics(t)]
        #[capture(g)]
        Cons::<g, t> => g,
        Nil => Nil,
    }
}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := parseOK(t, tc.input)

			treeOutput := prettyprinter.NewTreePrinter().Print(ctx.Functions)
			codeOutput := prettyprinter.NewCodePrinter().Print(ctx.Functions)

			// Include the original input so snapshots show what was parsed.
			actual := "--- Input ---\n" + tc.input + "\n\n--- AST Tree ---\n" + treeOutput + "\n--- Source Code ---\n" + codeOutput

			snapshotFile := filepath.Join("testdata", tc.name+".snap")

			if *update {
				if err := os.WriteFile(snapshotFile, []byte(actual), 0644); err != nil {
					t.Fatalf("failed to update snapshot: %v", err)
				}
				return
			}

			expected, err := os.ReadFile(snapshotFile)
			if err != nil {
				t.Fatalf("failed to read snapshot file: %v. Run with -update flag to create it.", err)
			}

			if string(expected) != actual {
				t.Errorf("snapshot mismatch:\n--- expected\n%s\n--- actual\n%s", string(expected), actual)
			}
		})
	}
}
