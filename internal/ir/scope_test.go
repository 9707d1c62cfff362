package ir_test

import (
	"reflect"
	"testing"

	"github.com/typelang/typc/internal/ast"
	"github.com/typelang/typc/internal/ir"
)

func bound(paths ...string) *ast.Bound {
	return &ast.Bound{Paths: paths}
}

func TestLookupWalksAncestors(t *testing.T) {
	root := ir.NewScope(nil)
	root.Introduce("n", bound("Unsigned"))

	arm := ir.NewScope(root)
	arm.Introduce("h", nil)

	b, owner, ok := arm.Lookup("n")
	if !ok || owner != root {
		t.Fatal("n should resolve to the root scope")
	}
	if got := b.PathSet(); len(got) != 1 || got[0] != "Unsigned" {
		t.Fatalf("bound = %v", got)
	}

	if _, _, ok := root.Lookup("h"); ok {
		t.Fatal("child bindings must not leak upward")
	}
}

func TestAncestorIntroducesExcludesSelfAndSiblings(t *testing.T) {
	root := ir.NewScope(nil)
	root.Introduce("g", nil)

	armA := ir.NewScope(root)
	armA.Introduce("h", nil)
	armB := ir.NewScope(root)

	if !armB.AncestorIntroduces("g") {
		t.Fatal("g comes from a strict ancestor")
	}
	if armB.AncestorIntroduces("h") {
		t.Fatal("sibling bindings are not capturable")
	}
	if armA.AncestorIntroduces("h") {
		t.Fatal("a scope's own binding is not an ancestor binding")
	}
}

func TestVisibleOrderAndShadowing(t *testing.T) {
	root := ir.NewScope(nil)
	root.Introduce("a", nil)
	root.Introduce("b", bound("Unsigned"))

	arm := ir.NewScope(root)
	arm.Introduce("c", nil)
	arm.Introduce("b", bound("Unsigned")) // same-bound re-introduction

	want := []string{"a", "b", "c"}
	if got := arm.Visible(); !reflect.DeepEqual(got, want) {
		t.Fatalf("visible = %v, want %v", got, want)
	}
	if got := arm.Names(); !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Fatalf("own names = %v", got)
	}
}
