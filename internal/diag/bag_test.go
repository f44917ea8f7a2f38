package diag

import (
	"errors"
	"testing"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(Diagnostic{Phase: PhaseLexical, Severity: SevError, Message: "a"}) {
		t.Fatal("first Add rejected")
	}
	if !b.Add(Diagnostic{Phase: PhaseSyntax, Severity: SevError, Message: "b"}) {
		t.Fatal("second Add rejected")
	}
	if b.Add(Diagnostic{Phase: PhaseSyntax, Severity: SevError, Message: "c"}) {
		t.Fatal("Add over limit accepted")
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
}

func TestBagOrderPreserved(t *testing.T) {
	b := NewBag(10)
	for _, msg := range []string{"first", "second", "third"} {
		b.Add(Diagnostic{Severity: SevError, Message: msg})
	}
	items := b.Items()
	if items[0].Message != "first" || items[2].Message != "third" {
		t.Fatalf("insertion order not preserved: %v", items)
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Severity: SevError, Message: "a"})
	b := NewBag(1)
	b.Add(Diagnostic{Severity: SevWarning, Message: "b"})
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("Len() after merge = %d, want 2", a.Len())
	}
	if !a.HasErrors() {
		t.Fatal("HasErrors() = false after merging an error bag")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		err         *Error
		phase       Phase
		recoverable bool
	}{
		{Lexicalf("bad byte"), PhaseLexical, true},
		{Syntaxf("unexpected token"), PhaseSyntax, true},
		{Semanticf("unbound name"), PhaseSemantic, true},
		{Internalf("arity mismatch"), PhaseOptimize, false},
		{Executionf("exit 1"), PhaseExecute, false},
		{BackendUnavailablef("timeout"), PhaseBackend, true},
	}
	for _, tc := range cases {
		if tc.err.Phase != tc.phase {
			t.Fatalf("%v: phase = %v, want %v", tc.err, tc.err.Phase, tc.phase)
		}
		if tc.err.Recoverable != tc.recoverable {
			t.Fatalf("%v: recoverable = %v, want %v", tc.err, tc.err.Recoverable, tc.recoverable)
		}
	}
}

func TestAsError(t *testing.T) {
	orig := Syntaxf("unexpected ')'")
	wrapped := errors.Join(orig)
	got := AsError(wrapped, PhaseExecute)
	if got.Phase != PhaseSyntax || !got.Recoverable {
		t.Fatalf("AsError lost the typed error: %+v", got)
	}

	plain := AsError(errors.New("boom"), PhaseExecute)
	if plain.Phase != PhaseExecute || plain.Recoverable {
		t.Fatalf("AsError(plain) = %+v, want fatal execute", plain)
	}
}
