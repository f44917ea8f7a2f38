package token

import "testing"

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Invalid:  "invalid",
		EOF:      "eof",
		Keyword:  "keyword",
		Ident:    "ident",
		Number:   "number",
		String:   "string",
		Operator: "operator",
		Punct:    "punct",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestParseKind_Positive(t *testing.T) {
	cases := map[string]Kind{
		"keyword":     Keyword,
		"ident":       Ident,
		"identifier":  Ident,
		"number":      Number,
		"string":      String,
		"operator":    Operator,
		"punct":       Punct,
		"punctuation": Punct,
		"eof":         EOF,
	}
	for name, want := range cases {
		got, ok := ParseKind(name)
		if !ok {
			t.Fatalf("ParseKind(%q) = !ok, want %v", name, want)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseKind_Negative(t *testing.T) {
	// Заведомо НЕ имена видов токенов
	for _, name := range []string{"", "Keyword", "IDENT", "num", "literal"} {
		if _, ok := ParseKind(name); ok {
			t.Fatalf("ParseKind(%q) returned ok=true, want false", name)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	if !LookupKeyword("let") {
		t.Fatal("LookupKeyword(\"let\") = false, want true")
	}
	for _, s := range []string{"Let", "LET", "letx", "if"} {
		if LookupKeyword(s) {
			t.Fatalf("LookupKeyword(%q) = true, want false", s)
		}
	}
}
