package token

import "testing"

func TestLexeme(t *testing.T) {
	source := `print "hi there";`
	tok := Token{Kind: String, Start: 6, Length: 10, Line: 1}
	if got, want := tok.Lexeme(source), `"hi there"`; got != want {
		t.Errorf("Lexeme() = %q, want %q", got, want)
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		lexeme string
		want   Kind
	}{
		{"and", And},
		{"print", Print},
		{"while", While},
		{"nil", Nil},
		{"true", True},
		{"false", False},
	}

	for _, tt := range tests {
		got, ok := Keywords[tt.lexeme]
		if !ok {
			t.Errorf("Keywords[%q] missing", tt.lexeme)
			continue
		}
		if got != tt.want {
			t.Errorf("Keywords[%q] = %v, want %v", tt.lexeme, got, tt.want)
		}
	}

	if _, ok := Keywords["myVar"]; ok {
		t.Errorf("Keywords[%q] should not be present", "myVar")
	}
}

func TestKindString(t *testing.T) {
	if got, want := Plus.String(), "Plus"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Kind(999).String(); got != "Kind(999)" {
		t.Errorf("String() for unknown kind = %q, want %q", got, "Kind(999)")
	}
}
