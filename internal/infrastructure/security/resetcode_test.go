package security

import (
	"strings"
	"testing"
)

func TestResetCodeGenerator_Length(t *testing.T) {
	t.Parallel()

	g := NewResetCodeGenerator()
	code, err := g.Generate()
	if err != nil {
		t.Fatalf("generate err: %v", err)
	}
	if len(code) != resetCodeLen {
		t.Fatalf("expected %d chars, got %d (%q)", resetCodeLen, len(code), code)
	}
}

func TestResetCodeGenerator_Alphabet(t *testing.T) {
	t.Parallel()

	g := NewResetCodeGenerator()
	for i := 0; i < 50; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("generate err: %v", err)
		}
		for _, r := range code {
			if !strings.ContainsRune(resetCodeAlphabet, r) {
				t.Fatalf("character %q outside alphabet in %q", r, code)
			}
		}
	}
}

func TestResetCodeGenerator_Freshness(t *testing.T) {
	t.Parallel()

	// 62^6 possibilities; 20 draws colliding would point at a broken source.
	g := NewResetCodeGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("generate err: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}
