package game

import (
	"errors"
	"testing"
)

func TestNewCodeShape(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		code := NewCode()
		if len(code) != codeLength {
			t.Fatalf("expected %d characters, got %q", codeLength, code)
		}
		normalized, err := NormalizeCode(code)
		if err != nil || normalized != code {
			t.Fatalf("generated code must already be normalized: %q err=%v", code, err)
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("codes should vary, got %d distinct", len(seen))
	}
}

func TestNormalizeCode(t *testing.T) {
	got, err := NormalizeCode("  abcd2345 ")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "ABCD2345" {
		t.Fatalf("expected ABCD2345, got %q", got)
	}
	for _, bad := range []string{"", "short", "waytoolongcode"} {
		if _, err := NormalizeCode(bad); !errors.Is(err, ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", bad, err)
		}
	}
}
