package admin

import (
	"errors"
	"strings"
	"testing"
)

func TestGate(t *testing.T) {
	g, err := NewGate("s3cret")
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}

	tests := []struct {
		name string
		key  string
		ok   bool
	}{
		{"match", "s3cret", true},
		{"wrong", "s3cre", false},
		{"empty", "", false},
		{"case", "S3CRET", false},
		{"too long", strings.Repeat("x", 100), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Check(tt.key)
			if tt.ok && err != nil {
				t.Fatalf("Check(%q) = %v, want nil", tt.key, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("Check(%q) = %v, want ErrInvalidKey", tt.key, err)
			}
		})
	}
}

func TestGateDefaultKey(t *testing.T) {
	g, err := NewGate("")
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	if err := g.Check(DefaultKey); err != nil {
		t.Errorf("default key rejected: %v", err)
	}
}
