package match

import (
	"reflect"
	"testing"
)

func TestSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"abbreviation does not match expansion", "JEI", "Just Enough Items", false},
		{"suffix noise stripped", "Sodium Extra", "sodium-extra-fabric", true},
		{"identical", "Lithium", "Lithium", true},
		{"case and punctuation", "Iris Shaders", "iris-shaders", true},
		{"loader token ignored", "Sodium", "Sodium (Fabric)", true},
		{"plural containment", "Iron Chest", "Iron Chests", true},
		{"subset containment", "Create", "Create Crafts & Additions", true},
		{"unrelated", "Lithium", "Botania", false},
		{"mostly disjoint", "Applied Energistics 2", "Ender Storage", false},
		{"only stop words falls back to substring", "Forge API", "forgeapi", true},
		{"empty names never match", "", "Lithium", false},
		{"both empty never match", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similar(tt.a, tt.b); got != tt.want {
				t.Errorf("Similar(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// The decision must not depend on argument order.
			if got := Similar(tt.b, tt.a); got != tt.want {
				t.Errorf("Similar(%q, %q) = %v, want %v (order flipped)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"strips stop words and short tokens", "Just Enough Items Mod", []string{"just", "enough", "items"}},
		{"splits punctuation", "sodium-extra-fabric", []string{"sodium", "extra"}},
		{"drops two-char tokens", "AE 2 Things", []string{"things"}},
		{"only domain noise is stripped", "The Forge API Mod", []string{"the"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func BenchmarkSimilar(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Similar("Applied Energistics 2", "applied-energistics-2-fabric")
	}
}
