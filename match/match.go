package match

import "strings"

// overlapThreshold is the fraction of the larger token set that must
// cross-match for two names to be considered similar.
const overlapThreshold = 0.6

// minTokenLen is the shortest token kept after normalization.
const minTokenLen = 3

// stopWords are domain-generic tokens that carry no identity.
var stopWords = map[string]bool{
	"mod":        true,
	"fabric":     true,
	"forge":      true,
	"quilt":      true,
	"api":        true,
	"plugin":     true,
	"remastered": true,
	"support":    true,
	"vanilla":    true,
}

// Similar reports whether two free-text names plausibly refer to the same
// project.
//
// Each name is lower-cased, stripped of punctuation and stop words, and
// split into tokens of at least minTokenLen characters. If either side has
// no tokens left, the check falls back to substring containment on the
// punctuation-stripped full strings. Otherwise the names match when one
// token set is contained in the other (in either direction), or when the
// fraction of cross-matching tokens relative to the larger set reaches
// overlapThreshold.
func Similar(a, b string) bool {
	ta, tb := Tokens(a), Tokens(b)

	if len(ta) == 0 || len(tb) == 0 {
		fa, fb := flatten(a), flatten(b)
		if fa == "" || fb == "" {
			return false
		}
		return strings.Contains(fa, fb) || strings.Contains(fb, fa)
	}

	if contained(ta, tb) || contained(tb, ta) {
		return true
	}

	larger := ta
	smaller := tb
	if len(tb) > len(ta) {
		larger, smaller = tb, ta
	}
	matches := 0
	for _, tok := range larger {
		if hasMatch(tok, smaller) {
			matches++
		}
	}
	return float64(matches)/float64(len(larger)) >= overlapThreshold
}

// Tokens normalizes a name into its comparison tokens: lower-cased,
// punctuation split, stop words and short tokens dropped.
func Tokens(name string) []string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !isAlnum(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < minTokenLen || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// flatten lower-cases a name and removes everything except letters and
// digits, for the substring fallback.
func flatten(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// contained reports whether every token of xs matches some token of ys.
func contained(xs, ys []string) bool {
	for _, x := range xs {
		if !hasMatch(x, ys) {
			return false
		}
	}
	return true
}

// hasMatch reports whether tok is contained in, or contains, any of ys.
func hasMatch(tok string, ys []string) bool {
	for _, y := range ys {
		if strings.Contains(tok, y) || strings.Contains(y, tok) {
			return true
		}
	}
	return false
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
