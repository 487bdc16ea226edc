package rules

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/panyam/aescript/decl"
)

// normalizeLiteral folds a dropdown literal so "Normal", " normal" and
// "Nörmal" compare equal. Transformers are stateful, so they are built
// per call.
func normalizeLiteral(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// normalizeValue renders a known scalar for enum comparison.
func normalizeValue(v decl.Value) (string, bool) {
	switch val := v.Value.(type) {
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case string:
		return normalizeLiteral(val), true
	case bool:
		return strconv.FormatBool(val), true
	}
	return "", false
}
