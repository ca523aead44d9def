// Package match scores snapshot nodes against a search term and selects the
// closest one.
package match

import (
	"strings"

	"github.com/mj1618/element-inspector/internal/model"
)

// Points awarded per rule. A node collects points from every rule it
// satisfies, so one attribute can contribute several times.
const (
	PointsExact          = 1000
	PointsIDNamespaced   = 900
	PointsIDPathSuffix   = 800
	PointsTextContains   = 500
	PointsDescContains   = 500
	PointsIDContains     = 400
	PointsClassContains  = 300
	PrefixWeightText     = 5
	PrefixWeightDesc     = 5
	PrefixWeightResource = 3
)

// Score rates how well n matches term. Comparisons are case-insensitive and
// the result is zero when nothing relates n to term.
func Score(n *model.Node, term string) int {
	search := strings.ToLower(strings.TrimSpace(term))
	if search == "" {
		return 0
	}

	text := strings.ToLower(n.Text())
	desc := strings.ToLower(n.ContentDesc())
	id := strings.ToLower(n.ResourceID())
	class := strings.ToLower(n.Class)

	score := 0

	if text == search {
		score += PointsExact
	}
	if desc == search {
		score += PointsExact
	}
	if id == search {
		score += PointsExact
	}
	if strings.HasSuffix(id, ":id/"+search) {
		score += PointsIDNamespaced
	}
	if strings.HasSuffix(id, "/"+search) {
		score += PointsIDPathSuffix
	}

	if strings.Contains(text, search) {
		score += PointsTextContains
	}
	if strings.Contains(desc, search) {
		score += PointsDescContains
	}
	if strings.Contains(id, search) {
		score += PointsIDContains
	}
	if strings.Contains(class, search) {
		score += PointsClassContains
	}

	score += PrefixRun(text, search) * PrefixWeightText
	score += PrefixRun(desc, search) * PrefixWeightDesc
	score += PrefixRun(id, search) * PrefixWeightResource

	return score
}

// PrefixRun counts the leading runes a and b share, stopping at the first
// mismatch. Either string being empty yields zero.
func PrefixRun(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	ar, br := []rune(a), []rune(b)
	n := len(ar)
	if len(br) < n {
		n = len(br)
	}
	for i := 0; i < n; i++ {
		if ar[i] != br[i] {
			return i
		}
	}
	return n
}
