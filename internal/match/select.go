package match

import (
	"sort"

	"github.com/mj1618/element-inspector/internal/model"
)

// Candidate is a node with a positive score. Order is the node's position in
// the canonical pre-order traversal.
type Candidate struct {
	Node  *model.Node
	Score int
	Order int
}

// Collect scores every node under root in canonical order and returns those
// with a positive score, in traversal order.
func Collect(root *model.Node, term string) []Candidate {
	var candidates []Candidate
	order := 0
	model.Walk(root, func(n *model.Node) bool {
		if s := Score(n, term); s > 0 {
			candidates = append(candidates, Candidate{Node: n, Score: s, Order: order})
		}
		order++
		return true
	})
	return candidates
}

// Best returns the highest-scoring node. Ties go to the node visited first.
// ok is false when no node scores above zero.
func Best(root *model.Node, term string) (best Candidate, ok bool) {
	for _, c := range Collect(root, term) {
		if !ok || c.Score > best.Score {
			best = c
			ok = true
		}
	}
	return best, ok
}

// Rank returns candidates by descending score, keeping traversal order among
// equal scores. A limit of zero or less returns all of them.
func Rank(root *model.Node, term string, limit int) []Candidate {
	candidates := Collect(root, term)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
