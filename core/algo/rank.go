package algo

import (
	"sort"

	"github.com/huangsam/schoolfit/schema"
)

// RankScores assigns min-ranks by score descending: tied scores share the
// best rank and the next distinct score skips past all of them.
func RankScores(scores []float64) []int {
	n := len(scores)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	ranks := make([]int, n)
	for pos, i := range idx {
		if pos > 0 && scores[i] == scores[idx[pos-1]] {
			ranks[i] = ranks[idx[pos-1]]
			continue
		}
		ranks[i] = pos + 1
	}
	return ranks
}

// RankEntities sets Rank on every row and sorts rows by rank.
// Rows with the same rank keep their incoming order.
func RankEntities(rows []schema.ScoredEntity) []schema.ScoredEntity {
	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = r.Score
	}
	ranks := RankScores(scores)
	for i := range rows {
		rows[i].Rank = ranks[i]
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Rank < rows[j].Rank
	})
	return rows
}
