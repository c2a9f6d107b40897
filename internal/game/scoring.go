package game

import (
	"math"
	"sort"
)

// computeResults ranks a round's submissions and applies the earned points
// to the submitting players' cumulative scores. Ordering is a stable sort by
// confidence descending, so ties keep submission order and the output is
// deterministic for a given input.
//
// points = floor(rankWeight * (n - rank + 1) / n + confidenceWeight * confidence)
func computeResults(subs []*submission, players []*playerState, rankWeight, confidenceWeight float64) []ResultEntry {
	ranked := append([]*submission(nil), subs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].confidence > ranked[j].confidence
	})

	n := len(ranked)
	results := make([]ResultEntry, 0, n)
	for i, sub := range ranked {
		var ps *playerState
		for _, candidate := range players {
			if candidate.player.ID() == sub.playerID {
				ps = candidate
				break
			}
		}
		if ps == nil {
			// Submitter left before resolution; nobody to credit.
			continue
		}

		rank := i + 1
		points := int(math.Floor(rankWeight*float64(n-rank+1)/float64(n) + confidenceWeight*sub.confidence))
		ps.score += points

		results = append(results, ResultEntry{
			PlayerID:   sub.playerID,
			Name:       ps.player.Name(),
			Word:       sub.word,
			Match:      sub.closestMatch,
			Confidence: sub.confidence,
			Rank:       rank,
			Points:     points,
			Score:      ps.score,
		})
	}
	return results
}
