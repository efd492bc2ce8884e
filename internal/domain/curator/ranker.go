package curator

import (
	"sort"
	"strings"
)

const (
	maxRanked = 8

	genreWeight = 0.75
	yearWeight  = 0.25

	// Penalty delta applied when either release year is unknown; yields a
	// year score of roughly 0.23 so such candidates sort behind
	// contemporaneous ones without being excluded.
	unknownYearDelta = 10
)

// Rank scores candidates against the reference and returns the top matches
// in descending score order. The reference itself is excluded and ties keep
// the original candidate order. Genre overlap dominates the composite score;
// year proximity softly biases toward contemporaneous works without hard
// excluding classics.
func Rank(reference MediaItem, candidates []MediaItem) []RankedCandidate {
	refGenres := genreSet(reference.Genres)

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == reference.ID {
			continue
		}
		genreScore := jaccard(refGenres, genreSet(candidate.Genres))
		yearScore := yearProximity(reference.Year, candidate.Year)
		ranked = append(ranked, RankedCandidate{
			Item:  candidate,
			Score: genreWeight*genreScore + yearWeight*yearScore,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > maxRanked {
		ranked = ranked[:maxRanked]
	}
	return ranked
}

// Items strips scores off a ranked sequence.
func Items(ranked []RankedCandidate) []MediaItem {
	items := make([]MediaItem, 0, len(ranked))
	for _, rc := range ranked {
		items = append(items, rc.Item)
	}
	return items
}

func genreSet(genres []string) map[string]struct{} {
	set := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		set[strings.ToLower(g)] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	union := len(b)
	inter := 0
	for g := range a {
		if _, ok := b[g]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func yearProximity(refYear, candidateYear int) float64 {
	delta := unknownYearDelta
	if refYear != 0 && candidateYear != 0 {
		delta = refYear - candidateYear
		if delta < 0 {
			delta = -delta
		}
	}
	return 1 / (1 + float64(delta)/3)
}
