package voting

import (
	"sort"

	"github.com/cafebazaar/pav/pkg/pav"
)

type voting struct {
	items map[float64]*voteItem
}

type voteItem struct {
	score      float64
	committees []pav.Committee
}

func New() pav.Tally {
	return &voting{items: make(map[float64]*voteItem)}
}

func (v *voting) Add(score float64, committee pav.Committee) {
	item, ok := v.items[score]
	if !ok {
		item = &voteItem{score: score}
		v.items[score] = item
	}

	item.committees = append(item.committees, committee)
}

func (v *voting) Merge(other pav.Tally) {
	for score, committees := range other.Groups() {
		for _, committee := range committees {
			v.Add(score, committee)
		}
	}
}

func (v *voting) Groups() map[float64][]pav.Committee {
	result := make(map[float64][]pav.Committee, len(v.items))
	for score, item := range v.items {
		result[score] = item.committees
	}

	return result
}

// Ranked orders committees by score descending, then by candidate tuple
// ascending.
func (v *voting) Ranked() []pav.CommitteeScore {
	items := make([]*voteItem, 0, len(v.items))
	total := 0
	for _, item := range v.items {
		items = append(items, item)
		total += len(item.committees)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	result := make([]pav.CommitteeScore, 0, total)
	for _, item := range items {
		committees := append([]pav.Committee(nil), item.committees...)
		sort.Slice(committees, func(i, j int) bool {
			return committees[i].Less(committees[j])
		})

		for _, committee := range committees {
			result = append(result, pav.CommitteeScore{
				Committee: committee,
				Score:     item.score,
			})
		}
	}

	return result
}
