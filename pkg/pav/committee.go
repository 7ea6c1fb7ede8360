package pav

import (
	"strings"
)

// CommitteeSeparator joins candidate names in the textual form of a committee.
const CommitteeSeparator = ","

// Committee is a sorted tuple of distinct candidates.
type Committee []Candidate

// Less orders committees lexicographically by their candidate tuples.
func (c Committee) Less(other Committee) bool {
	for i := 0; i < len(c) && i < len(other); i++ {
		if c[i] != other[i] {
			return c[i] < other[i]
		}
	}

	return len(c) < len(other)
}

func (c Committee) String() string {
	return strings.Join(c, CommitteeSeparator)
}

// CommitteeScore is one row of an election result.
type CommitteeScore struct {
	Committee Committee
	Score     float64
}
