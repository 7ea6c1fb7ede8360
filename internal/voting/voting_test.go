package voting_test

import (
	"testing"

	"github.com/cafebazaar/pav/internal/voting"
	"github.com/cafebazaar/pav/pkg/pav"
	"github.com/stretchr/testify/suite"
)

type VotingTestSuite struct {
	suite.Suite
}

func TestVotingTestSuite(t *testing.T) {
	suite.Run(t, new(VotingTestSuite))
}

func (s *VotingTestSuite) TestShouldHaveNoGroupsInitially() {
	s.Empty(voting.New().Groups())
}

func (s *VotingTestSuite) TestShouldHaveGroupAfterAddingItem() {
	v := voting.New()
	v.Add(0, pav.Committee{"A"})
	s.Equal(map[float64][]pav.Committee{0: {{"A"}}}, v.Groups())
}

func (s *VotingTestSuite) TestRankedShouldReturnEmptyWhenEmpty() {
	s.Empty(voting.New().Ranked())
}

func (s *VotingTestSuite) TestAddShouldGroupByExactScore() {
	v := voting.New()
	v.Add(1.5, pav.Committee{"A", "B"})
	v.Add(1.5, pav.Committee{"A", "C"})
	v.Add(2, pav.Committee{"B", "C"})

	groups := v.Groups()
	s.Len(groups, 2)
	s.ElementsMatch([]pav.Committee{{"A", "B"}, {"A", "C"}}, groups[1.5])
	s.ElementsMatch([]pav.Committee{{"B", "C"}}, groups[2])
}

func (s *VotingTestSuite) TestRankedShouldSortByScoreDescending() {
	v := voting.New()
	v.Add(1, pav.Committee{"A"})
	v.Add(3, pav.Committee{"B"})
	v.Add(2, pav.Committee{"C"})

	s.Equal([]pav.CommitteeScore{
		{Committee: pav.Committee{"B"}, Score: 3},
		{Committee: pav.Committee{"C"}, Score: 2},
		{Committee: pav.Committee{"A"}, Score: 1},
	}, v.Ranked())
}

func (s *VotingTestSuite) TestRankedShouldBreakTiesLexicographically() {
	v := voting.New()
	v.Add(1, pav.Committee{"B", "C"})
	v.Add(1, pav.Committee{"A", "X"})
	v.Add(1, pav.Committee{"A", "C"})

	s.Equal([]pav.CommitteeScore{
		{Committee: pav.Committee{"A", "C"}, Score: 1},
		{Committee: pav.Committee{"A", "X"}, Score: 1},
		{Committee: pav.Committee{"B", "C"}, Score: 1},
	}, v.Ranked())
}

func (s *VotingTestSuite) TestMergeShouldNotDependOnOrder() {
	left := voting.New()
	left.Add(1, pav.Committee{"B"})
	left.Add(2, pav.Committee{"D"})

	right := voting.New()
	right.Add(1, pav.Committee{"A"})
	right.Add(2, pav.Committee{"C"})

	forward := voting.New()
	forward.Merge(left)
	forward.Merge(right)

	backward := voting.New()
	backward.Merge(right)
	backward.Merge(left)

	s.Equal(forward.Ranked(), backward.Ranked())
	s.Len(forward.Ranked(), 4)
	s.Equal(pav.Committee{"C"}, forward.Ranked()[0].Committee)
}
