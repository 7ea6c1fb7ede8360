package pav

type Tally interface {
	Add(score float64, committee Committee)
	Merge(other Tally)
	Groups() map[float64][]Committee
	Ranked() []CommitteeScore
}

type TallyFactory func() Tally
