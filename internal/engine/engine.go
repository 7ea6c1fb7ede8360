package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/cafebazaar/pav/pkg/pav"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/combin"
)

const (
	defaultBatchSize = 256
)

type electionEngine struct {
	tallyFactory pav.TallyFactory
	workers      int
	batchSize    int
}

type Option func(e *electionEngine)

func New(tallyFactory pav.TallyFactory, options ...Option) pav.Engine {
	result := &electionEngine{
		tallyFactory: tallyFactory,
		workers:      runtime.NumCPU(),
		batchSize:    defaultBatchSize,
	}

	for _, option := range options {
		option(result)
	}

	return result
}

// WithWorkers sets the number of scoring goroutines. Values below one fall
// back to the number of CPUs.
func WithWorkers(workers int) Option {
	return func(e *electionEngine) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

func WithBatchSize(batchSize int) Option {
	return func(e *electionEngine) {
		if batchSize > 0 {
			e.batchSize = batchSize
		}
	}
}

// profile is a distinct ballot restricted to the candidate universe, with
// the number of ballots sharing it.
type profile struct {
	members []int
	count   int
}

type election struct {
	universe []pav.Candidate
	profiles []profile
	weights  []float64
	size     int
}

func (e *electionEngine) Compute(ctx context.Context,
	ballots []pav.Entry,
	config pav.ElectionConfig) ([]pav.CommitteeScore, error) {

	if config.CommitteeSize <= 0 {
		return nil, fmt.Errorf("%w: committee size must be positive, got %d",
			pav.ErrInvalidArgument, config.CommitteeSize)
	}

	if config.Method == nil {
		return nil, fmt.Errorf("%w: apportionment method is required", pav.ErrInvalidArgument)
	}

	universe := e.buildUniverse(ballots, config.Eligible)
	if config.CommitteeSize > len(universe) {
		return []pav.CommitteeScore{}, nil
	}

	weights, err := e.buildWeights(config.Method, config.CommitteeSize)
	if err != nil {
		return nil, err
	}

	el := &election{
		universe: universe,
		profiles: e.buildProfiles(ballots, universe),
		weights:  weights,
		size:     config.CommitteeSize,
	}

	logrus.WithFields(logrus.Fields{
		"ballots":       len(ballots),
		"candidates":    len(universe),
		"committeeSize": config.CommitteeSize,
		"method":        config.Method.Name(),
		"workers":       e.workers,
	}).Debug("computing election")

	tally, err := e.score(ctx, el)
	if err != nil {
		logrus.WithError(err).Warn("election computation aborted")
		return nil, err
	}

	return tally.Ranked(), nil
}

func (e *electionEngine) score(ctx context.Context, el *election) (pav.Tally, error) {
	var wg sync.WaitGroup
	batches := make(chan [][]int, e.workers)
	tallies := make(chan pav.Tally, e.workers)

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go e.performScoring(ctx, el, batches, tallies, &wg)
	}

	e.enumerate(ctx, len(el.universe), el.size, batches)
	wg.Wait()
	close(tallies)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := e.tallyFactory()
	for tally := range tallies {
		result.Merge(tally)
	}

	return result, nil
}

// enumerate sends every size-subset of [0, n) in lexicographic order, in
// batches, and closes the channel when done or cancelled.
func (e *electionEngine) enumerate(ctx context.Context, n, size int, batches chan<- [][]int) {
	defer close(batches)

	generator := combin.NewCombinationGenerator(n, size)
	batch := make([][]int, 0, e.batchSize)
	for generator.Next() {
		batch = append(batch, generator.Combination(nil))
		if len(batch) == e.batchSize {
			select {
			case batches <- batch:
			case <-ctx.Done():
				return
			}
			batch = make([][]int, 0, e.batchSize)
		}
	}

	if len(batch) > 0 {
		select {
		case batches <- batch:
		case <-ctx.Done():
		}
	}
}

func (e *electionEngine) performScoring(ctx context.Context,
	el *election,
	batches <-chan [][]int,
	tallies chan<- pav.Tally,
	wg *sync.WaitGroup) {

	defer wg.Done()

	tally := e.tallyFactory()
	inCommittee := make([]bool, len(el.universe))
	histogram := make([]int, el.size+1)

	for batch := range batches {
		if ctx.Err() != nil {
			continue
		}

		for _, combination := range batch {
			tally.Add(el.scoreCommittee(combination, inCommittee, histogram), el.committee(combination))
		}
	}

	tallies <- tally
}

// scoreCommittee sums n_k * v(k) over k, where n_k is the number of ballots
// sharing exactly k candidates with the committee.
func (el *election) scoreCommittee(combination []int, inCommittee []bool, histogram []int) float64 {
	for _, index := range combination {
		inCommittee[index] = true
	}

	for k := range histogram {
		histogram[k] = 0
	}

	for _, p := range el.profiles {
		overlap := 0
		for _, member := range p.members {
			if inCommittee[member] {
				overlap++
			}
		}

		histogram[overlap] += p.count
	}

	for _, index := range combination {
		inCommittee[index] = false
	}

	var score float64
	for k := 1; k <= el.size; k++ {
		score += float64(histogram[k]) * el.weights[k]
	}

	return score
}

func (el *election) committee(combination []int) pav.Committee {
	result := make(pav.Committee, len(combination))
	for i, index := range combination {
		result[i] = el.universe[index]
	}

	return result
}

func (e *electionEngine) buildUniverse(ballots []pav.Entry, eligible []pav.Candidate) []pav.Candidate {
	var allowed map[pav.Candidate]struct{}
	if eligible != nil {
		allowed = make(map[pav.Candidate]struct{}, len(eligible))
		for _, candidate := range eligible {
			allowed[candidate] = struct{}{}
		}
	}

	seen := make(map[pav.Candidate]struct{})
	var result []pav.Candidate

	for _, entry := range ballots {
		for _, candidate := range entry.Ballot.Candidates() {
			if _, ok := seen[candidate]; ok {
				continue
			}

			if allowed != nil {
				if _, ok := allowed[candidate]; !ok {
					continue
				}
			}

			seen[candidate] = struct{}{}
			result = append(result, candidate)
		}
	}

	sort.Strings(result)
	return result
}

func (e *electionEngine) buildWeights(method pav.Method, size int) ([]float64, error) {
	result := make([]float64, size+1)
	for k := range result {
		v, err := pav.V(method, k)
		if err != nil {
			return nil, err
		}

		result[k] = v
	}

	return result, nil
}

// buildProfiles maps ballots onto universe indices and collapses identical
// ones. Ballots sharing nothing with the universe never score and are dropped.
func (e *electionEngine) buildProfiles(ballots []pav.Entry, universe []pav.Candidate) []profile {
	indexOf := make(map[pav.Candidate]int, len(universe))
	for i, candidate := range universe {
		indexOf[candidate] = i
	}

	positions := make(map[string]int)
	var result []profile

	for _, entry := range ballots {
		var members []int
		for _, candidate := range entry.Ballot.Candidates() {
			if index, ok := indexOf[candidate]; ok {
				members = append(members, index)
			}
		}

		if len(members) == 0 {
			continue
		}

		key := fmt.Sprint(members)
		if position, ok := positions[key]; ok {
			result[position].count++
			continue
		}

		positions[key] = len(result)
		result = append(result, profile{members: members, count: 1})
	}

	return result
}
