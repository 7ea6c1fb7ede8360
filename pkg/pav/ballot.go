package pav

import (
	"encoding/json"
	"sort"
	"strings"
)

// Candidate is an opaque, totally ordered candidate identifier.
type Candidate = string

// BallotID is the identity assigned to a ballot when it is cast.
type BallotID int64

// Ballot is an immutable, sorted and deduplicated set of approvals.
type Ballot struct {
	candidates []Candidate
}

// NewBallot builds a ballot from approvals in any order; duplicates collapse.
func NewBallot(candidates ...Candidate) Ballot {
	if len(candidates) == 0 {
		return Ballot{}
	}

	seen := make(map[Candidate]struct{}, len(candidates))
	result := make([]Candidate, 0, len(candidates))

	for _, candidate := range candidates {
		if _, ok := seen[candidate]; ok {
			continue
		}

		seen[candidate] = struct{}{}
		result = append(result, candidate)
	}

	sort.Strings(result)
	return Ballot{candidates: result}
}

// Candidates returns a copy of the approvals in ascending order.
func (b Ballot) Candidates() []Candidate {
	result := make([]Candidate, len(b.candidates))
	copy(result, b.candidates)
	return result
}

func (b Ballot) Len() int {
	return len(b.candidates)
}

func (b Ballot) Contains(candidate Candidate) bool {
	i := sort.SearchStrings(b.candidates, candidate)
	return i < len(b.candidates) && b.candidates[i] == candidate
}

// Signature is the canonical key of the approval set. Two ballots have the
// same signature iff they approve exactly the same candidates.
func (b Ballot) Signature() string {
	candidates := b.candidates
	if candidates == nil {
		candidates = []Candidate{}
	}

	// Marshalling a []string never fails.
	data, _ := json.Marshal(candidates)
	return string(data)
}

// ParseSignature is the inverse of Signature.
func ParseSignature(signature string) (Ballot, error) {
	var candidates []Candidate
	if err := json.Unmarshal([]byte(signature), &candidates); err != nil {
		return Ballot{}, err
	}

	return NewBallot(candidates...), nil
}

func (b Ballot) String() string {
	return "{" + strings.Join(b.candidates, ",") + "}"
}

// Entry is a stored ballot together with its identity.
type Entry struct {
	ID     BallotID
	Ballot Ballot
}
