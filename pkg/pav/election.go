package pav

import (
	"context"
)

// ElectionConfig is what rule to apply. Eligible nil means unrestricted.
type ElectionConfig struct {
	CommitteeSize int
	Method        Method
	Eligible      []Candidate
}

type Engine interface {
	Compute(ctx context.Context, ballots []Entry, config ElectionConfig) ([]CommitteeScore, error)
}
