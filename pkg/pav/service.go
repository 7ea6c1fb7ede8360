package pav

import (
	"context"
	"io"
)

type CastRequest struct {
	Candidates []Candidate
}

type CastResponse struct {
	ID BallotID
}

type RevokeRequest struct {
	ID BallotID
}

type RevokeBallotRequest struct {
	Candidates []Candidate
}

// ResultRequest zero values fall back to the service configuration.
type ResultRequest struct {
	CommitteeSize int
	Method        string
	Limit         int
}

type ResultResponse struct {
	Committees []CommitteeScore
}

type CountResponse struct {
	Count int
}

type Service interface {
	io.Closer

	Cast(ctx context.Context, request *CastRequest) (*CastResponse, error)
	Revoke(ctx context.Context, request *RevokeRequest) error
	RevokeBallot(ctx context.Context, request *RevokeBallotRequest) error
	Result(ctx context.Context, request *ResultRequest) (*ResultResponse, error)
	Count(ctx context.Context) (*CountResponse, error)
	Flush(ctx context.Context) error
}
