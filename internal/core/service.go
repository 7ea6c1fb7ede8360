package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sirupsen/logrus"

	"github.com/cafebazaar/pav/internal/apportionment"
	"github.com/cafebazaar/pav/pkg/pav"
)

type coreService struct {
	store          pav.BallotStore
	engine         pav.Engine
	resolver       pav.MethodResolver
	config         pav.ElectionConfig
	computeTimeout time.Duration
}

type Option func(s *coreService)

func New(store pav.BallotStore,
	engine pav.Engine,
	options ...Option) pav.Service {

	defaultMethod, _ := apportionment.FromName(apportionment.DHondt)

	result := &coreService{
		store:    store,
		engine:   engine,
		resolver: apportionment.FromName,
		config: pav.ElectionConfig{
			CommitteeSize: 1,
			Method:        defaultMethod,
		},
	}

	for _, option := range options {
		option(result)
	}

	return result
}

func WithCommitteeSize(committeeSize int) Option {
	return func(s *coreService) {
		s.config.CommitteeSize = committeeSize
	}
}

func WithMethod(method pav.Method) Option {
	return func(s *coreService) {
		s.config.Method = method
	}
}

// WithEligibleCandidates restricts every election to the given candidates.
// A nil slice means unrestricted.
func WithEligibleCandidates(candidates []pav.Candidate) Option {
	return func(s *coreService) {
		if candidates == nil {
			s.config.Eligible = nil
			return
		}

		s.config.Eligible = append([]pav.Candidate{}, candidates...)
	}
}

func WithMethodResolver(resolver pav.MethodResolver) Option {
	return func(s *coreService) {
		s.resolver = resolver
	}
}

func WithComputeTimeout(timeout time.Duration) Option {
	return func(s *coreService) {
		s.computeTimeout = timeout
	}
}

func (s *coreService) Cast(ctx context.Context, request *pav.CastRequest) (*pav.CastResponse, error) {
	id, err := s.store.Insert(pav.NewBallot(request.Candidates...))
	if err != nil {
		return nil, s.convertErrorToGRPC(err)
	}

	return &pav.CastResponse{ID: id}, nil
}

func (s *coreService) Revoke(ctx context.Context, request *pav.RevokeRequest) error {
	return s.convertErrorToGRPC(s.store.Remove(request.ID))
}

func (s *coreService) RevokeBallot(ctx context.Context, request *pav.RevokeBallotRequest) error {
	return s.convertErrorToGRPC(s.store.RemoveByValue(pav.NewBallot(request.Candidates...)))
}

func (s *coreService) Result(ctx context.Context, request *pav.ResultRequest) (*pav.ResultResponse, error) {
	config, err := s.electionConfig(request)
	if err != nil {
		return nil, s.convertErrorToGRPC(err)
	}

	snapshot, err := s.store.Snapshot()
	if err != nil {
		logrus.WithError(err).Error("unable to take ballot snapshot")
		return nil, s.convertErrorToGRPC(err)
	}

	if s.computeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.computeTimeout)
		defer cancel()
	}

	committees, err := s.engine.Compute(ctx, snapshot, config)
	if err != nil {
		return nil, s.convertErrorToGRPC(err)
	}

	if request.Limit > 0 && len(committees) > request.Limit {
		committees = committees[:request.Limit]
	}

	return &pav.ResultResponse{Committees: committees}, nil
}

func (s *coreService) Count(ctx context.Context) (*pav.CountResponse, error) {
	n, err := s.store.Len()
	if err != nil {
		return nil, s.convertErrorToGRPC(err)
	}

	return &pav.CountResponse{Count: n}, nil
}

func (s *coreService) Flush(ctx context.Context) error {
	return s.convertErrorToGRPC(s.store.Reset())
}

func (s *coreService) Close() error {
	return s.store.Close()
}

func (s *coreService) electionConfig(request *pav.ResultRequest) (pav.ElectionConfig, error) {
	config := s.config

	if request.CommitteeSize != 0 {
		config.CommitteeSize = request.CommitteeSize
	}

	if request.Method != "" {
		method, err := s.resolver(request.Method)
		if err != nil {
			return config, err
		}

		config.Method = method
	}

	if request.Limit < 0 {
		return config, fmt.Errorf("%w: negative limit %d", pav.ErrInvalidArgument, request.Limit)
	}

	return config, nil
}

func (s *coreService) convertErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, pav.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, pav.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, pav.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())

	default:
		logrus.WithError(err).Error("unexpected election error")
		return status.Error(codes.Internal, err.Error())
	}
}
