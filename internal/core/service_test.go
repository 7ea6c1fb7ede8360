package core_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cafebazaar/pav/internal/apportionment"
	"github.com/cafebazaar/pav/internal/backend/memory"
	"github.com/cafebazaar/pav/internal/core"
	"github.com/cafebazaar/pav/internal/engine"
	"github.com/cafebazaar/pav/internal/voting"
	"github.com/cafebazaar/pav/pkg/pav"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	SNAPSHOT = []pav.Entry{
		{ID: 0, Ballot: pav.NewBallot("A", "B")},
		{ID: 1, Ballot: pav.NewBallot("B", "C")},
	}
	RANKED = []pav.CommitteeScore{
		{Committee: pav.Committee{"B"}, Score: 2},
		{Committee: pav.Committee{"A"}, Score: 1},
		{Committee: pav.Committee{"C"}, Score: 1},
	}
)

type CoreServiceTestSuite struct {
	suite.Suite

	store  *pav.Mock_BallotStore
	engine *pav.Mock_Engine
	core   pav.Service
}

func TestCoreServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CoreServiceTestSuite))
}

func (s *CoreServiceTestSuite) TestCastShouldInsertNormalizedBallot() {
	s.store.On("Insert", pav.NewBallot("A", "B")).Once().Return(pav.BallotID(3), nil)
	s.applyCore()

	response, err := s.core.Cast(context.Background(), &pav.CastRequest{
		Candidates: []pav.Candidate{"B", "A", "B"},
	})
	s.Nil(err)
	s.Equal(pav.BallotID(3), response.ID)
	s.store.AssertExpectations(s.T())
}

func (s *CoreServiceTestSuite) TestCastShouldReportInvariantViolationAsInternal() {
	s.store.On("Insert", mock.Anything).Once().
		Return(pav.BallotID(0), fmt.Errorf("%w: reused", pav.ErrInvariantViolation))
	s.applyCore()

	_, err := s.core.Cast(context.Background(), &pav.CastRequest{})
	s.Equal(codes.Internal, status.Code(err))
}

func (s *CoreServiceTestSuite) TestRevokeShouldConvertNotFound() {
	s.store.On("Remove", pav.BallotID(9)).Once().Return(fmt.Errorf("%w: ballot 9", pav.ErrNotFound))
	s.applyCore()

	err := s.core.Revoke(context.Background(), &pav.RevokeRequest{ID: 9})
	s.Equal(codes.NotFound, status.Code(err))
}

func (s *CoreServiceTestSuite) TestRevokeBallotShouldRemoveByValue() {
	s.store.On("RemoveByValue", pav.NewBallot("A", "C")).Once().Return(nil)
	s.applyCore()

	s.Nil(s.core.RevokeBallot(context.Background(), &pav.RevokeBallotRequest{
		Candidates: []pav.Candidate{"C", "A"},
	}))
	s.store.AssertExpectations(s.T())
}

func (s *CoreServiceTestSuite) TestResultShouldUseDefaultConfiguration() {
	s.store.On("Snapshot").Once().Return(SNAPSHOT, nil)
	s.engine.On("Compute", mock.Anything, SNAPSHOT, mock.MatchedBy(func(config pav.ElectionConfig) bool {
		return config.CommitteeSize == 1 &&
			config.Method.Name() == apportionment.DHondt &&
			config.Eligible == nil
	})).Once().Return(RANKED, nil)
	s.applyCore()

	response, err := s.core.Result(context.Background(), &pav.ResultRequest{})
	s.Nil(err)
	s.Equal(RANKED, response.Committees)
	s.engine.AssertExpectations(s.T())
}

func (s *CoreServiceTestSuite) TestResultShouldUseConfiguredElection() {
	method, err := apportionment.FromName(apportionment.SainteLague14)
	s.Require().Nil(err)

	s.store.On("Snapshot").Once().Return(SNAPSHOT, nil)
	s.engine.On("Compute", mock.Anything, SNAPSHOT, pav.ElectionConfig{
		CommitteeSize: 2,
		Method:        method,
		Eligible:      []pav.Candidate{"A", "B"},
	}).Once().Return(RANKED, nil)
	s.applyCore(
		core.WithCommitteeSize(2),
		core.WithMethod(method),
		core.WithEligibleCandidates([]pav.Candidate{"A", "B"}),
	)

	_, err = s.core.Result(context.Background(), &pav.ResultRequest{})
	s.Nil(err)
	s.engine.AssertExpectations(s.T())
}

func (s *CoreServiceTestSuite) TestResultShouldPreferRequestOverrides() {
	s.store.On("Snapshot").Once().Return(SNAPSHOT, nil)
	s.engine.On("Compute", mock.Anything, SNAPSHOT, mock.MatchedBy(func(config pav.ElectionConfig) bool {
		return config.CommitteeSize == 3 && config.Method.Name() == apportionment.SainteLague
	})).Once().Return(RANKED, nil)
	s.applyCore(core.WithCommitteeSize(2))

	_, err := s.core.Result(context.Background(), &pav.ResultRequest{
		CommitteeSize: 3,
		Method:        apportionment.SainteLague,
	})
	s.Nil(err)
	s.engine.AssertExpectations(s.T())
}

func (s *CoreServiceTestSuite) TestResultShouldRejectUnknownMethod() {
	s.applyCore()

	_, err := s.core.Result(context.Background(), &pav.ResultRequest{Method: "borda"})
	s.Equal(codes.InvalidArgument, status.Code(err))
	s.store.AssertNotCalled(s.T(), "Snapshot")
}

func (s *CoreServiceTestSuite) TestResultShouldResolveMethodThroughResolver() {
	flat := apportionment.Custom("flat", func(index int) float64 { return 1 })
	resolver := func(name string) (pav.Method, error) {
		if name == "flat" {
			return flat, nil
		}

		return nil, fmt.Errorf("%w: method %q", pav.ErrInvalidArgument, name)
	}

	s.store.On("Snapshot").Once().Return(SNAPSHOT, nil)
	s.engine.On("Compute", mock.Anything, SNAPSHOT, mock.MatchedBy(func(config pav.ElectionConfig) bool {
		return config.Method == flat
	})).Once().Return(RANKED, nil)
	s.applyCore(core.WithMethodResolver(resolver))

	_, err := s.core.Result(context.Background(), &pav.ResultRequest{Method: "flat"})
	s.Nil(err)
	s.engine.AssertExpectations(s.T())

	_, err = s.core.Result(context.Background(), &pav.ResultRequest{Method: apportionment.DHondt})
	s.Equal(codes.InvalidArgument, status.Code(err))
	s.store.AssertNumberOfCalls(s.T(), "Snapshot", 1)
}

func (s *CoreServiceTestSuite) TestResultShouldRejectNegativeLimit() {
	s.applyCore()

	_, err := s.core.Result(context.Background(), &pav.ResultRequest{Limit: -1})
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func (s *CoreServiceTestSuite) TestResultShouldTruncateToLimit() {
	s.store.On("Snapshot").Once().Return(SNAPSHOT, nil)
	s.engine.On("Compute", mock.Anything, mock.Anything, mock.Anything).Once().Return(RANKED, nil)
	s.applyCore()

	response, err := s.core.Result(context.Background(), &pav.ResultRequest{Limit: 2})
	s.Nil(err)
	s.Equal(RANKED[:2], response.Committees)
}

func (s *CoreServiceTestSuite) TestResultShouldConvertEngineErrors() {
	s.store.On("Snapshot").Return(SNAPSHOT, nil)
	s.applyCore()

	cases := map[error]codes.Code{
		fmt.Errorf("%w: size", pav.ErrInvalidArgument): codes.InvalidArgument,
		context.Canceled:         codes.Canceled,
		context.DeadlineExceeded: codes.DeadlineExceeded,
		errors.New("boom"):       codes.Internal,
	}

	for engineErr, code := range cases {
		s.engine = &pav.Mock_Engine{}
		s.engine.On("Compute", mock.Anything, mock.Anything, mock.Anything).Once().Return(nil, engineErr)
		s.applyCore()

		_, err := s.core.Result(context.Background(), &pav.ResultRequest{})
		s.Equal(code, status.Code(err), engineErr.Error())
	}
}

func (s *CoreServiceTestSuite) TestResultShouldApplyComputeTimeout() {
	s.store.On("Snapshot").Once().Return(SNAPSHOT, nil)
	s.engine.On("Compute", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything, mock.Anything).Once().Return(RANKED, nil)
	s.applyCore(core.WithComputeTimeout(time.Minute))

	_, err := s.core.Result(context.Background(), &pav.ResultRequest{})
	s.Nil(err)
	s.engine.AssertExpectations(s.T())
}

func (s *CoreServiceTestSuite) TestResultShouldNotComputeWhenSnapshotFails() {
	s.store.On("Snapshot").Once().Return(nil, pav.ErrClosed)
	s.applyCore()

	_, err := s.core.Result(context.Background(), &pav.ResultRequest{})
	s.Equal(codes.Unavailable, status.Code(err))
	s.engine.AssertNotCalled(s.T(), "Compute", mock.Anything, mock.Anything, mock.Anything)
}

func (s *CoreServiceTestSuite) TestCountShouldReturnStoreLength() {
	s.store.On("Len").Once().Return(5, nil)
	s.applyCore()

	response, err := s.core.Count(context.Background())
	s.Nil(err)
	s.Equal(5, response.Count)
}

func (s *CoreServiceTestSuite) TestFlushShouldResetStore() {
	s.store.On("Reset").Once().Return(nil)
	s.applyCore()

	s.Nil(s.core.Flush(context.Background()))
	s.store.AssertExpectations(s.T())
}

func (s *CoreServiceTestSuite) TestCloseShouldCloseStore() {
	s.store.On("Close").Once().Return(nil)
	s.applyCore()

	s.Nil(s.core.Close())
	s.store.AssertExpectations(s.T())
}

func (s *CoreServiceTestSuite) TestElectionRoundTrip() {
	method, err := apportionment.FromName(apportionment.SainteLague)
	s.Require().Nil(err)

	svc := core.New(memory.New(), engine.New(voting.New), core.WithCommitteeSize(3), core.WithMethod(method))
	defer svc.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Cast(ctx, &pav.CastRequest{Candidates: []pav.Candidate{"A", "B", "C"}})
		s.Nil(err)
		_, err = svc.Cast(ctx, &pav.CastRequest{Candidates: []pav.Candidate{"A", "B", "X"}})
		s.Nil(err)
	}

	before, err := svc.Result(ctx, &pav.ResultRequest{Limit: 2})
	s.Nil(err)
	s.Equal(pav.Committee{"A", "B", "C"}, before.Committees[0].Committee)
	s.Equal(pav.Committee{"A", "B", "X"}, before.Committees[1].Committee)

	cast, err := svc.Cast(ctx, &pav.CastRequest{Candidates: []pav.Candidate{"X", "Y", "Z"}})
	s.Nil(err)
	s.Equal(pav.BallotID(6), cast.ID)

	during, err := svc.Result(ctx, &pav.ResultRequest{Limit: 1})
	s.Nil(err)
	s.Equal(pav.Committee{"A", "B", "X"}, during.Committees[0].Committee)

	s.Nil(svc.RevokeBallot(ctx, &pav.RevokeBallotRequest{Candidates: []pav.Candidate{"Z", "Y", "X"}}))
	after, err := svc.Result(ctx, &pav.ResultRequest{Limit: 2})
	s.Nil(err)
	s.Equal(before, after)

	err = svc.Revoke(ctx, &pav.RevokeRequest{ID: cast.ID})
	s.Equal(codes.NotFound, status.Code(err))
}

func (s *CoreServiceTestSuite) applyCore(options ...core.Option) {
	s.core = core.New(s.store, s.engine, options...)
}

func (s *CoreServiceTestSuite) SetupSuite() {
	logrus.SetLevel(logrus.PanicLevel)
}

func (s *CoreServiceTestSuite) SetupTest() {
	s.store = &pav.Mock_BallotStore{}
	s.engine = &pav.Mock_Engine{}
}
