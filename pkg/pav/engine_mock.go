package pav

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Mock_Engine struct {
	mock.Mock
}

func (m *Mock_Engine) Compute(ctx context.Context, ballots []Entry, config ElectionConfig) ([]CommitteeScore, error) {
	ret := m.Called(ctx, ballots, config)

	var r0 []CommitteeScore
	if rf, ok := ret.Get(0).(func(ctx context.Context, ballots []Entry, config ElectionConfig) []CommitteeScore); ok {
		r0 = rf(ctx, ballots, config)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]CommitteeScore)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context, ballots []Entry, config ElectionConfig) error); ok {
		r1 = rf(ctx, ballots, config)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
