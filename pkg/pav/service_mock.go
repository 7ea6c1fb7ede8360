package pav

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Mock_Service struct {
	mock.Mock
}

func (m *Mock_Service) Close() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_Service) Cast(ctx context.Context, request *CastRequest) (*CastResponse, error) {
	ret := m.Called(ctx, request)

	var r0 *CastResponse
	if rf, ok := ret.Get(0).(func(ctx context.Context, request *CastRequest) *CastResponse); ok {
		r0 = rf(ctx, request)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*CastResponse)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context, request *CastRequest) error); ok {
		r1 = rf(ctx, request)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_Service) Revoke(ctx context.Context, request *RevokeRequest) error {
	ret := m.Called(ctx, request)

	var r0 error
	if rf, ok := ret.Get(0).(func(ctx context.Context, request *RevokeRequest) error); ok {
		r0 = rf(ctx, request)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_Service) RevokeBallot(ctx context.Context, request *RevokeBallotRequest) error {
	ret := m.Called(ctx, request)

	var r0 error
	if rf, ok := ret.Get(0).(func(ctx context.Context, request *RevokeBallotRequest) error); ok {
		r0 = rf(ctx, request)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_Service) Result(ctx context.Context, request *ResultRequest) (*ResultResponse, error) {
	ret := m.Called(ctx, request)

	var r0 *ResultResponse
	if rf, ok := ret.Get(0).(func(ctx context.Context, request *ResultRequest) *ResultResponse); ok {
		r0 = rf(ctx, request)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*ResultResponse)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context, request *ResultRequest) error); ok {
		r1 = rf(ctx, request)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_Service) Count(ctx context.Context) (*CountResponse, error) {
	ret := m.Called(ctx)

	var r0 *CountResponse
	if rf, ok := ret.Get(0).(func(ctx context.Context) *CountResponse); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*CountResponse)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_Service) Flush(ctx context.Context) error {
	ret := m.Called(ctx)

	var r0 error
	if rf, ok := ret.Get(0).(func(ctx context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
