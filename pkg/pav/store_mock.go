package pav

import "github.com/stretchr/testify/mock"

type Mock_BallotStore struct {
	mock.Mock
}

func (m *Mock_BallotStore) Close() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_BallotStore) Insert(ballot Ballot) (BallotID, error) {
	ret := m.Called(ballot)

	var r0 BallotID
	if rf, ok := ret.Get(0).(func(ballot Ballot) BallotID); ok {
		r0 = rf(ballot)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(BallotID)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ballot Ballot) error); ok {
		r1 = rf(ballot)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_BallotStore) Remove(id BallotID) error {
	ret := m.Called(id)

	var r0 error
	if rf, ok := ret.Get(0).(func(id BallotID) error); ok {
		r0 = rf(id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_BallotStore) RemoveByValue(ballot Ballot) error {
	ret := m.Called(ballot)

	var r0 error
	if rf, ok := ret.Get(0).(func(ballot Ballot) error); ok {
		r0 = rf(ballot)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_BallotStore) Snapshot() ([]Entry, error) {
	ret := m.Called()

	var r0 []Entry
	if rf, ok := ret.Get(0).(func() []Entry); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]Entry)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func() error); ok {
		r1 = rf()
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_BallotStore) Len() (int, error) {
	ret := m.Called()

	var r0 int
	if rf, ok := ret.Get(0).(func() int); ok {
		r0 = rf()
	} else {
		r0 = ret.Int(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func() error); ok {
		r1 = rf()
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_BallotStore) Reset() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
