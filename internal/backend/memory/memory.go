package memory

import (
	"fmt"
	"sync"

	"github.com/cafebazaar/pav/pkg/pav"
)

type memoryStore struct {
	mutex       sync.RWMutex
	ballots     map[pav.BallotID]pav.Ballot
	order       []pav.BallotID
	bySignature map[string][]pav.BallotID
	counter     pav.BallotID
	closed      bool
}

func New() pav.BallotStore {
	result := &memoryStore{}
	result.resetWithoutLock()
	return result
}

func (m *memoryStore) Insert(ballot pav.Ballot) (pav.BallotID, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return 0, pav.ErrClosed
	}

	id := m.counter
	if _, ok := m.ballots[id]; ok {
		return 0, fmt.Errorf("%w: ballot id %d already assigned", pav.ErrInvariantViolation, id)
	}

	signature := ballot.Signature()
	m.ballots[id] = ballot
	m.order = append(m.order, id)
	m.bySignature[signature] = append(m.bySignature[signature], id)
	m.counter++

	return id, nil
}

func (m *memoryStore) Remove(id pav.BallotID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return pav.ErrClosed
	}

	ballot, ok := m.ballots[id]
	if !ok {
		return fmt.Errorf("%w: ballot %d", pav.ErrNotFound, id)
	}

	signature := ballot.Signature()
	m.bySignature[signature] = removeID(m.bySignature[signature], id)
	if len(m.bySignature[signature]) == 0 {
		delete(m.bySignature, signature)
	}

	m.deleteWithoutLock(id)
	return nil
}

func (m *memoryStore) RemoveByValue(ballot pav.Ballot) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return pav.ErrClosed
	}

	signature := ballot.Signature()
	ids := m.bySignature[signature]
	if len(ids) == 0 {
		return fmt.Errorf("%w: ballot %v", pav.ErrNotFound, ballot)
	}

	id := ids[len(ids)-1]
	if len(ids) == 1 {
		delete(m.bySignature, signature)
	} else {
		m.bySignature[signature] = ids[:len(ids)-1]
	}

	m.deleteWithoutLock(id)
	return nil
}

func (m *memoryStore) Snapshot() ([]pav.Entry, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.closed {
		return nil, pav.ErrClosed
	}

	result := make([]pav.Entry, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, pav.Entry{ID: id, Ballot: m.ballots[id]})
	}

	return result, nil
}

func (m *memoryStore) Len() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.closed {
		return 0, pav.ErrClosed
	}

	return len(m.ballots), nil
}

func (m *memoryStore) Reset() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return pav.ErrClosed
	}

	m.resetWithoutLock()
	return nil
}

func (m *memoryStore) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.closed = true
	m.ballots = nil
	m.order = nil
	m.bySignature = nil

	return nil
}

func (m *memoryStore) resetWithoutLock() {
	m.ballots = make(map[pav.BallotID]pav.Ballot)
	m.order = nil
	m.bySignature = make(map[string][]pav.BallotID)
	m.counter = 0
}

func (m *memoryStore) deleteWithoutLock(id pav.BallotID) {
	delete(m.ballots, id)
	m.order = removeID(m.order, id)
}

func removeID(ids []pav.BallotID, id pav.BallotID) []pav.BallotID {
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] == id {
			result := make([]pav.BallotID, 0, len(ids)-1)
			result = append(result, ids[:i]...)
			return append(result, ids[i+1:]...)
		}
	}

	return ids
}
