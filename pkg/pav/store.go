package pav

// BallotStore owns cast ballots. Identities are never reused until Reset.
type BallotStore interface {
	Insert(ballot Ballot) (BallotID, error)
	Remove(id BallotID) error
	// RemoveByValue removes the most recently inserted ballot with the same
	// approval set.
	RemoveByValue(ballot Ballot) error
	// Snapshot returns a copy of the stored ballots in insertion order.
	Snapshot() ([]Entry, error)
	Len() (int, error)
	Reset() error
	Close() error
}
