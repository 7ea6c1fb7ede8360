package redis

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/cafebazaar/pav/pkg/pav"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
)

// redisStore keeps ballots in a hash (id -> signature) and one list of ids per
// signature, so that removal by value pops the most recent match.
type redisStore struct {
	client *redis.Client
	prefix string
	mutex  sync.Mutex
}

func New(client *redis.Client, prefix string) pav.BallotStore {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (r *redisStore) Insert(ballot pav.Ballot) (pav.BallotID, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.client == nil {
		return 0, pav.ErrClosed
	}

	counter, err := r.client.Incr(r.counterKey()).Result()
	if err != nil {
		return 0, err
	}

	id := pav.BallotID(counter - 1)
	signature := ballot.Signature()

	var added *redis.BoolCmd
	var pushed *redis.IntCmd
	_, err = r.client.TxPipelined(func(pipe redis.Pipeliner) error {
		added = pipe.HSetNX(r.ballotsKey(), formatID(id), signature)
		pushed = pipe.RPush(r.signatureKey(signature), formatID(id))
		pipe.SAdd(r.signaturesKey(), signature)
		return nil
	})

	if err == nil && !added.Val() {
		err = fmt.Errorf("%w: ballot id %d already assigned", pav.ErrInvariantViolation, id)
	}

	if err != nil {
		r.rollback(func(pipe redis.Pipeliner) {
			if added.Err() == nil && added.Val() {
				pipe.HDel(r.ballotsKey(), formatID(id))
			}
			if pushed.Err() == nil {
				pipe.LRem(r.signatureKey(signature), -1, formatID(id))
			}
		})

		return 0, err
	}

	return id, nil
}

func (r *redisStore) Remove(id pav.BallotID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.client == nil {
		return pav.ErrClosed
	}

	signature, err := r.client.HGet(r.ballotsKey(), formatID(id)).Result()
	if err == redis.Nil {
		return fmt.Errorf("%w: ballot %d", pav.ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	return r.unlink(id, signature)
}

func (r *redisStore) RemoveByValue(ballot pav.Ballot) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.client == nil {
		return pav.ErrClosed
	}

	signature := ballot.Signature()
	rawID, err := r.client.LIndex(r.signatureKey(signature), -1).Result()
	if err == redis.Nil {
		return fmt.Errorf("%w: ballot %v", pav.ErrNotFound, ballot)
	}
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed ballot id %q: %v", rawID, err)
	}

	return r.unlink(pav.BallotID(id), signature)
}

// unlink drops a ballot and its index entry in one transaction. Redis does
// not roll back a failed EXEC, so whatever did apply is restored.
func (r *redisStore) unlink(id pav.BallotID, signature string) error {
	var deleted, unindexed *redis.IntCmd
	_, err := r.client.TxPipelined(func(pipe redis.Pipeliner) error {
		deleted = pipe.HDel(r.ballotsKey(), formatID(id))
		unindexed = pipe.LRem(r.signatureKey(signature), -1, formatID(id))
		return nil
	})
	if err == nil {
		return nil
	}

	r.rollback(func(pipe redis.Pipeliner) {
		if deleted.Err() == nil && deleted.Val() > 0 {
			pipe.HSet(r.ballotsKey(), formatID(id), signature)
		}
		if unindexed.Err() == nil && unindexed.Val() > 0 {
			pipe.RPush(r.signatureKey(signature), formatID(id))
		}
	})

	return err
}

func (r *redisStore) rollback(fn func(pipe redis.Pipeliner)) {
	_, err := r.client.TxPipelined(func(pipe redis.Pipeliner) error {
		fn(pipe)
		return nil
	})
	if err != nil {
		logrus.WithError(err).Error("unable to roll back partial ballot write")
	}
}

func (r *redisStore) Snapshot() ([]pav.Entry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.client == nil {
		return nil, pav.ErrClosed
	}

	raw, err := r.client.HGetAll(r.ballotsKey()).Result()
	if err != nil {
		return nil, err
	}

	result := make([]pav.Entry, 0, len(raw))
	for rawID, signature := range raw {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed ballot id %q: %v", rawID, err)
		}

		ballot, err := pav.ParseSignature(signature)
		if err != nil {
			return nil, fmt.Errorf("malformed ballot %d: %v", id, err)
		}

		result = append(result, pav.Entry{ID: pav.BallotID(id), Ballot: ballot})
	}

	// Identities grow monotonically, so id order is insertion order.
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *redisStore) Len() (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.client == nil {
		return 0, pav.ErrClosed
	}

	n, err := r.client.HLen(r.ballotsKey()).Result()
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

func (r *redisStore) Reset() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.client == nil {
		return pav.ErrClosed
	}

	signatures, err := r.client.SMembers(r.signaturesKey()).Result()
	if err != nil {
		return err
	}

	keys := []string{r.counterKey(), r.ballotsKey(), r.signaturesKey()}
	for _, signature := range signatures {
		keys = append(keys, r.signatureKey(signature))
	}

	return r.client.Del(keys...).Err()
}

func (r *redisStore) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.client != nil {
		err := r.client.Close()
		r.client = nil

		return err
	}

	return nil
}

func (r *redisStore) counterKey() string {
	return r.prefix + ":counter"
}

func (r *redisStore) ballotsKey() string {
	return r.prefix + ":ballots"
}

func (r *redisStore) signaturesKey() string {
	return r.prefix + ":signatures"
}

func (r *redisStore) signatureKey(signature string) string {
	return r.prefix + ":signature:" + signature
}

func formatID(id pav.BallotID) string {
	return strconv.FormatInt(int64(id), 10)
}
