package token

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var revokedBucket = []byte("revoked_tokens")

var _ Registry = (*BoltRegistry)(nil)

// BoltRegistry is a Registry backed by a bbolt file, so revocations
// survive a process restart. Entries are keyed by the SHA-256 fingerprint
// of the token; raw token strings never reach disk. Values hold the
// token's natural expiry as big-endian unix seconds.
type BoltRegistry struct {
	db      *bolt.DB
	nowFunc func() time.Time
}

func NewBoltRegistry(path string) (*BoltRegistry, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "NewBoltRegistry bolt.Open")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(revokedBucket)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "NewBoltRegistry create bucket")
	}
	return &BoltRegistry{db: db, nowFunc: time.Now}, nil
}

func (r *BoltRegistry) Close() error {
	return r.db.Close()
}

func (r *BoltRegistry) Add(token string, exp time.Time) error {
	key := fingerprint(token)
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(exp.Unix()))

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(revokedBucket)
		if bucket.Get(key) != nil {
			return nil
		}
		return bucket.Put(key, value)
	})
	return errors.Wrap(err, "BoltRegistry.Add")
}

func (r *BoltRegistry) IsRevoked(token string) bool {
	key := fingerprint(token)
	revoked := false

	_ = r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(revokedBucket)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}
		exp := time.Unix(int64(binary.BigEndian.Uint64(value)), 0)
		if r.nowFunc().After(exp) {
			return bucket.Delete(key)
		}
		revoked = true
		return nil
	})
	return revoked
}

func (r *BoltRegistry) Cleanup() {
	now := r.nowFunc()
	_ = r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(revokedBucket)
		cursor := bucket.Cursor()
		for key, value := cursor.First(); key != nil; key, value = cursor.Next() {
			exp := time.Unix(int64(binary.BigEndian.Uint64(value)), 0)
			if now.After(exp) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *BoltRegistry) Len() int {
	count := 0
	_ = r.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(revokedBucket).Stats().KeyN
		return nil
	})
	return count
}

func fingerprint(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}
