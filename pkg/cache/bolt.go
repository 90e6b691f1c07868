package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/f1insight/frameforge/log"
	"github.com/f1insight/frameforge/pkg/model"
)

var framesBucketName = []byte("frameSequences")

// envelope is the persisted record. The embedded version lets the store
// reject data written by a different pipeline generation even if keys ever
// collide.
type envelope struct {
	Version   string               `json:"version"`
	WrittenAt time.Time            `json:"writtenAt"`
	Sequence  *model.FrameSequence `json:"sequence"`
}

// BoltStore is the durable artifact cache backed by a local bbolt file.
type BoltStore struct {
	db *bolt.DB
	l  *log.Logger
}

type BoltOption func(*BoltStore)

func WithLogger(arg *log.Logger) BoltOption {
	return func(s *BoltStore) {
		s.l = arg
	}
}

var _ Store = (*BoltStore)(nil)

func NewBoltStore(path string, opts ...BoltOption) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache db %s: %w", path, err)
	}
	ret := &BoltStore{db: db, l: log.Default().Named("cache")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret, nil
}

func entryKey(id model.SessionIdentity, version string) []byte {
	return []byte(id.Key() + "#" + version)
}

//nolint:whitespace // false positive
func (s *BoltStore) Get(
	_ context.Context, id model.SessionIdentity, version string,
) (Lookup, error) {
	var ret Lookup
	// a writable tx so a corrupt entry can be dropped in place
	err := s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(framesBucketName)
		if bkt == nil {
			return nil
		}
		key := entryKey(id, version)
		data := bkt.Get(key)
		if data == nil {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Version != version ||
			env.Sequence == nil {
			s.l.Warn("discarding unreadable cache entry",
				log.String("key", string(key)), log.ErrorField(err))
			ret.State = Corrupt
			return bkt.Delete(key)
		}
		ret = Lookup{State: Hit, Sequence: env.Sequence, WrittenAt: env.WrittenAt}
		return nil
	})
	if err != nil {
		return Lookup{}, fmt.Errorf("reading cache entry %s: %w", id.Key(), err)
	}
	s.l.Debug("cache lookup",
		log.String("key", id.Key()), log.String("state", ret.State.String()))
	return ret, nil
}

//nolint:whitespace // false positive
func (s *BoltStore) Put(
	_ context.Context, id model.SessionIdentity, version string,
	seq *model.FrameSequence,
) error {
	data, err := json.Marshal(envelope{
		Version:   version,
		WrittenAt: time.Now().UTC(),
		Sequence:  seq,
	})
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", id.Key(), err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(framesBucketName)
		if err != nil {
			return err
		}
		return bkt.Put(entryKey(id, version), data)
	})
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", id.Key(), err)
	}
	s.l.Info("cache entry written",
		log.String("key", id.Key()), log.String("version", version),
		log.Int("frames", len(seq.Frames)))
	return nil
}

func (s *BoltStore) Invalidate(_ context.Context, id model.SessionIdentity) error {
	prefix := []byte(id.Key() + "#")
	err := s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(framesBucketName)
		if bkt == nil {
			return nil
		}
		c := bkt.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidating cache entries %s: %w", id.Key(), err)
	}
	s.l.Info("cache invalidated", log.String("key", id.Key()))
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
