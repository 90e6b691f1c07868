package cache

import (
	"context"
	"time"

	"github.com/f1insight/frameforge/pkg/model"
)

type LookupState int

const (
	// Miss: no entry for the key.
	Miss LookupState = iota
	// Hit: a valid entry was found.
	Hit
	// Corrupt: an entry existed but could not be decoded. The store
	// discards it so the next Put starts clean; callers treat this like a
	// miss and recompute.
	Corrupt
)

func (s LookupState) String() string {
	switch s {
	case Hit:
		return "hit"
	case Corrupt:
		return "corrupt"
	default:
		return "miss"
	}
}

// Lookup is the explicit result of a cache read. Recomputation on miss is
// the caller's responsibility, the cache never triggers it.
type Lookup struct {
	State     LookupState
	Sequence  *model.FrameSequence
	WrittenAt time.Time
}

// Store persists assembled frame sequences keyed by session identity and
// processing version. Writes are last-writer-wins per key and atomic from a
// reader's perspective.
type Store interface {
	Get(ctx context.Context, id model.SessionIdentity, version string) (Lookup, error)
	Put(ctx context.Context, id model.SessionIdentity, version string,
		seq *model.FrameSequence) error
	// Invalidate removes all entries of the session regardless of version.
	Invalidate(ctx context.Context, id model.SessionIdentity) error
	Close() error
}
