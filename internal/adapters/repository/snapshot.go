package repository

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/okian/combine/internal/adapters/dataset"
	"github.com/okian/combine/internal/domain/identity"
	"github.com/okian/combine/internal/domain/model"
	"github.com/okian/combine/internal/domain/query"
	"github.com/okian/combine/pkg/metrics"
)

// Snapshot is the immutable dataset view shared by every request.
// Nothing in it is modified after publication; callers must not write to
// the slices it exposes.
type Snapshot struct {
	// Records is the full joined table in source order.
	Records []model.Record
	// Complete holds the records with every drill present, in source order.
	Complete []model.Record
	// Players are the display names eligible for comparison, sorted.
	Players []string
	// Positions are the distinct positions, sorted.
	Positions []string
	YearMin   int
	YearMax   int

	PlayersRead int
	Portraits   int
	LoadedAt    time.Time
	LoadTime    time.Duration

	eligible *identity.Index[int]
}

// Lookup resolves an eligible player by name, ignoring case and surrounding
// whitespace. The first complete record for the name wins.
func (s *Snapshot) Lookup(name string) (model.Record, error) {
	i, ok := s.eligible.Lookup(name)
	if !ok {
		metrics.RecordErrorByComponent("repository", "player_not_found")
		return model.Record{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return s.Complete[i], nil
}

// Count returns the number of records.
func (s *Snapshot) Count() int {
	return len(s.Records)
}

// Build derives a snapshot from a loaded dataset.
func Build(ds dataset.Dataset, loadedAt time.Time) *Snapshot {
	snap := &Snapshot{
		Records:     ds.Records,
		Positions:   query.Positions(ds.Records),
		PlayersRead: ds.Players,
		Portraits:   ds.Portraits,
		LoadedAt:    loadedAt,
		LoadTime:    ds.Duration,
	}
	snap.YearMin, snap.YearMax, _ = query.YearBounds(ds.Records)

	snap.Complete = make([]model.Record, 0, len(ds.Records))
	for i := range ds.Records {
		if ds.Records[i].Complete() {
			snap.Complete = append(snap.Complete, ds.Records[i])
		}
	}

	snap.eligible = identity.NewIndex[int](len(snap.Complete))
	snap.Players = make([]string, 0, len(snap.Complete))
	for i := range snap.Complete {
		if !snap.eligible.SeenAndRecord(snap.Complete[i].Player, i) {
			snap.Players = append(snap.Players, snap.Complete[i].Player)
		}
	}
	sort.Strings(snap.Players)
	return snap
}

// SnapshotStore keeps the snapshot behind an atomic pointer so reads never lock.
type SnapshotStore struct {
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.Publish.
func (s *SnapshotStore) Publish(ctx context.Context, ds dataset.Dataset) (*Snapshot, error) {
	snap := Build(ds, s.now())
	if !s.snapshot.CompareAndSwap(nil, snap) {
		metrics.RecordErrorByComponent("repository", "already_loaded")
		return nil, ErrAlreadyLoaded
	}

	metrics.UpdateDataset(len(snap.Records), snap.PlayersRead, snap.Portraits, len(snap.Players))
	metrics.RecordDatasetLoad(float64(ds.Duration)/float64(time.Millisecond), snap.LoadedAt.Unix())
	return snap, nil
}

// Snapshot implements Store.Snapshot.
func (s *SnapshotStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		metrics.RecordErrorByComponent("repository", "not_loaded")
		return nil, ErrNotLoaded
	}
	return snap, nil
}
