// Package encounterlog keeps a bounded, most-recent-first list of encounters
// persisted as a single JSON value in a store.Medium.
//
// The medium is the only copy of the list: every operation reads it, and
// writes replace it whole. A failed read or write therefore leaves the
// previously persisted list as the visible state.
package encounterlog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/medsentinel/encounter-log/internal/model"
	"github.com/medsentinel/encounter-log/internal/store"
)

const (
	DefaultKey      = "medsentinel_encounters"
	DefaultCapacity = 50
)

var (
	ErrStorageReadFailed  = goerr.New("storage read failed")
	ErrStorageWriteFailed = goerr.New("storage write failed")
	ErrNotFound           = goerr.New("encounter not found")
)

// Log is a capped encounter list over a Medium.
type Log struct {
	mu       sync.Mutex
	medium   store.Medium
	key      string
	capacity int
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithKey sets the medium key the list is stored under.
func WithKey(key string) Option {
	return func(l *Log) { l.key = key }
}

// WithCapacity sets the maximum number of retained records. Values below 1
// are ignored.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// WithClock sets the clock used to stamp records that have no CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New returns a Log over medium. The medium stays owned by the caller.
func New(medium store.Medium, opts ...Option) *Log {
	l := &Log{
		medium:   medium,
		key:      DefaultKey,
		capacity: DefaultCapacity,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Capacity returns the retention cap.
func (l *Log) Capacity() int { return l.capacity }

// Upsert stores rec. A record with the same ID is replaced in place;
// otherwise rec becomes the newest entry. The list is then cut to capacity
// and written back in one Set. If the medium cannot be read nothing is
// written and the error wraps ErrStorageReadFailed.
func (l *Log) Upsert(ctx context.Context, rec model.Encounter) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	list, err := l.load(ctx)
	if err != nil {
		return err
	}
	if i := indexOf(list, rec.ID); i >= 0 {
		list[i] = rec
	} else {
		list = append([]model.Encounter{rec}, list...)
	}

	if len(list) > l.capacity {
		for _, evicted := range list[l.capacity:] {
			l.logger.Debug("evicting encounter", "id", evicted.ID)
		}
		list = list[:l.capacity]
	}

	return l.write(ctx, list)
}

// ListAll returns the persisted list, newest first. Absent, unreadable, or
// malformed data yields an empty list.
func (l *Log) ListAll(ctx context.Context) []model.Encounter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(ctx)
}

// Get returns the record with the given id.
func (l *Log) Get(ctx context.Context, id string) (*model.Encounter, error) {
	list := l.ListAll(ctx)
	if i := indexOf(list, id); i >= 0 {
		return &list[i], nil
	}
	return nil, goerr.Wrap(ErrNotFound, "lookup", goerr.V("id", id))
}

// Clear removes every record. Clearing an empty log is a no-op.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.medium.Delete(ctx, l.key); err != nil {
		return goerr.Wrap(errors.Join(ErrStorageWriteFailed, err), "clear", goerr.V("key", l.key))
	}
	l.logger.Info("cleared encounter log", "key", l.key)
	return nil
}

func (l *Log) read(ctx context.Context) []model.Encounter {
	list, err := l.load(ctx)
	if err != nil {
		l.logger.Warn("failed to read encounter log", "key", l.key, "error", err)
		return []model.Encounter{}
	}
	return list
}

// load returns the persisted list. Only a medium failure is an error; absent
// or malformed data is an empty list.
func (l *Log) load(ctx context.Context) ([]model.Encounter, error) {
	data, ok, err := l.medium.Get(ctx, l.key)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(ErrStorageReadFailed, err), "load encounters", goerr.V("key", l.key))
	}
	if !ok {
		return []model.Encounter{}, nil
	}
	return l.decode(data), nil
}

func (l *Log) decode(data []byte) []model.Encounter {
	var list []model.Encounter
	if err := json.Unmarshal(data, &list); err != nil {
		l.logger.Warn("discarding malformed encounter log", "key", l.key, "error", err)
		return []model.Encounter{}
	}
	if list == nil {
		return []model.Encounter{}
	}
	return list
}

func (l *Log) write(ctx context.Context, list []model.Encounter) error {
	data, err := json.Marshal(list)
	if err != nil {
		return goerr.Wrap(errors.Join(ErrStorageWriteFailed, err), "encode encounters")
	}
	if err := l.medium.Set(ctx, l.key, data); err != nil {
		l.logger.Error("encounter log write rejected", "key", l.key, "bytes", len(data), "error", err)
		return goerr.Wrap(errors.Join(ErrStorageWriteFailed, err), "persist encounters", goerr.V("key", l.key))
	}
	return nil
}

func indexOf(list []model.Encounter, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
