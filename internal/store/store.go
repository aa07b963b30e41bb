package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZameerHP/clipscript/pkg/config"
	"github.com/ZameerHP/clipscript/pkg/db"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
	"github.com/ZameerHP/clipscript/pkg/logger"
	"github.com/ZameerHP/clipscript/pkg/metrics"
	"github.com/ZameerHP/clipscript/pkg/migrate"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Store is the structured local store. A Store returned by Tx is bound to
// that transaction; every other Store shares one lazily opened engine.
type Store struct {
	eng *engine
	tx  *gorm.DB
}

type engine struct {
	cfg     config.StoreConfig
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	group   singleflight.Group
	mu      sync.RWMutex
	client  *db.Client
	version int64
	closed  bool
}

// Option customizes a Store.
type Option func(*engine)

// WithMetrics records operation counts and latencies.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(e *engine) { e.metrics = m }
}

// New returns a store handle. Nothing is opened until Open or the first operation.
func New(cfg config.StoreConfig, logg *logger.Logger, opts ...Option) *Store {
	if logg == nil {
		logg = logger.Nop()
	}
	eng := &engine{cfg: cfg, logg: logg}
	for _, opt := range opts {
		opt(eng)
	}
	return &Store{eng: eng}
}

// Open initializes the engine and brings the schema to the latest version.
// It is idempotent; concurrent callers share a single attempt. A failed
// attempt is not cached, so a later call retries.
func (s *Store) Open(ctx context.Context) error {
	_, err := s.client(ctx)
	return err
}

func (s *Store) client(ctx context.Context) (*db.Client, error) {
	e := s.eng
	e.mu.RLock()
	client, closed := e.client, e.closed
	e.mu.RUnlock()
	if closed {
		return nil, pkgerrors.New(pkgerrors.CodeStorageUnavailable, "store is closed")
	}
	if client != nil {
		return client, nil
	}

	ch := e.group.DoChan("open", func() (any, error) {
		return e.open(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*db.Client), nil
	case <-ctx.Done():
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, ctx.Err(), "store open interrupted")
	}
}

func (e *engine) open(ctx context.Context) (*db.Client, error) {
	e.mu.RLock()
	if e.client != nil {
		client := e.client
		e.mu.RUnlock()
		return client, nil
	}
	e.mu.RUnlock()

	client, version, err := e.connect(ctx)
	e.metrics.ObserveOpen(err)
	if err != nil {
		e.logg.Error(ctx, "store open failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, err, "local store could not be opened")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		_ = client.Close()
		return nil, pkgerrors.New(pkgerrors.CodeStorageUnavailable, "store is closed")
	}
	e.client = client
	e.version = version

	e.logg.Info(e.logg.WithField(ctx, "schema_version", version), "store ready")
	return client, nil
}

func (e *engine) connect(ctx context.Context) (*db.Client, int64, error) {
	client, err := db.New(ctx, e.cfg, e.logg)
	if err != nil {
		return nil, 0, err
	}
	sqlDB, err := client.SQL()
	if err != nil {
		_ = client.Close()
		return nil, 0, fmt.Errorf("sql handle: %w", err)
	}
	version, err := migrate.Apply(ctx, sqlDB, client.Driver())
	if err != nil {
		_ = client.Close()
		return nil, 0, fmt.Errorf("applying schema: %w", err)
	}
	return client, version, nil
}

// SchemaVersion reports the applied schema version, or 0 before Open.
func (s *Store) SchemaVersion() int64 {
	s.eng.mu.RLock()
	defer s.eng.mu.RUnlock()
	return s.eng.version
}

// DB returns a context-bound connection, opening the store if needed. Inside
// Tx it returns the transaction.
func (s *Store) DB(ctx context.Context) (*gorm.DB, error) {
	if s.tx != nil {
		return s.tx.WithContext(ctx), nil
	}
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	return client.DB().WithContext(ctx), nil
}

// InTx reports whether the handle is bound to a transaction.
func (s *Store) InTx() bool {
	return s.tx != nil
}

// Tx runs fn in a single transaction. Every write fn performs through the
// provided Store commits together or not at all. Nested calls reuse the
// outer transaction.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	client, err := s.client(ctx)
	if err != nil {
		return err
	}
	err = client.WithTx(ctx, func(gtx *gorm.DB) error {
		return fn(&Store{eng: s.eng, tx: gtx})
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return Classify(err, "transaction")
	}
	return nil
}

// Close releases the engine. Later operations fail with StorageUnavailable.
func (s *Store) Close() error {
	e := s.eng
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

// Ping checks the engine is reachable.
func (s *Store) Ping(ctx context.Context) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx)
}

