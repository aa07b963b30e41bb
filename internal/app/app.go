// Package app assembles the store, services and session cache from config.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/ZameerHP/clipscript/internal/activity"
	"github.com/ZameerHP/clipscript/internal/identity"
	"github.com/ZameerHP/clipscript/internal/ledger"
	"github.com/ZameerHP/clipscript/internal/library"
	"github.com/ZameerHP/clipscript/internal/session"
	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/internal/studio"
	"github.com/ZameerHP/clipscript/internal/users"
	"github.com/ZameerHP/clipscript/pkg/config"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	"github.com/ZameerHP/clipscript/pkg/logger"
	"github.com/ZameerHP/clipscript/pkg/metrics"
	"github.com/ZameerHP/clipscript/pkg/redis"
	"github.com/ZameerHP/clipscript/pkg/security"
)

// App holds every long-lived component of a running process.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	Store    *store.Store
	Recorder *activity.Recorder
	Ledger   ledger.Service
	Library  library.Service
	Users    users.Service
	Studio   *studio.Service
	Session  session.Cache
	// Google is nil unless client credentials are configured.
	Google *identity.GoogleProvider
}

// Option supplies collaborators that live outside this module.
type Option func(*studio.Params)

func WithGenerator(g studio.Generator) Option {
	return func(p *studio.Params) { p.Generator = g }
}

func WithSynthesizer(s studio.Synthesizer) Option {
	return func(p *studio.Params) { p.Synthesizer = s }
}

func WithPayments(c studio.PaymentCollector) Option {
	return func(p *studio.Params) { p.Payments = c }
}

// New opens the store (applying migrations) and the session cache, then
// wires the services over them. On error everything already opened is closed.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts ...Option) (a *App, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	reg := prometheus.NewRegistry()
	storeMetrics := metrics.NewStoreMetrics(reg)
	ledgerMetrics := metrics.NewLedgerMetrics(reg)

	a = &App{Config: cfg, Logger: logg, Registry: reg}
	defer func() {
		if err != nil {
			err = multierr.Append(err, a.Close())
			a = nil
		}
	}()

	a.Store = store.New(cfg.Store, logg, store.WithMetrics(storeMetrics))
	if err = a.Store.Open(ctx); err != nil {
		return a, err
	}

	if a.Session, err = openSession(ctx, cfg, logg); err != nil {
		return a, err
	}

	if a.Recorder, err = activity.NewRecorder(activity.NewRepository(a.Store), logg, ledgerMetrics); err != nil {
		return a, err
	}
	ledgerRepo := ledger.NewRepository(a.Store)
	if a.Ledger, err = ledger.NewService(a.Store, ledgerRepo, a.Recorder, ledgerMetrics, logg); err != nil {
		return a, err
	}
	if a.Library, err = library.NewService(a.Store, ledgerRepo, a.Recorder); err != nil {
		return a, err
	}
	a.Users, err = users.NewService(users.ServiceParams{
		Store:           a.Store,
		Repo:            users.NewRepository(a.Store),
		Recorder:        a.Recorder,
		Hasher:          security.NewHasher(cfg.Password),
		StartingCredits: int64(cfg.Ledger.StartingCredits),
		Logger:          logg,
	})
	if err != nil {
		return a, err
	}

	params := studio.Params{
		Ledger:         a.Ledger,
		Library:        a.Library,
		Recorder:       a.Recorder,
		GenerationCost: int64(cfg.Ledger.GenerationCost),
		SampleRate:     cfg.Audio.SampleRate,
		DefaultVoice:   cfg.Audio.DefaultVoice,
		Logger:         logg,
	}
	for _, opt := range opts {
		opt(&params)
	}
	if a.Studio, err = studio.New(params); err != nil {
		return a, err
	}

	if cfg.Google.Enabled() {
		if a.Google, err = identity.NewGoogle(cfg.Google); err != nil {
			return a, err
		}
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"driver":  cfg.Store.Driver,
		"session": cfg.Session.Backend,
	}), "studio ready")
	return a, nil
}

func openSession(ctx context.Context, cfg *config.Config, logg *logger.Logger) (session.Cache, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("session cache: %w", err)
		}
		cache, err := session.NewRedis(client, cfg.Session.Key)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return cache, nil
	case config.SessionBackendLocal, "":
		return session.NewLocal(ctx, cfg.Session.LocalDSN, cfg.Session.Key, logg)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// CurrentUser returns the signed-in user refreshed from the store, or nil.
func (a *App) CurrentUser(ctx context.Context) (*models.User, error) {
	return session.Rehydrate(ctx, a.Session, a.Users)
}

// Close releases the session cache and the store.
func (a *App) Close() error {
	var err error
	if a.Session != nil {
		err = multierr.Append(err, a.Session.Close())
	}
	if a.Store != nil {
		err = multierr.Append(err, a.Store.Close())
	}
	return err
}
