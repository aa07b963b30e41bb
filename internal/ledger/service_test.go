package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/ZameerHP/clipscript/internal/activity"
	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/internal/store/storetest"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	"github.com/ZameerHP/clipscript/pkg/enums"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
	"github.com/ZameerHP/clipscript/pkg/logger"
	"github.com/ZameerHP/clipscript/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *store.Store
	svc      Service
	recorder *activity.Recorder
	reg      *prometheus.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s := storetest.New(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewLedgerMetrics(reg)
	rec, err := activity.NewRecorder(activity.NewRepository(s), logger.Nop(), m)
	require.NoError(t, err)
	svc, err := NewService(s, NewRepository(s), rec, m, logger.Nop())
	require.NoError(t, err)
	return fixture{store: s, svc: svc, recorder: rec, reg: reg}
}

func (f fixture) user(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := store.Get[models.User](context.Background(), f.store, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func TestDebitCredits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.SeedUser(t, f.store, "u1", 10)

	balance, err := f.svc.DebitCredits(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), balance)
	assert.Equal(t, int64(9), f.user(t, "u1").Credits)

	balance, err = f.svc.DebitCredits(ctx, "u1", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestDebitCreditsInsufficientLeavesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.SeedUser(t, f.store, "u1", 0)

	_, err := f.svc.DebitCredits(ctx, "u1", 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientCredits, pkgerrors.CodeOf(err))
	assert.Equal(t, "Insufficient credits.", pkgerrors.UserMessage(err))
	assert.Equal(t, int64(0), f.user(t, "u1").Credits)

	storetest.SeedUser(t, f.store, "u2", 3)
	_, err = f.svc.DebitCredits(ctx, "u2", 4)
	assert.Equal(t, pkgerrors.CodeInsufficientCredits, pkgerrors.CodeOf(err))
	assert.Equal(t, int64(3), f.user(t, "u2").Credits)
}

func TestDebitCreditsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.SeedUser(t, f.store, "u1", 10)

	for _, amount := range []int64{0, -1} {
		_, err := f.svc.DebitCredits(ctx, "u1", amount)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	}
	assert.Equal(t, int64(10), f.user(t, "u1").Credits)

	_, err := f.svc.DebitCredits(ctx, "ghost", 1)
	assert.Equal(t, pkgerrors.CodeUserNotFound, pkgerrors.CodeOf(err))
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.SeedUser(t, f.store, "u1", 10)

	const workers = 25
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok           int
		insufficient int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.DebitCredits(ctx, "u1", 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case pkgerrors.HasCode(err, pkgerrors.CodeInsufficientCredits):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, insufficient)
	assert.Equal(t, int64(0), f.user(t, "u1").Credits)
}

func TestAddCreditsLogsPurchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.SeedUser(t, f.store, "u1", 10)

	balance, err := f.svc.AddCredits(ctx, "u1", Purchase{
		ExternalRef: "ch_abc",
		Price:       decimal.NewFromInt(15),
		Credits:     200,
		Package:     "Producer",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(210), balance)

	entries, err := f.recorder.List(ctx, "u1", enums.ActivityActionPurchase)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Purchased 200 credits.", entries[0].Details)
	meta, ok := entries[0].Metadata.(activity.PurchaseMetadata)
	require.True(t, ok)
	assert.Equal(t, "ch_abc", meta.ExternalRef)
	assert.Equal(t, int64(200), meta.Credits)
	assert.Equal(t, "Producer", meta.Package)
	assert.True(t, meta.Price.Equal(decimal.NewFromInt(15)))
}

func TestAddCreditsFailuresWriteNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.SeedUser(t, f.store, "u1", 10)

	_, err := f.svc.AddCredits(ctx, "u1", Purchase{Credits: 0})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = f.svc.AddCredits(ctx, "u1", Purchase{Credits: 5, Price: decimal.NewFromInt(-1)})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = f.svc.AddCredits(ctx, "ghost", Purchase{Credits: 50, Price: decimal.NewFromInt(5)})
	assert.Equal(t, pkgerrors.CodeUserNotFound, pkgerrors.CodeOf(err))

	assert.Equal(t, int64(10), f.user(t, "u1").Credits)
	entries, err := f.recorder.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIncrementGenerationCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.SeedUser(t, f.store, "u1", 10)

	for want := int64(1); want <= 3; want++ {
		got, err := f.svc.IncrementGenerationCount(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := f.svc.IncrementGenerationCount(ctx, "ghost")
	assert.Equal(t, pkgerrors.CodeUserNotFound, pkgerrors.CodeOf(err))

	balance, err := f.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
	_, err = f.svc.Balance(ctx, "ghost")
	assert.Equal(t, pkgerrors.CodeUserNotFound, pkgerrors.CodeOf(err))
}

func TestMetricsTrackMovements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	storetest.SeedUser(t, f.store, "u1", 1)

	_, err := f.svc.DebitCredits(ctx, "u1", 1)
	require.NoError(t, err)
	_, err = f.svc.DebitCredits(ctx, "u1", 1)
	require.Error(t, err)
	_, err = f.svc.AddCredits(ctx, "u1", Purchase{Credits: 50, Price: decimal.NewFromInt(5), Package: "Starter"})
	require.NoError(t, err)

	samples, err := metrics.Snapshot(f.reg)
	require.NoError(t, err)
	got := map[string]float64{}
	for _, s := range samples {
		got[s.Name] += s.Value
	}
	assert.Equal(t, float64(1), got["ledger_credits_debited_total"])
	assert.Equal(t, float64(1), got["ledger_insufficient_credits_total"])
	assert.Equal(t, float64(50), got["ledger_credits_added_total"])
	assert.Equal(t, float64(1), got["ledger_purchases_total"])
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	s := storetest.New(t)
	rec, err := activity.NewRecorder(activity.NewRepository(s), nil, nil)
	require.NoError(t, err)

	_, err = NewService(nil, NewRepository(s), rec, nil, nil)
	assert.Error(t, err)
	_, err = NewService(s, nil, rec, nil, nil)
	assert.Error(t, err)
	_, err = NewService(s, NewRepository(s), nil, nil, nil)
	assert.Error(t, err)
}
