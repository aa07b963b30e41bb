package ledger

import (
	"context"
	"fmt"

	"github.com/ZameerHP/clipscript/internal/activity"
	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/pkg/enums"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
	"github.com/ZameerHP/clipscript/pkg/logger"
	"github.com/ZameerHP/clipscript/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Service defines the credit balance and generation counter operations.
type Service interface {
	DebitCredits(ctx context.Context, userID string, amount int64) (int64, error)
	AddCredits(ctx context.Context, userID string, purchase Purchase) (int64, error)
	IncrementGenerationCount(ctx context.Context, userID string) (int64, error)
	Balance(ctx context.Context, userID string) (int64, error)
}

// Purchase captures a completed credit purchase.
type Purchase struct {
	ExternalRef string
	Price       decimal.Decimal
	Credits     int64
	Package     string
}

type service struct {
	store    *store.Store
	repo     Repository
	recorder *activity.Recorder
	metrics  *metrics.LedgerMetrics
	logg     *logger.Logger
}

// NewService wires a ledger service. Balance changes and their PURCHASE log
// entries are written through s in one transaction.
func NewService(s *store.Store, repo Repository, recorder *activity.Recorder, m *metrics.LedgerMetrics, logg *logger.Logger) (Service, error) {
	if s == nil {
		return nil, fmt.Errorf("store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{store: s, repo: repo, recorder: recorder, metrics: m, logg: logg}, nil
}

func (s *service) DebitCredits(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "debit amount must be positive")
	}
	balance, err := s.repo.Debit(ctx, userID, amount)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeInsufficientCredits) {
			s.metrics.Insufficient()
		}
		return 0, err
	}
	s.metrics.Debited(amount)
	s.logg.Debug(s.logg.WithLedger(ctx, userID, -amount, balance), "credits debited")
	return balance, nil
}

func (s *service) AddCredits(ctx context.Context, userID string, purchase Purchase) (int64, error) {
	if purchase.Credits <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "purchased credits must be positive")
	}
	if purchase.Price.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	var balance int64
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		var err error
		balance, err = s.repo.WithTx(tx).Credit(ctx, userID, purchase.Credits)
		if err != nil {
			return err
		}
		return s.recorder.Append(ctx, tx, userID, enums.ActivityActionPurchase,
			fmt.Sprintf("Purchased %d credits.", purchase.Credits),
			activity.PurchaseMetadata{
				ExternalRef: purchase.ExternalRef,
				Price:       purchase.Price,
				Credits:     purchase.Credits,
				Package:     purchase.Package,
			})
	})
	if err != nil {
		return 0, err
	}

	s.metrics.Added(purchase.Credits, purchase.Package)
	ctx = s.logg.WithField(s.logg.WithLedger(ctx, userID, purchase.Credits, balance), "ref", purchase.ExternalRef)
	s.logg.Info(ctx, "credits purchased")
	return balance, nil
}

func (s *service) IncrementGenerationCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.IncrementGenerations(ctx, userID)
}

func (s *service) Balance(ctx context.Context, userID string) (int64, error) {
	return s.repo.Balance(ctx, userID)
}
