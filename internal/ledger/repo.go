package ledger

import (
	"context"
	"fmt"

	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
)

// Repository applies balance and counter changes as single conditional
// statements, so concurrent callers never read-modify-write the same row.
type Repository interface {
	WithTx(tx *store.Store) Repository
	Debit(ctx context.Context, userID string, amount int64) (int64, error)
	Credit(ctx context.Context, userID string, amount int64) (int64, error)
	IncrementGenerations(ctx context.Context, userID string) (int64, error)
	Balance(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	store *store.Store
}

// NewRepository returns a ledger repository bound to the provided store.
func NewRepository(s *store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) WithTx(tx *store.Store) Repository {
	if tx == nil {
		return r
	}
	return &repository{store: tx}
}

func (r *repository) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	balance, ok, err := r.returning(ctx, "debit credits",
		"UPDATE users SET credits = credits - ? WHERE id = ? AND credits >= ? RETURNING credits",
		amount, userID, amount)
	if err != nil {
		return 0, err
	}
	if ok {
		return balance, nil
	}
	if _, err := r.Balance(ctx, userID); err != nil {
		return 0, err
	}
	return 0, pkgerrors.New(pkgerrors.CodeInsufficientCredits, "Insufficient credits.")
}

func (r *repository) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	balance, ok, err := r.returning(ctx, "add credits",
		"UPDATE users SET credits = credits + ? WHERE id = ? RETURNING credits",
		amount, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, userNotFound(userID)
	}
	return balance, nil
}

func (r *repository) IncrementGenerations(ctx context.Context, userID string) (int64, error) {
	count, ok, err := r.returning(ctx, "increment generations",
		"UPDATE users SET total_generations = total_generations + 1 WHERE id = ? RETURNING total_generations",
		userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, userNotFound(userID)
	}
	return count, nil
}

func (r *repository) Balance(ctx context.Context, userID string) (int64, error) {
	conn, err := r.store.DB(ctx)
	if err != nil {
		return 0, err
	}
	var balances []int64
	if err := conn.Model(&models.User{}).Where("id = ?", userID).Pluck("credits", &balances).Error; err != nil {
		return 0, store.Classify(err, "read balance")
	}
	if len(balances) == 0 {
		return 0, userNotFound(userID)
	}
	return balances[0], nil
}

// returning runs an UPDATE ... RETURNING statement and reports whether a row matched.
func (r *repository) returning(ctx context.Context, what, query string, args ...any) (int64, bool, error) {
	conn, err := r.store.DB(ctx)
	if err != nil {
		return 0, false, err
	}
	var values []int64
	if err := conn.Raw(query, args...).Scan(&values).Error; err != nil {
		return 0, false, store.Classify(err, what)
	}
	if len(values) == 0 {
		return 0, false, nil
	}
	return values[0], true, nil
}

func userNotFound(userID string) error {
	return pkgerrors.New(pkgerrors.CodeUserNotFound, fmt.Sprintf("user %q not found", userID))
}
