package activity

import (
	"context"

	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	"github.com/ZameerHP/clipscript/pkg/enums"
)

// Repository manages persistence for activity entries.
type Repository interface {
	WithTx(tx *store.Store) Repository
	Append(ctx context.Context, entry *models.Activity) error
	ListByUser(ctx context.Context, userID string, actions []enums.ActivityAction) ([]models.Activity, error)
}

type repository struct {
	store *store.Store
}

// NewRepository returns an activity repository bound to the provided store.
func NewRepository(s *store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) WithTx(tx *store.Store) Repository {
	if tx == nil {
		return r
	}
	return &repository{store: tx}
}

func (r *repository) Append(ctx context.Context, entry *models.Activity) error {
	return store.Add(ctx, r.store, entry)
}

// ListByUser returns the user's entries newest first. Entries sharing a
// timestamp fall back to id order, which follows insertion.
func (r *repository) ListByUser(ctx context.Context, userID string, actions []enums.ActivityAction) ([]models.Activity, error) {
	conn, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	q := conn.Model(&models.Activity{}).Where("user_id = ?", userID)
	if len(actions) > 0 {
		q = q.Where("action IN ?", actions)
	}
	entries := []models.Activity{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, store.Classify(err, "list activity")
	}
	return entries, nil
}
