package users

import (
	"context"

	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository interface {
	WithTx(tx *store.Store) Repository
	Create(ctx context.Context, user *models.User) error
	UpdateColumns(ctx context.Context, id string, columns map[string]any) (bool, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type repository struct {
	store *store.Store
}

// NewRepository constructs a users repo bound to the provided store.
func NewRepository(s *store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) WithTx(tx *store.Store) Repository {
	if tx == nil {
		return r
	}
	return &repository{store: tx}
}

// Create inserts a new user; a taken id or email fails with DuplicateKey.
func (r *repository) Create(ctx context.Context, user *models.User) error {
	return store.Add(ctx, r.store, user)
}

// UpdateColumns writes only the named columns, leaving the balance and
// counters to the ledger. It reports whether the user exists.
func (r *repository) UpdateColumns(ctx context.Context, id string, columns map[string]any) (bool, error) {
	conn, err := r.store.DB(ctx)
	if err != nil {
		return false, err
	}
	if len(columns) == 0 {
		var count int64
		if err := conn.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return false, store.Classify(err, "find user")
		}
		return count > 0, nil
	}
	res := conn.Model(&models.User{}).Where("id = ?", id).UpdateColumns(columns)
	if res.Error != nil {
		return false, store.Classify(res.Error, "update user")
	}
	return res.RowsAffected > 0, nil
}

// FindByEmail retrieves the user through the unique email index; nil when absent.
func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return store.GetUnique[models.User](ctx, r.store, "email", email)
}

// FindByID loads a user by id; nil when absent.
func (r *repository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return store.Get[models.User](ctx, r.store, id)
}
