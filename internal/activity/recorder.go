package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	dbtypes "github.com/ZameerHP/clipscript/pkg/db/types"
	"github.com/ZameerHP/clipscript/pkg/enums"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
	"github.com/ZameerHP/clipscript/pkg/logger"
	"github.com/ZameerHP/clipscript/pkg/metrics"
)

// Entry is an activity log entry with its metadata decoded.
type Entry struct {
	ID        string
	UserID    string
	Action    enums.ActivityAction
	Details   string
	CreatedAt time.Time
	Metadata  Metadata
}

// Recorder appends to and reads the per-user activity log.
type Recorder struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.LedgerMetrics
	now     func() time.Time
}

// NewRecorder wires a recorder with the provided repository.
func NewRecorder(repo Repository, logg *logger.Logger, m *metrics.LedgerMetrics) (*Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Recorder{repo: repo, logg: logg, metrics: m, now: time.Now}, nil
}

// Record appends an entry outside any transaction. Failures are logged and
// counted, never returned.
func (r *Recorder) Record(ctx context.Context, userID string, action enums.ActivityAction, details string, meta Metadata) {
	if err := r.append(ctx, r.repo, userID, action, details, meta); err != nil {
		ctx = r.logg.WithAction(ctx, userID, action)
		r.logg.Error(ctx, "activity write dropped", err)
		r.metrics.ActivityDropped(string(action))
	}
}

// Append writes an entry inside tx and returns any failure so the caller's
// transaction can roll back with it.
func (r *Recorder) Append(ctx context.Context, tx *store.Store, userID string, action enums.ActivityAction, details string, meta Metadata) error {
	return r.append(ctx, r.repo.WithTx(tx), userID, action, details, meta)
}

func (r *Recorder) append(ctx context.Context, repo Repository, userID string, action enums.ActivityAction, details string, meta Metadata) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid activity action %q", action))
	}
	raw, err := encodeMetadata(action, meta)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid activity metadata")
	}

	entry := &models.Activity{
		ID:        store.NewID(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: dbtypes.FromTime(r.now()),
		Metadata:  raw,
	}
	return repo.Append(ctx, entry)
}

// List returns the user's entries newest first, optionally limited to the
// given action kinds.
func (r *Recorder) List(ctx context.Context, userID string, actions ...enums.ActivityAction) ([]Entry, error) {
	for _, a := range actions {
		if !a.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid activity action %q", a))
		}
	}
	rows, err := r.repo.ListByUser(ctx, userID, actions)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		meta, err := decodeMetadata(row.Action, row.Metadata)
		if err != nil {
			// Keep the entry readable even if its payload is not.
			r.logg.Warn(r.logg.WithRecord(ctx, "activity", row.ID), err.Error())
		}
		out = append(out, Entry{
			ID:        row.ID,
			UserID:    row.UserID,
			Action:    row.Action,
			Details:   row.Details,
			CreatedAt: row.CreatedAt.Time,
			Metadata:  meta,
		})
	}
	return out, nil
}
