package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZameerHP/clipscript/internal/activity"
	"github.com/ZameerHP/clipscript/internal/ledger"
	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	dbtypes "github.com/ZameerHP/clipscript/pkg/db/types"
	"github.com/ZameerHP/clipscript/pkg/enums"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
)

const defaultTitle = "Untitled"

// Content is generated output waiting to be saved.
type Content struct {
	Title       string
	Content     string
	ViralTitles []string
	Hashtags    []string
}

// Service saves and lists generated content.
type Service interface {
	Save(ctx context.Context, userID string, content Content) (*models.Story, error)
	ListByUser(ctx context.Context, userID string) ([]models.Story, error)
}

type service struct {
	store    *store.Store
	ledger   ledger.Repository
	recorder *activity.Recorder
	now      func() time.Time
}

// NewService wires the content library.
func NewService(s *store.Store, ledgerRepo ledger.Repository, recorder *activity.Recorder) (Service, error) {
	if s == nil {
		return nil, fmt.Errorf("store required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{store: s, ledger: ledgerRepo, recorder: recorder, now: time.Now}, nil
}

// Save stores the record, bumps the owner's generation counter and logs a
// GENERATE entry in one transaction. Nothing is kept if any step fails.
func (s *service) Save(ctx context.Context, userID string, content Content) (*models.Story, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	title := strings.TrimSpace(content.Title)
	if title == "" {
		title = defaultTitle
	}

	story := &models.Story{
		ID:        store.NewID(),
		UserID:    userID,
		Title:     title,
		Content:   content.Content,
		CreatedAt: dbtypes.FromTime(s.now()),
	}
	if content.ViralTitles != nil {
		story.ViralTitles = dbtypes.StringList(content.ViralTitles)
	}
	if content.Hashtags != nil {
		story.Hashtags = dbtypes.StringList(content.Hashtags)
	}

	err := s.store.Tx(ctx, func(tx *store.Store) error {
		// Counter first: it is the step that proves the owner exists.
		if _, err := s.ledger.WithTx(tx).IncrementGenerations(ctx, userID); err != nil {
			return err
		}
		if err := store.Add(ctx, tx, story); err != nil {
			return err
		}
		return s.recorder.Append(ctx, tx, userID, enums.ActivityActionGenerate,
			`Generated "`+title+`"`,
			activity.GenerateMetadata{RecordID: story.ID})
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// ListByUser returns the user's records newest first.
func (s *service) ListByUser(ctx context.Context, userID string) ([]models.Story, error) {
	conn, err := s.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	stories := []models.Story{}
	if err := conn.Model(&models.Story{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&stories).Error; err != nil {
		return nil, store.Classify(err, "list stories")
	}
	return stories, nil
}
