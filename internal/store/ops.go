package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZameerHP/clipscript/pkg/db"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is implemented by every model kept in a collection.
type Record interface {
	TableName() string
}

// Get returns the record with the given primary key, or nil when absent.
func Get[T Record](ctx context.Context, s *Store, id string) (*T, error) {
	var zero T
	table := zero.TableName()
	start := time.Now()

	conn, err := s.DB(ctx)
	if err != nil {
		return nil, err
	}

	var out T
	err = conn.Table(table).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.observe(table, "get", "absent", start)
		return nil, nil
	}
	if err != nil {
		cerr := Classify(err, "get "+table)
		s.observe(table, "get", string(pkgerrors.CodeOf(cerr)), start)
		return nil, cerr
	}
	s.observe(table, "get", "ok", start)
	return &out, nil
}

// GetByIndex returns every record whose indexed column equals value. Order
// is unspecified.
func GetByIndex[T Record](ctx context.Context, s *Store, index string, value any) ([]T, error) {
	var zero T
	table := zero.TableName()
	idx, err := lookupIndex(table, index)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	conn, err := s.DB(ctx)
	if err != nil {
		return nil, err
	}

	out := []T{}
	if err := conn.Table(table).Where(clause.Eq{Column: clause.Column{Name: idx.Column}, Value: value}).Find(&out).Error; err != nil {
		cerr := Classify(err, "index "+table+"."+index)
		s.observe(table, "get_by_index", string(pkgerrors.CodeOf(cerr)), start)
		return nil, cerr
	}
	s.observe(table, "get_by_index", "ok", start)
	return out, nil
}

// GetUnique looks a record up through a unique index; nil when absent.
func GetUnique[T Record](ctx context.Context, s *Store, index string, value any) (*T, error) {
	var zero T
	table := zero.TableName()
	idx, err := lookupIndex(table, index)
	if err != nil {
		return nil, err
	}
	if !idx.Unique {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("index %q on %s is not unique", index, table))
	}
	start := time.Now()

	conn, err := s.DB(ctx)
	if err != nil {
		return nil, err
	}

	var out T
	err = conn.Table(table).Where(clause.Eq{Column: clause.Column{Name: idx.Column}, Value: value}).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.observe(table, "get_unique", "absent", start)
		return nil, nil
	}
	if err != nil {
		cerr := Classify(err, "index "+table+"."+index)
		s.observe(table, "get_unique", string(pkgerrors.CodeOf(cerr)), start)
		return nil, cerr
	}
	s.observe(table, "get_unique", "ok", start)
	return &out, nil
}

// Put inserts the record or replaces the one sharing its primary key.
func Put[T Record](ctx context.Context, s *Store, rec *T) error {
	if rec == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "record is required")
	}
	table := (*rec).TableName()
	start := time.Now()

	conn, err := s.DB(ctx)
	if err != nil {
		return err
	}
	err = conn.Table(table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(rec).Error
	if err != nil {
		cerr := Classify(err, "put "+table)
		s.observe(table, "put", string(pkgerrors.CodeOf(cerr)), start)
		return cerr
	}
	s.observe(table, "put", "ok", start)
	return nil
}

// Add inserts the record; it fails with DuplicateKey if the primary key or a
// unique index value is taken.
func Add[T Record](ctx context.Context, s *Store, rec *T) error {
	if rec == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "record is required")
	}
	table := (*rec).TableName()
	start := time.Now()

	conn, err := s.DB(ctx)
	if err != nil {
		return err
	}
	if err := conn.Table(table).Create(rec).Error; err != nil {
		cerr := Classify(err, "add "+table)
		s.observe(table, "add", string(pkgerrors.CodeOf(cerr)), start)
		return cerr
	}
	s.observe(table, "add", "ok", start)
	return nil
}

// Classify maps engine errors onto store error codes.
func Classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeDuplicateKey, err, what+": key already exists")
	case db.IsBusy(err):
		return pkgerrors.Wrap(pkgerrors.CodeWriteConflict, err, what+": write conflict")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, err, what+": interrupted")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, what+" failed")
	}
}

func (s *Store) observe(collection, op, result string, start time.Time) {
	s.eng.metrics.Observe(collection, op, result, time.Since(start))
}
