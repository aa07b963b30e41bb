// Package storetest builds throwaway stores for package tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/pkg/config"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	dbtypes "github.com/ZameerHP/clipscript/pkg/db/types"
	"github.com/ZameerHP/clipscript/pkg/enums"
	"github.com/ZameerHP/clipscript/pkg/logger"
)

// New opens a store on a fresh SQLite file that is removed with the test.
func New(t testing.TB) *store.Store {
	t.Helper()
	s := store.New(config.StoreConfig{
		Driver:      config.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "studio.db"),
		BusyTimeout: 5 * time.Second,
	}, logger.Nop())
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// SeedUser inserts a Google-provider user with the given balance.
func SeedUser(t testing.TB, s *store.Store, id string, credits int64) *models.User {
	t.Helper()
	now := dbtypes.Now()
	u := &models.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      id,
		CreatedAt: now,
		LastLogin: now,
		Credits:   credits,
		Provider:  enums.AuthProviderGoogle,
	}
	if err := store.Add(context.Background(), s, u); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return u
}
