// Package session caches the signed-in user's profile between runs.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZameerHP/clipscript/pkg/db/models"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
)

// DefaultKey is the durable key the current session lives under.
const DefaultKey = "clipscript_session"

// Cache persists a single sanitized profile snapshot.
type Cache interface {
	// Save replaces the cached profile. The password secret is never written.
	Save(ctx context.Context, user *models.User) error
	// Load returns the cached profile, or nil when nobody is signed in.
	Load(ctx context.Context) (*models.User, error)
	// Clear forgets the cached profile; clearing an empty cache is not an error.
	Clear(ctx context.Context) error
	Close() error
}

// UserSource re-reads profiles from the structured store.
type UserSource interface {
	Get(ctx context.Context, userID string) (*models.User, error)
}

// Rehydrate loads the cached profile and refreshes it from the store so a
// restarted process sees the current balance. A cached account that no longer
// exists signs the session out.
func Rehydrate(ctx context.Context, cache Cache, users UserSource) (*models.User, error) {
	cached, err := cache.Load(ctx)
	if err != nil || cached == nil {
		return nil, err
	}
	current, err := users.Get(ctx, cached.ID)
	if pkgerrors.HasCode(err, pkgerrors.CodeUserNotFound) {
		return nil, cache.Clear(ctx)
	}
	if err != nil {
		return nil, err
	}
	if err := cache.Save(ctx, current); err != nil {
		return nil, err
	}
	sanitized := current.Sanitized()
	return &sanitized, nil
}

func encode(user *models.User) (string, error) {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return "", fmt.Errorf("session profile requires a user id")
	}
	raw, err := json.Marshal(user.Sanitized())
	if err != nil {
		return "", fmt.Errorf("encode session profile: %w", err)
	}
	return string(raw), nil
}

func decode(raw string) (*models.User, error) {
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode session profile: %w", err)
	}
	return &user, nil
}

func keyOrDefault(key string) string {
	if key = strings.TrimSpace(key); key == "" {
		return DefaultKey
	}
	return key
}
