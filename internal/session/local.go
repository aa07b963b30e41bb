package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ZameerHP/clipscript/pkg/config"
	"github.com/ZameerHP/clipscript/pkg/db"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	"github.com/ZameerHP/clipscript/pkg/logger"
)

// entry is a row in the local key-value file. It lives apart from the
// structured store so that wiping one never touches the other.
type entry struct {
	Name      string `gorm:"column:name;primaryKey"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt int64  `gorm:"column:updated_at;not null"`
}

func (entry) TableName() string { return "session_entries" }

type localCache struct {
	client *db.Client
	key    string
}

// NewLocal opens (creating if needed) the SQLite file at dsn.
func NewLocal(ctx context.Context, dsn, key string, logg *logger.Logger) (Cache, error) {
	client, err := db.New(ctx, config.StoreConfig{
		Driver:       config.DriverSQLite,
		DSN:          dsn,
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 1,
	}, logg)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	if err := client.DB().WithContext(ctx).AutoMigrate(&entry{}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("migrate session file: %w", err)
	}
	return &localCache{client: client, key: keyOrDefault(key)}, nil
}

func (c *localCache) Save(ctx context.Context, user *models.User) error {
	raw, err := encode(user)
	if err != nil {
		return err
	}
	row := entry{Name: c.key, Value: raw, UpdatedAt: time.Now().UnixMilli()}
	err = c.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (c *localCache) Load(ctx context.Context) (*models.User, error) {
	var row entry
	err := c.client.DB().WithContext(ctx).Where("name = ?", c.key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decode(row.Value)
}

func (c *localCache) Clear(ctx context.Context) error {
	if err := c.client.DB().WithContext(ctx).Where("name = ?", c.key).Delete(&entry{}).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (c *localCache) Close() error {
	return c.client.Close()
}
