package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// UnixMilli persists a timestamp as integer milliseconds since the epoch so
// records compare and sort numerically on every engine.
type UnixMilli struct {
	time.Time
}

// Now returns the current instant truncated to millisecond precision in UTC.
func Now() UnixMilli {
	return FromTime(time.Now())
}

func FromTime(t time.Time) UnixMilli {
	if t.IsZero() {
		return UnixMilli{}
	}
	return UnixMilli{Time: time.UnixMilli(t.UnixMilli()).UTC()}
}

func FromMillis(ms int64) UnixMilli {
	return UnixMilli{Time: time.UnixMilli(ms).UTC()}
}

// Millis returns the stored representation.
func (u UnixMilli) Millis() int64 {
	if u.Time.IsZero() {
		return 0
	}
	return u.Time.UnixMilli()
}

func (u *UnixMilli) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*u = UnixMilli{}
		return nil
	case int64:
		*u = FromMillis(v)
		return nil
	case []byte:
		return u.parse(string(v))
	case string:
		return u.parse(v)
	case time.Time:
		*u = FromTime(v)
		return nil
	default:
		return fmt.Errorf("UnixMilli: unsupported Scan type %T", src)
	}
}

func (u *UnixMilli) parse(s string) error {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("UnixMilli: parse %q: %w", s, err)
	}
	*u = FromMillis(ms)
	return nil
}

func (u UnixMilli) Value() (driver.Value, error) {
	return u.Millis(), nil
}

// GormDataType keeps AutoMigrate callers on an integer column.
func (UnixMilli) GormDataType() string {
	return "bigint"
}
