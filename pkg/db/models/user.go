package models

import (
	"github.com/ZameerHP/clipscript/pkg/enums"
	dbtypes "github.com/ZameerHP/clipscript/pkg/db/types"
)

// User represents the canonical account entity.
type User struct {
	ID               string             `gorm:"column:id;primaryKey" json:"id"`
	Email            string             `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name             string             `gorm:"column:name;not null" json:"name"`
	Avatar           string             `gorm:"column:avatar;not null" json:"avatar"`
	Profession       string             `gorm:"column:profession;not null" json:"profession,omitempty"`
	Country          string             `gorm:"column:country;not null" json:"country,omitempty"`
	Bio              string             `gorm:"column:bio;not null" json:"bio,omitempty"`
	Website          string             `gorm:"column:website;not null" json:"website,omitempty"`
	Referral         string             `gorm:"column:referral;not null" json:"referral,omitempty"`
	DeviceInfo       string             `gorm:"column:device_info;not null" json:"deviceInfo,omitempty"`
	BrowserInfo      string             `gorm:"column:browser_info;not null" json:"browserInfo,omitempty"`
	CreatedAt        dbtypes.UnixMilli  `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	LastLogin        dbtypes.UnixMilli  `gorm:"column:last_login;not null" json:"lastLogin"`
	TotalGenerations int64              `gorm:"column:total_generations;not null" json:"totalGenerations"`
	Credits          int64              `gorm:"column:credits;not null" json:"credits"`
	Provider         enums.AuthProvider `gorm:"column:provider;not null" json:"provider"`
	PasswordHash     *string            `gorm:"column:password_hash" json:"-"`
}

func (User) TableName() string { return "users" }

// Sanitized returns a copy without the password secret, safe to cache or render.
func (u User) Sanitized() User {
	u.PasswordHash = nil
	return u
}
