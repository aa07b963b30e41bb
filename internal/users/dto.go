package users

import (
	"net/url"
	"time"

	"github.com/ZameerHP/clipscript/pkg/enums"
)

// CreateInput holds the data required to open an account.
type CreateInput struct {
	Email       string             `json:"email" validate:"required,email"`
	Name        string             `json:"name" validate:"required,max=120"`
	Password    string             `json:"-"`
	Provider    enums.AuthProvider `json:"provider" validate:"required"`
	Avatar      string             `json:"avatar" validate:"omitempty,url"`
	Profession  string             `json:"profession" validate:"max=120"`
	Country     string             `json:"country" validate:"max=80"`
	Referral    string             `json:"referral" validate:"max=120"`
	Bio         string             `json:"bio" validate:"max=1000"`
	Website     string             `json:"website" validate:"max=200"`
	DeviceInfo  string             `json:"deviceInfo"`
	BrowserInfo string             `json:"browserInfo"`
}

// ProfileUpdate is a partial change to an account. Nil fields are left as is.
type ProfileUpdate struct {
	Name        *string    `json:"name" validate:"omitempty,max=120"`
	Avatar      *string    `json:"avatar" validate:"omitempty,url"`
	Profession  *string    `json:"profession" validate:"omitempty,max=120"`
	Country     *string    `json:"country" validate:"omitempty,max=80"`
	Bio         *string    `json:"bio" validate:"omitempty,max=1000"`
	Website     *string    `json:"website" validate:"omitempty,max=200"`
	BrowserInfo *string    `json:"browserInfo"`
	DeviceInfo  *string    `json:"deviceInfo"`
	LastLogin   *time.Time `json:"lastLogin"`
}

// ExternalIdentity is a sign-in already verified by an outside provider.
type ExternalIdentity struct {
	Provider  enums.AuthProvider
	Email     string
	Name      string
	AvatarURL string
}

// ClientInfo describes the device a sign-in came from.
type ClientInfo struct {
	Device string
	Agent  string
}

// DefaultAvatar returns the generated avatar used when none is supplied.
func DefaultAvatar(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(seed)
}
