package models

import (
	"github.com/ZameerHP/clipscript/pkg/enums"
	dbtypes "github.com/ZameerHP/clipscript/pkg/db/types"
)

// Activity is one append-only entry of the account activity log.
type Activity struct {
	ID        string               `gorm:"column:id;primaryKey" json:"id"`
	UserID    string               `gorm:"column:user_id;not null;index" json:"userId"`
	Action    enums.ActivityAction `gorm:"column:action;not null;index" json:"action"`
	Details   string               `gorm:"column:details;not null" json:"details"`
	CreatedAt dbtypes.UnixMilli    `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	Metadata  dbtypes.RawJSON      `gorm:"column:metadata" json:"metadata,omitempty"`
}

func (Activity) TableName() string { return "activity" }
