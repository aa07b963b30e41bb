package models

import dbtypes "github.com/ZameerHP/clipscript/pkg/db/types"

// Story is a generated content record. Records are written once and never mutated.
type Story struct {
	ID          string             `gorm:"column:id;primaryKey" json:"id"`
	UserID      string             `gorm:"column:user_id;not null;index" json:"userId"`
	Title       string             `gorm:"column:title;not null" json:"title"`
	Content     string             `gorm:"column:content;not null" json:"content"`
	CreatedAt   dbtypes.UnixMilli  `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	ViralTitles dbtypes.StringList `gorm:"column:viral_titles" json:"viralTitles,omitempty"`
	Hashtags    dbtypes.StringList `gorm:"column:hashtags" json:"hashtags,omitempty"`
}

func (Story) TableName() string { return "stories" }
