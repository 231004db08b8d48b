package models

import (
	"time"
)

type Skill struct {
	ID             uint           `json:"id" gorm:"primarykey"`
	Name           string         `json:"name" gorm:"not null"`
	Category       string         `json:"category" gorm:"not null;default:'general'"`
	Description    string         `json:"description"`
	CurrentVersion int            `json:"current_version" gorm:"not null;default:1"`
	Versions       []SkillVersion `json:"versions,omitempty" gorm:"foreignKey:SkillID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SkillVersion is one immutable snapshot in a skill's lineage. Version
// numbers are dense per skill starting at 1; rows are only ever appended
// and only removed when the owning skill is deleted.
type SkillVersion struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	SkillID         uint      `json:"skill_id" gorm:"not null;uniqueIndex:idx_skill_version"`
	VersionNumber   int       `json:"version_number" gorm:"not null;uniqueIndex:idx_skill_version"`
	ContentMarkdown string    `json:"content_markdown" gorm:"type:text"`
	ContentJSON     string    `json:"content_json" gorm:"type:text;default:'{}'"`
	ChangeSummary   string    `json:"change_summary"`
	CreatedAt       time.Time `json:"created_at"`
}

// OriginalSample is a writing sample the user supplied when a skill was
// bootstrapped from existing articles.
type OriginalSample struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	SkillID   uint      `json:"skill_id" gorm:"not null"`
	Title     string    `json:"title"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
