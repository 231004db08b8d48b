package models

import (
	"time"
)

type ArticleStatus string

const (
	StatusEditing   ArticleStatus = "editing"
	StatusFinalized ArticleStatus = "finalized"
)

// Article holds one generation cycle: the AI draft, the human refinement,
// and the provenance of the skill version the draft was produced from.
// SkillID is a weak reference (cleared when the skill is deleted);
// SkillVersionUsed stays behind as a historical marker either way.
type Article struct {
	ID                 uint          `json:"id" gorm:"primarykey"`
	Title              string        `json:"title" gorm:"not null"`
	OriginalContent    string        `json:"original_content" gorm:"type:text"`
	AIGeneratedContent string        `json:"ai_generated_content" gorm:"type:text"`
	UserRefinedContent string        `json:"user_refined_content" gorm:"type:text"`
	SkillID            *uint         `json:"skill_id"`
	SkillVersionUsed   *int          `json:"skill_version_used"`
	Status             ArticleStatus `json:"status" gorm:"default:'editing'"`
	DiffRecords        []DiffRecord  `json:"diff_records,omitempty" gorm:"foreignKey:ArticleID"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// DiffRecord ties a human edit back to the analysis it produced. Applied
// flips false->true exactly once, when the analysis is folded into a new
// skill version.
type DiffRecord struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	ArticleID      uint      `json:"article_id" gorm:"not null"`
	DiffData       string    `json:"diff_data" gorm:"type:text"`
	LLMAnalysis    string    `json:"llm_analysis" gorm:"type:text"`
	ExtractedRules string    `json:"extracted_rules" gorm:"type:text"`
	Applied        bool      `json:"applied" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
}
