package models

import "time"

// LLMProfile is the single settings row every generation or analysis
// call reads its provider configuration from.
type LLMProfile struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Provider  string    `json:"provider" gorm:"not null;default:'openai'"`
	Endpoint  string    `json:"endpoint" gorm:"not null;default:'https://api.openai.com/v1'"`
	APIKey    string    `json:"-" gorm:"column:api_key"`
	Model     string    `json:"model" gorm:"not null;default:'gpt-4o'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
