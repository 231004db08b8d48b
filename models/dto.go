package models

type RegisterRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=50"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateSkillRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=255"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	ContentMarkdown string `json:"content_markdown"`
	ContentJSON     string `json:"content_json"`
}

type CreateSkillFromSamplesRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Category    string `json:"category"`
	Description string `json:"description"`
	SamplesText string `json:"samples_text" binding:"required"`
}

type UpdateSkillRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type EvolveSkillRequest struct {
	ContentMarkdown string `json:"content_markdown" binding:"required"`
	ContentJSON     string `json:"content_json"`
	ChangeSummary   string `json:"change_summary" binding:"required"`
	DiffRecordID    *uint  `json:"diff_record_id"`
}

type GenerateArticleRequest struct {
	SkillID uint   `json:"skill_id" binding:"required"`
	Topic   string `json:"topic" binding:"required,min=1,max=255"`
}

type SaveArticleRequest struct {
	Content string `json:"content"`
}

type ComputeDiffRequest struct {
	Original string `json:"original"`
	Modified string `json:"modified"`
}

type AnalyzeDiffRequest struct {
	Original string `json:"original" binding:"required"`
	Modified string `json:"modified" binding:"required"`
}

type LLMConfigRequest struct {
	Provider string `json:"provider" binding:"required"`
	Endpoint string `json:"endpoint" binding:"required"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model" binding:"required"`
}

type OnboardingStatus struct {
	LLMConfigured bool `json:"llm_configured"`
	HasSkills     bool `json:"has_skills"`
	HasArticles   bool `json:"has_articles"`
}

// SkillExport is the machine-readable projection of a skill's current
// version combined with its metadata.
type SkillExport struct {
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Version     int         `json:"version"`
	Skill       interface{} `json:"skill"`
	ExportedBy  string      `json:"exported_by"`
}
