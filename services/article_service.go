package services

import (
	"context"

	"github.com/fengin/umani/diff"
	"github.com/fengin/umani/logger"
	"github.com/fengin/umani/models"
	"github.com/fengin/umani/prompts"
	"github.com/fengin/umani/repositories"
)

// ArticleService runs the evolution loop around an article: generate a
// draft from the skill's current version, take the human edit, diff the
// two, and have the analysis capability propose rule changes. Committing
// those changes into a new skill version is the caller's decision, via
// SkillService.Evolve.
//
// Store reads and writes are individual short repository calls; no store
// operation is ever in flight while a capability call blocks, and a
// canceled call never persists its result.
type ArticleService interface {
	GenerateArticle(ctx context.Context, req models.GenerateArticleRequest) (*models.Article, error)
	GetArticle(id uint) (*models.Article, error)
	ListArticles(skillID *uint) ([]models.Article, error)
	SaveArticle(id uint, content string) error
	FinalizeArticle(id uint) error
	DeleteArticle(id uint) error
	ComputeDiff(original, modified string) []diff.Chunk
	AnalyzeDiff(ctx context.Context, articleID uint, req models.AnalyzeDiffRequest) (*models.DiffRecord, error)
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	skillRepo   repositories.SkillRepository
	profileRepo repositories.ProfileRepository
	llm         LLMClient
	log         *logger.Logger
}

func NewArticleService(articleRepo repositories.ArticleRepository, skillRepo repositories.SkillRepository, profileRepo repositories.ProfileRepository, llm LLMClient, log *logger.Logger) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		skillRepo:   skillRepo,
		profileRepo: profileRepo,
		llm:         llm,
		log:         log.With("service", "article"),
	}
}

// GenerateArticle produces the AI draft for a topic. The skill content
// and version number are read first and frozen; even if the skill
// evolves while the generation call is in flight, the article records
// the version the draft was actually produced from. A failed call
// creates no article at all.
func (s *articleService) GenerateArticle(ctx context.Context, req models.GenerateArticleRequest) (*models.Article, error) {
	skill, err := s.skillRepo.GetByID(req.SkillID)
	if err != nil {
		return nil, notFoundOr("skill", req.SkillID, err)
	}
	version, err := s.skillRepo.GetVersion(skill.ID, skill.CurrentVersion)
	if err != nil {
		return nil, notFoundOr("skill version", skill.CurrentVersion, err)
	}
	profile, err := s.loadProfile()
	if err != nil {
		return nil, err
	}

	versionUsed := version.VersionNumber

	prompt := prompts.BuildGeneratePrompt(version.ContentMarkdown, req.Topic)
	messages := []ChatMessage{{Role: "user", Content: prompt}}

	draft, err := s.llm.ChatCompletion(ctx, profile, messages, 0.7)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// The caller abandoned the call; its result must not reach the store.
		return nil, err
	}

	article := &models.Article{
		Title:              req.Topic,
		AIGeneratedContent: draft,
		SkillID:            &skill.ID,
		SkillVersionUsed:   &versionUsed,
		Status:             models.StatusEditing,
	}
	if err := s.articleRepo.Create(article); err != nil {
		return nil, err
	}

	s.log.Info("article generated", "article_id", article.ID, "skill_id", skill.ID, "version_used", versionUsed)
	return article, nil
}

func (s *articleService) GetArticle(id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr("article", id, err)
	}
	return article, nil
}

func (s *articleService) ListArticles(skillID *uint) ([]models.Article, error) {
	if skillID != nil {
		return s.articleRepo.GetListBySkill(*skillID)
	}
	return s.articleRepo.GetList()
}

// SaveArticle stores the human's refined content verbatim.
func (s *articleService) SaveArticle(id uint, content string) error {
	if err := s.articleRepo.SaveRefinedContent(id, content); err != nil {
		return notFoundOr("article", id, err)
	}
	return nil
}

func (s *articleService) FinalizeArticle(id uint) error {
	if err := s.articleRepo.UpdateStatus(id, models.StatusFinalized); err != nil {
		return notFoundOr("article", id, err)
	}
	return nil
}

func (s *articleService) DeleteArticle(id uint) error {
	if err := s.articleRepo.Delete(id); err != nil {
		return notFoundOr("article", id, err)
	}
	return nil
}

// ComputeDiff exposes the diff engine directly: pure, no store access.
func (s *articleService) ComputeDiff(original, modified string) []diff.Chunk {
	return diff.Compute(original, modified)
}

// AnalyzeDiff diffs the draft against the human edit and asks the
// analysis capability which style rules the edit implies. The style
// content in the prompt is the skill's content at analysis time, which
// may be newer than the version the draft was generated from. On
// success, exactly one DiffRecord is written with applied=false; on
// failure nothing is written and the step can be retried with the same
// inputs.
func (s *articleService) AnalyzeDiff(ctx context.Context, articleID uint, req models.AnalyzeDiffRequest) (*models.DiffRecord, error) {
	article, err := s.articleRepo.GetByID(articleID)
	if err != nil {
		return nil, notFoundOr("article", articleID, err)
	}

	chunks := diff.Compute(req.Original, req.Modified)
	summary := diff.Summary(chunks)

	// Best effort: the owning skill may have been deleted since the
	// draft was made; analysis still works with an empty style context.
	var currentSkill string
	if article.SkillID != nil {
		if skill, err := s.skillRepo.GetByID(*article.SkillID); err == nil {
			if version, err := s.skillRepo.GetVersion(skill.ID, skill.CurrentVersion); err == nil {
				currentSkill = version.ContentMarkdown
			}
		}
	}

	profile, err := s.loadProfile()
	if err != nil {
		return nil, err
	}

	prompt := prompts.BuildDiffAnalyzePrompt(req.Original, req.Modified, summary, currentSkill)
	messages := []ChatMessage{{Role: "user", Content: prompt}}

	analysis, err := s.llm.ChatCompletion(ctx, profile, messages, 0.3)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := &models.DiffRecord{
		ArticleID:      article.ID,
		DiffData:       summary,
		LLMAnalysis:    analysis,
		ExtractedRules: analysis,
	}
	if err := s.articleRepo.CreateDiffRecord(record); err != nil {
		return nil, err
	}

	s.log.Info("diff analyzed", "article_id", article.ID, "diff_record_id", record.ID)
	return record, nil
}

func (s *articleService) loadProfile() (*models.LLMProfile, error) {
	profile, err := s.profileRepo.Get()
	if err != nil {
		return nil, err
	}
	if profile.APIKey == "" {
		return nil, models.ErrorValidation{Message: "LLM API key is not configured"}
	}
	return profile, nil
}
