package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fengin/umani/logger"
	"github.com/fengin/umani/models"
	"github.com/fengin/umani/prompts"
	"github.com/fengin/umani/repositories"
)

type SkillService interface {
	CreateSkill(req models.CreateSkillRequest) (*models.Skill, error)
	CreateSkillFromSamples(ctx context.Context, req models.CreateSkillFromSamplesRequest) (*models.Skill, error)
	GetSkill(id uint) (*models.Skill, error)
	ListSkills() ([]models.Skill, error)
	UpdateSkill(id uint, req models.UpdateSkillRequest) (*models.Skill, error)
	DeleteSkill(id uint) error
	Evolve(skillID uint, req models.EvolveSkillRequest) (*models.SkillVersion, error)
	GetVersion(skillID uint, versionNumber int) (*models.SkillVersion, error)
	ListVersions(skillID uint) ([]models.SkillVersion, error)
	ExportMarkdown(skillID uint) (string, error)
	ExportJSON(skillID uint) (string, error)
}

type skillService struct {
	skillRepo   repositories.SkillRepository
	profileRepo repositories.ProfileRepository
	llm         LLMClient
	log         *logger.Logger
}

func NewSkillService(skillRepo repositories.SkillRepository, profileRepo repositories.ProfileRepository, llm LLMClient, log *logger.Logger) SkillService {
	return &skillService{
		skillRepo:   skillRepo,
		profileRepo: profileRepo,
		llm:         llm,
		log:         log.With("service", "skill"),
	}
}

func (s *skillService) CreateSkill(req models.CreateSkillRequest) (*models.Skill, error) {
	skill := &models.Skill{
		Name:        req.Name,
		Category:    defaultString(req.Category, "general"),
		Description: req.Description,
	}
	version := &models.SkillVersion{
		ContentMarkdown: req.ContentMarkdown,
		ContentJSON:     defaultString(req.ContentJSON, "{}"),
		ChangeSummary:   "initial version",
	}

	if err := s.skillRepo.CreateWithInitialVersion(skill, version); err != nil {
		return nil, models.ErrorValidation{Message: fmt.Sprintf("create skill: %v", err)}
	}

	s.log.Info("skill created", "skill_id", skill.ID, "name", skill.Name)
	return skill, nil
}

// CreateSkillFromSamples bootstraps a skill by having the analysis
// capability extract a style specification from the user's own writing.
// Samples are separated by a "---" line. The capability call happens
// before any row is written, so a failed call creates nothing.
func (s *skillService) CreateSkillFromSamples(ctx context.Context, req models.CreateSkillFromSamplesRequest) (*models.Skill, error) {
	var samples []string
	for _, part := range strings.Split(req.SamplesText, "\n---\n") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			samples = append(samples, trimmed)
		}
	}
	if len(samples) == 0 {
		return nil, models.ErrorValidation{Message: "at least one sample article is required"}
	}

	profile, err := s.loadProfile()
	if err != nil {
		return nil, err
	}

	prompt := prompts.BuildStyleAnalysisPrompt(samples)
	messages := []ChatMessage{{Role: "user", Content: prompt}}

	jsonContent, err := s.llm.ChatCompletion(ctx, profile, messages, 0.3)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	skill := &models.Skill{
		Name:        req.Name,
		Category:    defaultString(req.Category, "general"),
		Description: req.Description,
	}
	version := &models.SkillVersion{
		ContentMarkdown: prompts.JSONToMarkdown(req.Name, jsonContent),
		ContentJSON:     jsonContent,
		ChangeSummary:   "initial style extracted from samples",
	}
	if err := s.skillRepo.CreateWithInitialVersion(skill, version); err != nil {
		return nil, models.ErrorValidation{Message: fmt.Sprintf("create skill: %v", err)}
	}

	rows := make([]models.OriginalSample, 0, len(samples))
	for i, content := range samples {
		rows = append(rows, models.OriginalSample{
			SkillID: skill.ID,
			Title:   fmt.Sprintf("Sample %d", i+1),
			Content: content,
		})
	}
	if err := s.skillRepo.CreateSamples(rows); err != nil {
		return nil, err
	}

	s.log.Info("skill created from samples", "skill_id", skill.ID, "samples", len(samples))
	return skill, nil
}

func (s *skillService) GetSkill(id uint) (*models.Skill, error) {
	skill, err := s.skillRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr("skill", id, err)
	}
	return skill, nil
}

func (s *skillService) ListSkills() ([]models.Skill, error) {
	return s.skillRepo.GetList()
}

// UpdateSkill merges the provided fields into the skill's metadata.
// Version content is never touched here.
func (s *skillService) UpdateSkill(id uint, req models.UpdateSkillRequest) (*models.Skill, error) {
	skill, err := s.skillRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr("skill", id, err)
	}

	if req.Name != nil {
		skill.Name = *req.Name
	}
	if req.Category != nil {
		skill.Category = *req.Category
	}
	if req.Description != nil {
		skill.Description = *req.Description
	}

	if err := s.skillRepo.Update(skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *skillService) DeleteSkill(id uint) error {
	if err := s.skillRepo.Delete(id); err != nil {
		return notFoundOr("skill", id, err)
	}
	s.log.Info("skill deleted", "skill_id", id)
	return nil
}

// Evolve appends the next version of the skill. When the request names
// the diff record the new content was derived from, that record is
// marked applied in the same transaction.
func (s *skillService) Evolve(skillID uint, req models.EvolveSkillRequest) (*models.SkillVersion, error) {
	version := &models.SkillVersion{
		ContentMarkdown: req.ContentMarkdown,
		ContentJSON:     defaultString(req.ContentJSON, "{}"),
		ChangeSummary:   req.ChangeSummary,
	}

	created, err := s.skillRepo.Evolve(skillID, version, req.DiffRecordID)
	if err != nil {
		return nil, notFoundOr("skill", skillID, err)
	}

	s.log.Info("skill evolved", "skill_id", skillID, "version", created.VersionNumber)
	return created, nil
}

func (s *skillService) GetVersion(skillID uint, versionNumber int) (*models.SkillVersion, error) {
	version, err := s.skillRepo.GetVersion(skillID, versionNumber)
	if err != nil {
		return nil, notFoundOr("skill version", fmt.Sprintf("%d/v%d", skillID, versionNumber), err)
	}
	return version, nil
}

func (s *skillService) ListVersions(skillID uint) ([]models.SkillVersion, error) {
	if _, err := s.skillRepo.GetByID(skillID); err != nil {
		return nil, notFoundOr("skill", skillID, err)
	}
	return s.skillRepo.GetVersions(skillID)
}

// currentVersion loads the skill together with the version its pointer
// names. The pointer always references an existing row (both writes
// happen in one transaction), so a miss here is a plain not-found.
func (s *skillService) currentVersion(skillID uint) (*models.Skill, *models.SkillVersion, error) {
	skill, err := s.skillRepo.GetByID(skillID)
	if err != nil {
		return nil, nil, notFoundOr("skill", skillID, err)
	}
	version, err := s.skillRepo.GetVersion(skillID, skill.CurrentVersion)
	if err != nil {
		return nil, nil, notFoundOr("skill version", skill.CurrentVersion, err)
	}
	return skill, version, nil
}

// ExportMarkdown renders the skill's current version as a
// self-contained document. Pure read, no mutation.
func (s *skillService) ExportMarkdown(skillID uint) (string, error) {
	skill, version, err := s.currentVersion(skillID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"# %s — Writing Style Skill\n\n**Category**: %s | **Version**: v%d\n\n%s\n\n---\n\n%s\n\n---\n\n> Exported by Umani | usable directly as a system prompt\n",
		skill.Name, skill.Category, skill.CurrentVersion, skill.Description, version.ContentMarkdown,
	), nil
}

// ExportJSON renders skill metadata plus the current version's
// structured content as one machine-readable record.
func (s *skillService) ExportJSON(skillID uint) (string, error) {
	skill, version, err := s.currentVersion(skillID)
	if err != nil {
		return "", err
	}

	var structured interface{}
	if err := json.Unmarshal([]byte(version.ContentJSON), &structured); err != nil {
		structured = nil
	}

	export := models.SkillExport{
		Name:        skill.Name,
		Category:    skill.Category,
		Description: skill.Description,
		Version:     skill.CurrentVersion,
		Skill:       structured,
		ExportedBy:  "Umani",
	}

	out, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s *skillService) loadProfile() (*models.LLMProfile, error) {
	profile, err := s.profileRepo.Get()
	if err != nil {
		return nil, fmt.Errorf("load llm profile: %w", err)
	}
	if profile.APIKey == "" {
		return nil, models.ErrorValidation{Message: "LLM API key is not configured"}
	}
	return profile, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func notFoundOr(resource string, id interface{}, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrorNotFound{Resource: resource, ID: id}
	}
	return err
}
