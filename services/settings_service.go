package services

import (
	"context"

	"github.com/fengin/umani/models"
	"github.com/fengin/umani/repositories"
)

type SettingsService interface {
	GetLLMConfig() (*models.LLMProfile, error)
	SaveLLMConfig(req models.LLMConfigRequest) (*models.LLMProfile, error)
	TestConnection(ctx context.Context) (string, error)
	OnboardingStatus() (*models.OnboardingStatus, error)
}

type settingsService struct {
	profileRepo repositories.ProfileRepository
	skillRepo   repositories.SkillRepository
	articleRepo repositories.ArticleRepository
	llm         LLMClient
}

func NewSettingsService(profileRepo repositories.ProfileRepository, skillRepo repositories.SkillRepository, articleRepo repositories.ArticleRepository, llm LLMClient) SettingsService {
	return &settingsService{
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
		articleRepo: articleRepo,
		llm:         llm,
	}
}

func (s *settingsService) GetLLMConfig() (*models.LLMProfile, error) {
	return s.profileRepo.Get()
}

// SaveLLMConfig overwrites the settings row. An empty api_key keeps the
// stored one, so the UI can resubmit the form without re-entering it.
func (s *settingsService) SaveLLMConfig(req models.LLMConfigRequest) (*models.LLMProfile, error) {
	profile, err := s.profileRepo.Get()
	if err != nil {
		return nil, err
	}

	profile.Provider = req.Provider
	profile.Endpoint = defaultString(req.Endpoint, DefaultEndpoint(req.Provider))
	profile.Model = req.Model
	if req.APIKey != "" {
		profile.APIKey = req.APIKey
	}

	if err := s.profileRepo.Save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *settingsService) TestConnection(ctx context.Context) (string, error) {
	profile, err := s.profileRepo.Get()
	if err != nil {
		return "", err
	}
	if profile.APIKey == "" {
		return "", models.ErrorValidation{Message: "LLM API key is not configured"}
	}
	return s.llm.TestConnection(ctx, profile)
}

func (s *settingsService) OnboardingStatus() (*models.OnboardingStatus, error) {
	profile, err := s.profileRepo.Get()
	if err != nil {
		return nil, err
	}
	skills, err := s.skillRepo.Count()
	if err != nil {
		return nil, err
	}
	articles, err := s.articleRepo.Count()
	if err != nil {
		return nil, err
	}

	return &models.OnboardingStatus{
		LLMConfigured: profile.APIKey != "",
		HasSkills:     skills > 0,
		HasArticles:   articles > 0,
	}, nil
}
