package repositories

import (
	"gorm.io/gorm"

	"github.com/fengin/umani/models"
)

// ProfileRepository reads and writes the single LLM settings row.
type ProfileRepository interface {
	Get() (*models.LLMProfile, error)
	Save(profile *models.LLMProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get() (*models.LLMProfile, error) {
	var profile models.LLMProfile
	err := r.db.First(&profile, 1).Error
	return &profile, err
}

func (r *profileRepository) Save(profile *models.LLMProfile) error {
	profile.ID = 1
	return r.db.Save(profile).Error
}
