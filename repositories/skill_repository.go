package repositories

import (
	"gorm.io/gorm"

	"github.com/fengin/umani/models"
)

type SkillRepository interface {
	CreateWithInitialVersion(skill *models.Skill, version *models.SkillVersion) error
	GetByID(id uint) (*models.Skill, error)
	GetList() ([]models.Skill, error)
	Update(skill *models.Skill) error
	Delete(id uint) error
	Evolve(skillID uint, version *models.SkillVersion, diffRecordID *uint) (*models.SkillVersion, error)
	GetVersion(skillID uint, versionNumber int) (*models.SkillVersion, error)
	GetVersions(skillID uint) ([]models.SkillVersion, error)
	CountVersions(skillID uint) (int64, error)
	Count() (int64, error)
	CreateSamples(samples []models.OriginalSample) error
	GetSamples(skillID uint) ([]models.OriginalSample, error)
}

type skillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

// CreateWithInitialVersion inserts the skill row and its version 1 as a
// single transaction so neither can exist without the other.
func (r *skillRepository) CreateWithInitialVersion(skill *models.Skill, version *models.SkillVersion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		skill.CurrentVersion = 1
		if err := tx.Create(skill).Error; err != nil {
			return err
		}
		version.SkillID = skill.ID
		version.VersionNumber = 1
		return tx.Create(version).Error
	})
}

func (r *skillRepository) GetByID(id uint) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.First(&skill, id).Error
	return &skill, err
}

func (r *skillRepository) GetList() ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.Order("updated_at desc").Find(&skills).Error
	return skills, err
}

func (r *skillRepository) Update(skill *models.Skill) error {
	return r.db.Save(skill).Error
}

// Delete removes the skill, its version chain and its samples, and
// clears the skill reference on any article that pointed at it. The
// article's skill_version_used stays behind as a historical marker.
func (r *skillRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Skill{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("skill_id = ?", id).Delete(&models.SkillVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("skill_id = ?", id).Delete(&models.OriginalSample{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Article{}).
			Where("skill_id = ?", id).
			Update("skill_id", nil).Error
	})
}

// Evolve appends the next version and moves the skill's current_version
// pointer in one transaction; the two writes are never observable
// half-done. When diffRecordID is set, the originating diff record is
// marked applied in the same transaction.
func (r *skillRepository) Evolve(skillID uint, version *models.SkillVersion, diffRecordID *uint) (*models.SkillVersion, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var skill models.Skill
		if err := tx.First(&skill, skillID).Error; err != nil {
			return err
		}

		next := skill.CurrentVersion + 1
		version.SkillID = skillID
		version.VersionNumber = next
		if err := tx.Create(version).Error; err != nil {
			return err
		}

		if err := tx.Model(&skill).Update("current_version", next).Error; err != nil {
			return err
		}

		if diffRecordID != nil {
			return tx.Model(&models.DiffRecord{}).
				Where("id = ? AND applied = ?", *diffRecordID, false).
				Update("applied", true).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

func (r *skillRepository) GetVersion(skillID uint, versionNumber int) (*models.SkillVersion, error) {
	var version models.SkillVersion
	err := r.db.Where("skill_id = ? AND version_number = ?", skillID, versionNumber).
		First(&version).Error
	return &version, err
}

func (r *skillRepository) GetVersions(skillID uint) ([]models.SkillVersion, error) {
	var versions []models.SkillVersion
	err := r.db.Where("skill_id = ?", skillID).
		Order("version_number desc").
		Find(&versions).Error
	return versions, err
}

func (r *skillRepository) CountVersions(skillID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.SkillVersion{}).
		Where("skill_id = ?", skillID).
		Count(&count).Error
	return count, err
}

func (r *skillRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Skill{}).Count(&count).Error
	return count, err
}

func (r *skillRepository) CreateSamples(samples []models.OriginalSample) error {
	if len(samples) == 0 {
		return nil
	}
	return r.db.Create(&samples).Error
}

func (r *skillRepository) GetSamples(skillID uint) ([]models.OriginalSample, error) {
	var samples []models.OriginalSample
	err := r.db.Where("skill_id = ?", skillID).Order("id").Find(&samples).Error
	return samples, err
}
