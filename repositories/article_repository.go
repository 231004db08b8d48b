package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/fengin/umani/models"
)

type ArticleRepository interface {
	Create(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetList() ([]models.Article, error)
	GetListBySkill(skillID uint) ([]models.Article, error)
	SaveRefinedContent(id uint, content string) error
	UpdateStatus(id uint, status models.ArticleStatus) error
	Delete(id uint) error
	Count() (int64, error)
	CreateDiffRecord(record *models.DiffRecord) error
	GetDiffRecord(id uint) (*models.DiffRecord, error)
	GetDiffRecords(articleID uint) ([]models.DiffRecord, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("DiffRecords").First(&article, id).Error
	return &article, err
}

func (r *articleRepository) GetList() ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Order("updated_at desc").Find(&articles).Error
	return articles, err
}

func (r *articleRepository) GetListBySkill(skillID uint) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Where("skill_id = ?", skillID).
		Order("updated_at desc").
		Find(&articles).Error
	return articles, err
}

// SaveRefinedContent overwrites only the human-edited field; the AI
// draft is written once at creation and never touched again.
func (r *articleRepository) SaveRefinedContent(id uint, content string) error {
	res := r.db.Model(&models.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"user_refined_content": content,
			"updated_at":           time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *articleRepository) UpdateStatus(id uint, status models.ArticleStatus) error {
	res := r.db.Model(&models.Article{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the article and cascades to its diff records.
func (r *articleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("article_id = ?", id).Delete(&models.DiffRecord{}).Error
	})
}

func (r *articleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Article{}).Count(&count).Error
	return count, err
}

func (r *articleRepository) CreateDiffRecord(record *models.DiffRecord) error {
	return r.db.Create(record).Error
}

func (r *articleRepository) GetDiffRecord(id uint) (*models.DiffRecord, error) {
	var record models.DiffRecord
	err := r.db.First(&record, id).Error
	return &record, err
}

func (r *articleRepository) GetDiffRecords(articleID uint) ([]models.DiffRecord, error) {
	var records []models.DiffRecord
	err := r.db.Where("article_id = ?", articleID).
		Order("created_at desc").
		Find(&records).Error
	return records, err
}
