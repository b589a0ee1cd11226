package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resume-analyzer/internal/models"
)

type AnalysisRepository interface {
	Create(analysis *models.Analysis) error
	ListByUser(userID uuid.UUID) ([]models.Analysis, error)
	FindByIDsForUser(ids []uuid.UUID, userID uuid.UUID) ([]models.Analysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

// Create implements AnalysisRepository. Analyses are write-once; there is no
// update path.
func (r *analysisRepository) Create(analysis *models.Analysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

// ListByUser implements AnalysisRepository, most recent first.
func (r *analysisRepository) ListByUser(userID uuid.UUID) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.Preload("JobDescription").
		Where("user_id = ?", userID).
		Order("analyzed_at DESC").
		Find(&analyses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, nil
}

// FindByIDsForUser implements AnalysisRepository. Used by semantic history
// search to hydrate vector matches; IDs belonging to other users are dropped.
func (r *analysisRepository) FindByIDsForUser(ids []uuid.UUID, userID uuid.UUID) ([]models.Analysis, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var analyses []models.Analysis
	err := r.db.Preload("JobDescription").
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&analyses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find analyses: %w", err)
	}
	return analyses, nil
}
