package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resume-analyzer/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByIDForUser(id, userID uuid.UUID) (*models.Resume, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create implements ResumeRepository.
func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// FindByIDForUser implements ResumeRepository. Scoping the lookup by owner
// makes another user's resume indistinguishable from a missing one.
func (r *resumeRepository) FindByIDForUser(id, userID uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

type JobDescriptionRepository interface {
	Create(jd *models.JobDescription) error
}

type jobDescriptionRepository struct {
	db *gorm.DB
}

func NewJobDescriptionRepository(db *gorm.DB) JobDescriptionRepository {
	return &jobDescriptionRepository{db: db}
}

// Create implements JobDescriptionRepository.
func (r *jobDescriptionRepository) Create(jd *models.JobDescription) error {
	if err := r.db.Create(jd).Error; err != nil {
		return fmt.Errorf("failed to create job description: %w", err)
	}
	return nil
}
