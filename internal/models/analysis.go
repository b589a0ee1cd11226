package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisResult is the validated output of one analysis run. It is either
// fully present and schema-valid or it does not exist at all; partial results
// are never persisted.
type AnalysisResult struct {
	SuitabilityScore    int      `json:"suitability_score"`
	MatchingSkills      []string `json:"matching_skills"`
	MissingSkills       []string `json:"missing_skills"`
	SuggestedTitle      string   `json:"suggested_title"`
	TailoredSuggestions string   `json:"tailored_suggestions"`
}

// Value implements driver.Valuer so gorm persists the result as jsonb.
func (r AnalysisResult) Value() (driver.Value, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	return data, nil
}

// Scan implements sql.Scanner for reading the jsonb column back.
func (r *AnalysisResult) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for analysis result: %T", value)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("failed to unmarshal analysis result: %w", err)
	}
	return nil
}

// WithDisplayDefaults returns a copy with presentation defaults substituted
// for empty optional values. This is a display concern only; stored results
// are always schema-valid.
func (r AnalysisResult) WithDisplayDefaults() AnalysisResult {
	out := r
	if out.MatchingSkills == nil {
		out.MatchingSkills = []string{}
	}
	if out.MissingSkills == nil {
		out.MissingSkills = []string{}
	}
	if out.SuggestedTitle == "" {
		out.SuggestedTitle = "N/A"
	}
	return out
}

// Analysis associates one validated result with the (user, resume, job
// description) triple that produced it. Rows are immutable once created.
type Analysis struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ResumeID         uuid.UUID      `gorm:"type:uuid;not null" json:"resume_id"`
	JobDescriptionID uuid.UUID      `gorm:"type:uuid;not null" json:"job_description_id"`
	Result           AnalysisResult `gorm:"type:jsonb;not null" json:"result"`
	AnalyzedAt       time.Time      `gorm:"type:timestamp;default:now()" json:"analyzed_at"`

	User           User           `gorm:"foreignKey:UserID" json:"-"`
	Resume         Resume         `gorm:"foreignKey:ResumeID" json:"-"`
	JobDescription JobDescription `gorm:"foreignKey:JobDescriptionID" json:"-"`
}

func (a *Analysis) TableName() string {
	return "analyses"
}
