package models

import (
	"time"

	"github.com/google/uuid"
)

// Resume is the stored record of an uploaded resume document. The file itself
// lives on disk at FilePath; only metadata is kept in the database.
type Resume struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FilePath         string    `gorm:"type:text" json:"-"`
	UploadedAt       time.Time `gorm:"type:timestamp;default:now()" json:"uploaded_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (r *Resume) TableName() string {
	return "resumes"
}

// JobDescription is the pasted free-text description of a target role. It is
// recorded before the generation call so a failed analysis still leaves an
// audit trail of what was requested.
type JobDescription struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (j *JobDescription) TableName() string {
	return "job_descriptions"
}
