package models

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}

type AnalyzeRequest struct {
	ResumeID string `json:"resume_id"`
	JDText   string `json:"jd_text"`
}

type AnalyzeResponse struct {
	ID                 string         `json:"id"`
	Result             AnalysisResult `json:"result"`
	JobDescriptionText string         `json:"job_description_text"`
	AnalyzedAt         time.Time      `json:"analyzed_at"`
}

type HistoryItem struct {
	ID                 string         `json:"id"`
	Result             AnalysisResult `json:"result"`
	JobDescriptionText string         `json:"job_description_text"`
	AnalyzedAt         time.Time      `json:"analyzed_at"`
}

type SearchResultItem struct {
	HistoryItem
	Similarity float32 `json:"similarity"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}
