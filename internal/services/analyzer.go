package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-analyzer/internal/apperrors"
	"resume-analyzer/internal/models"
	"resume-analyzer/internal/repositories"
)

// AnalysisIndexer receives completed analyses for background vector indexing.
// Indexing is best-effort and never affects the analysis response.
type AnalysisIndexer interface {
	EnqueueAnalysis(analysis *models.Analysis, resumeText, jdText string)
}

// AnalyzerService runs one synchronous analysis: extract resume text, build
// the prompt, call the generation service, validate the completion, persist
// exactly one result. Any stage failure aborts the whole run; partial results
// are never persisted. No stage is retried automatically.
type AnalyzerService interface {
	Analyze(ctx context.Context, user *models.User, resumeID uuid.UUID, jdText string) (*models.Analysis, error)
}

type analyzerService struct {
	resumeRepo   repositories.ResumeRepository
	jdRepo       repositories.JobDescriptionRepository
	analysisRepo repositories.AnalysisRepository
	pdfParser    PDFParserService
	prompts      *PromptBuilder
	gemini       GeminiService
	normalizer   ResponseNormalizer
	indexer      AnalysisIndexer
	logger       *zap.Logger
}

func NewAnalyzerService(
	resumeRepo repositories.ResumeRepository,
	jdRepo repositories.JobDescriptionRepository,
	analysisRepo repositories.AnalysisRepository,
	pdfParser PDFParserService,
	gemini GeminiService,
	normalizer ResponseNormalizer,
	indexer AnalysisIndexer,
	logger *zap.Logger,
) AnalyzerService {
	return &analyzerService{
		resumeRepo:   resumeRepo,
		jdRepo:       jdRepo,
		analysisRepo: analysisRepo,
		pdfParser:    pdfParser,
		prompts:      NewPromptBuilder(),
		gemini:       gemini,
		normalizer:   normalizer,
		indexer:      indexer,
		logger:       logger,
	}
}

// Analyze implements AnalyzerService.
func (a *analyzerService) Analyze(ctx context.Context, user *models.User, resumeID uuid.UUID, jdText string) (*models.Analysis, error) {
	// Fail fast before any external call.
	if strings.TrimSpace(jdText) == "" {
		return nil, apperrors.NewValidationError(apperrors.CodeEmptyJobDescription,
			"job description text is required", nil)
	}

	resume, err := a.resumeRepo.FindByIDForUser(resumeID, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewValidationError(apperrors.CodeResumeNotFound,
				"resume not found", err)
		}
		return nil, apperrors.NewInternalError(apperrors.CodePersistenceFailed,
			"failed to load resume", err)
	}

	logger := a.logger.With(
		zap.String("user_id", user.ID.String()),
		zap.String("resume_id", resume.ID.String()),
	)

	resumeText, err := a.pdfParser.ExtractText(resume.FilePath)
	if err != nil {
		logger.Warn("resume text extraction failed", zap.Error(err))
		return nil, err
	}

	// The job description is recorded before generation so a failed run still
	// leaves an audit trail of what was requested.
	jd := &models.JobDescription{
		ID:        uuid.New(),
		UserID:    user.ID,
		Text:      jdText,
		CreatedAt: time.Now(),
	}
	if err := a.jdRepo.Create(jd); err != nil {
		return nil, apperrors.NewInternalError(apperrors.CodePersistenceFailed,
			"failed to record job description", err)
	}

	prompt := a.prompts.BuildAnalysisPrompt(resumeText, jd.Text)

	completion, err := a.gemini.GenerateText(ctx, prompt)
	if err != nil {
		logger.Warn("generation failed", zap.Error(err))
		return nil, err
	}

	result, err := a.normalizer.Normalize(completion)
	if err != nil {
		logger.Warn("completion failed validation", zap.Error(err))
		return nil, err
	}

	analysis := &models.Analysis{
		ID:               uuid.New(),
		UserID:           user.ID,
		ResumeID:         resume.ID,
		JobDescriptionID: jd.ID,
		Result:           *result,
		AnalyzedAt:       time.Now(),
	}
	if err := a.analysisRepo.Create(analysis); err != nil {
		return nil, apperrors.NewInternalError(apperrors.CodePersistenceFailed,
			"failed to persist analysis", err)
	}
	analysis.JobDescription = *jd

	if a.indexer != nil {
		a.indexer.EnqueueAnalysis(analysis, resumeText, jd.Text)
	}

	logger.Info("analysis completed",
		zap.String("analysis_id", analysis.ID.String()),
		zap.Int("suitability_score", result.SuitabilityScore))

	return analysis, nil
}
