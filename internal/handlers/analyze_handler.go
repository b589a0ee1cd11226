package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resume-analyzer/internal/apperrors"
	"resume-analyzer/internal/models"
	"resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.AnalyzerService
}

func NewAnalyzeHandler(analyzer services.AnalyzerService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	user := CurrentUser(c)

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request payload",
			Kind:  string(apperrors.KindValidation),
		})
	}

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid resume_id format",
			Kind:  string(apperrors.KindValidation),
		})
	}

	analysis, err := h.analyzer.Analyze(c.UserContext(), user, resumeID, req.JDText)
	if err != nil {
		return writeAnalysisError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.AnalyzeResponse{
		ID:                 analysis.ID.String(),
		Result:             analysis.Result,
		JobDescriptionText: analysis.JobDescription.Text,
		AnalyzedAt:         analysis.AnalyzedAt,
	})
}

// writeAnalysisError maps the pipeline error taxonomy to HTTP statuses:
// validation failures are the caller's to fix (400, 404 for an unknown
// resume); everything else is a server-side failure (500) with a retryable
// hint for generation and parse failures.
func writeAnalysisError(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)

	status := fiber.StatusInternalServerError
	if kind == apperrors.KindValidation {
		status = fiber.StatusBadRequest
		if apperrors.CodeOf(err) == apperrors.CodeResumeNotFound {
			status = fiber.StatusNotFound
		}
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error:     err.Error(),
		Kind:      string(kind),
		Retryable: apperrors.Retryable(err),
	})
}
