package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/apperrors"
	"resume-analyzer/internal/models"
)

type stubAnalyzer struct {
	analysis    *models.Analysis
	err         error
	gotResumeID uuid.UUID
	gotJDText   string
	calls       int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ *models.User, resumeID uuid.UUID, jdText string) (*models.Analysis, error) {
	s.calls++
	s.gotResumeID = resumeID
	s.gotJDText = jdText
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

func newAnalyzeApp(analyzer *stubAnalyzer) *fiber.App {
	user := &models.User{ID: uuid.New(), Username: "alice"}
	app := fiber.New()
	app.Post("/analyze", func(c *fiber.Ctx) error {
		c.Locals(userLocalKey, user)
		return c.Next()
	}, NewAnalyzeHandler(analyzer).HandleAnalyze)
	return app
}

func postAnalyze(t *testing.T, app *fiber.App, body string) (int, models.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/analyze", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var errResp models.ErrorResponse
	if resp.StatusCode >= 400 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	}
	return resp.StatusCode, errResp
}

func TestHandleAnalyze_Success(t *testing.T) {
	resumeID := uuid.New()
	analysis := &models.Analysis{
		ID:       uuid.New(),
		ResumeID: resumeID,
		Result: models.AnalysisResult{
			SuitabilityScore: 90,
			MatchingSkills:   []string{"Go"},
			MissingSkills:    []string{"Rust"},
			SuggestedTitle:   "Engineer",
		},
		JobDescription: models.JobDescription{Text: "the jd"},
		AnalyzedAt:     time.Now(),
	}
	analyzer := &stubAnalyzer{analysis: analysis}
	app := newAnalyzeApp(analyzer)

	body, _ := json.Marshal(models.AnalyzeRequest{ResumeID: resumeID.String(), JDText: "the jd"})
	req := httptest.NewRequest("POST", "/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out models.AnalyzeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, analysis.ID.String(), out.ID)
	assert.Equal(t, 90, out.Result.SuitabilityScore)
	assert.Equal(t, "the jd", out.JobDescriptionText)

	assert.Equal(t, resumeID, analyzer.gotResumeID)
	assert.Equal(t, "the jd", analyzer.gotJDText)
}

func TestHandleAnalyze_MalformedBody(t *testing.T) {
	analyzer := &stubAnalyzer{}
	app := newAnalyzeApp(analyzer)

	status, errResp := postAnalyze(t, app, "{not json")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, string(apperrors.KindValidation), errResp.Kind)
	assert.Equal(t, 0, analyzer.calls)
}

func TestHandleAnalyze_InvalidResumeID(t *testing.T) {
	analyzer := &stubAnalyzer{}
	app := newAnalyzeApp(analyzer)

	status, errResp := postAnalyze(t, app, `{"resume_id": "not-a-uuid", "jd_text": "jd"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, string(apperrors.KindValidation), errResp.Kind)
	assert.Equal(t, 0, analyzer.calls)
}

func TestHandleAnalyze_EmptyJobDescription(t *testing.T) {
	analyzer := &stubAnalyzer{err: apperrors.NewValidationError(
		apperrors.CodeEmptyJobDescription, "job description text is required", nil)}
	app := newAnalyzeApp(analyzer)

	status, errResp := postAnalyze(t, app,
		`{"resume_id": "`+uuid.NewString()+`", "jd_text": ""}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, string(apperrors.KindValidation), errResp.Kind)
	assert.False(t, errResp.Retryable)
}

func TestHandleAnalyze_ResumeNotFound(t *testing.T) {
	analyzer := &stubAnalyzer{err: apperrors.NewValidationError(
		apperrors.CodeResumeNotFound, "resume not found", nil)}
	app := newAnalyzeApp(analyzer)

	status, errResp := postAnalyze(t, app,
		`{"resume_id": "`+uuid.NewString()+`", "jd_text": "jd"}`)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, string(apperrors.KindValidation), errResp.Kind)
}

func TestHandleAnalyze_ExtractionError(t *testing.T) {
	analyzer := &stubAnalyzer{err: apperrors.NewExtractionError(
		apperrors.CodeUnreadableDocument, "failed to open PDF", nil)}
	app := newAnalyzeApp(analyzer)

	status, errResp := postAnalyze(t, app,
		`{"resume_id": "`+uuid.NewString()+`", "jd_text": "jd"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, string(apperrors.KindExtraction), errResp.Kind)
	assert.False(t, errResp.Retryable)
}

func TestHandleAnalyze_GenerationError(t *testing.T) {
	analyzer := &stubAnalyzer{err: apperrors.NewGenerationError(
		apperrors.CodeGenerationTimeout, "generation request timed out", nil)}
	app := newAnalyzeApp(analyzer)

	status, errResp := postAnalyze(t, app,
		`{"resume_id": "`+uuid.NewString()+`", "jd_text": "jd"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, string(apperrors.KindGeneration), errResp.Kind)
	assert.True(t, errResp.Retryable)
}

func TestHandleAnalyze_ParseError(t *testing.T) {
	analyzer := &stubAnalyzer{err: apperrors.NewParseError(
		apperrors.CodeSchemaViolation, "completion violates result schema", nil)}
	app := newAnalyzeApp(analyzer)

	status, errResp := postAnalyze(t, app,
		`{"resume_id": "`+uuid.NewString()+`", "jd_text": "jd"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, string(apperrors.KindParse), errResp.Kind)
	assert.True(t, errResp.Retryable)
}
