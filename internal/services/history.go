package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"resume-analyzer/internal/models"
	"resume-analyzer/internal/repositories"
)

// HistoryService lists a user's past analyses and runs semantic search over
// them via the vector store.
type HistoryService interface {
	List(user *models.User) ([]models.Analysis, error)
	Search(ctx context.Context, user *models.User, query string, limit int) ([]models.Analysis, []float32, error)
}

type historyService struct {
	analysisRepo repositories.AnalysisRepository
	gemini       GeminiService
	vectorStore  VectorStore
}

func NewHistoryService(
	analysisRepo repositories.AnalysisRepository,
	gemini GeminiService,
	vectorStore VectorStore,
) HistoryService {
	return &historyService{
		analysisRepo: analysisRepo,
		gemini:       gemini,
		vectorStore:  vectorStore,
	}
}

// List implements HistoryService, most recent first.
func (h *historyService) List(user *models.User) ([]models.Analysis, error) {
	return h.analysisRepo.ListByUser(user.ID)
}

// Search implements HistoryService. The returned similarity scores are
// parallel to the analyses slice, ordered by descending similarity.
func (h *historyService) Search(ctx context.Context, user *models.User, query string, limit int) ([]models.Analysis, []float32, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil, errors.New("search query is required")
	}
	if limit < 1 {
		limit = 10
	}

	embedding, err := h.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	matches, err := h.vectorStore.SearchAnalyses(ctx, user.ID, embedding, limit)
	if err != nil {
		return nil, nil, err
	}
	if len(matches) == 0 {
		return nil, nil, nil
	}

	ids := make([]uuid.UUID, len(matches))
	scoreByID := make(map[uuid.UUID]float32, len(matches))
	for i, match := range matches {
		ids[i] = match.AnalysisID
		scoreByID[match.AnalysisID] = match.Score
	}

	analyses, err := h.analysisRepo.FindByIDsForUser(ids, user.ID)
	if err != nil {
		return nil, nil, err
	}

	// Re-order hydrated rows to match the vector ranking.
	byID := make(map[uuid.UUID]models.Analysis, len(analyses))
	for _, analysis := range analyses {
		byID[analysis.ID] = analysis
	}

	ordered := make([]models.Analysis, 0, len(matches))
	scores := make([]float32, 0, len(matches))
	for _, match := range matches {
		if analysis, ok := byID[match.AnalysisID]; ok {
			ordered = append(ordered, analysis)
			scores = append(scores, scoreByID[match.AnalysisID])
		}
	}

	return ordered, scores, nil
}
