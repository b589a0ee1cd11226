package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resume-analyzer/internal/models"
	"resume-analyzer/internal/services"
)

type HistoryHandler struct {
	historyService services.HistoryService
}

func NewHistoryHandler(historyService services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// HandleList handles GET /history
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	user := CurrentUser(c)

	analyses, err := h.historyService.List(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch history",
		})
	}

	items := make([]models.HistoryItem, 0, len(analyses))
	for _, analysis := range analyses {
		items = append(items, historyItem(analysis))
	}

	return c.JSON(items)
}

// HandleSearch handles GET /history/search?q=
func (h *HistoryHandler) HandleSearch(c *fiber.Ctx) error {
	user := CurrentUser(c)

	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter 'q' is required",
		})
	}
	limit := c.QueryInt("limit", 10)

	analyses, scores, err := h.historyService.Search(c.UserContext(), user, query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search history",
		})
	}

	items := make([]models.SearchResultItem, 0, len(analyses))
	for i, analysis := range analyses {
		items = append(items, models.SearchResultItem{
			HistoryItem: historyItem(analysis),
			Similarity:  scores[i],
		})
	}

	return c.JSON(items)
}

func historyItem(analysis models.Analysis) models.HistoryItem {
	return models.HistoryItem{
		ID:                 analysis.ID.String(),
		Result:             analysis.Result.WithDisplayDefaults(),
		JobDescriptionText: analysis.JobDescription.Text,
		AnalyzedAt:         analysis.AnalyzedAt,
	}
}
