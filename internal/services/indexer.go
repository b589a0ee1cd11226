package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-analyzer/internal/models"
)

type indexJob struct {
	analysisID uuid.UUID
	userID     uuid.UUID
	title      string
	digest     string
}

// Indexer embeds completed analyses and upserts them into the vector store in
// the background. Indexing is best-effort: failures are logged and dropped,
// never surfaced to the request that produced the analysis.
type Indexer interface {
	AnalysisIndexer
	Start(ctx context.Context)
	Stop()
}

type indexer struct {
	gemini      GeminiService
	vectorStore VectorStore
	jobQueue    chan indexJob
	concurrency int
	wg          sync.WaitGroup
	stopOnce    sync.Once
	stopChan    chan struct{}
	logger      *zap.Logger
}

func NewIndexer(
	gemini GeminiService,
	vectorStore VectorStore,
	concurrency int,
	queueSize int,
	logger *zap.Logger,
) Indexer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &indexer{
		gemini:      gemini,
		vectorStore: vectorStore,
		jobQueue:    make(chan indexJob, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger,
	}
}

// Start implements Indexer.
func (w *indexer) Start(ctx context.Context) {
	w.logger.Info("starting analysis indexer", zap.Int("concurrency", w.concurrency))
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Indexer.
func (w *indexer) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("analysis indexer stopped")
}

// EnqueueAnalysis implements AnalysisIndexer. Drops the job when the queue is
// full or the indexer is stopping; indexing must never block an analysis
// response.
func (w *indexer) EnqueueAnalysis(analysis *models.Analysis, resumeText, jdText string) {
	job := indexJob{
		analysisID: analysis.ID,
		userID:     analysis.UserID,
		title:      analysis.Result.SuggestedTitle,
		digest:     indexDigest(analysis.Result, resumeText, jdText),
	}

	select {
	case <-w.stopChan:
		w.logger.Warn("indexer stopped, dropping job",
			zap.String("analysis_id", job.analysisID.String()))
	case w.jobQueue <- job:
	default:
		w.logger.Warn("index queue full, dropping job",
			zap.String("analysis_id", job.analysisID.String()))
	}
}

func (w *indexer) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case job := <-w.jobQueue:
			if err := w.index(ctx, job); err != nil {
				w.logger.Warn("failed to index analysis",
					zap.Int("worker", workerID),
					zap.String("analysis_id", job.analysisID.String()),
					zap.Error(err))
			}
		}
	}
}

func (w *indexer) index(ctx context.Context, job indexJob) error {
	embedding, err := w.gemini.GenerateEmbedding(ctx, job.digest)
	if err != nil {
		return err
	}
	return w.vectorStore.UpsertAnalysis(ctx, job.analysisID, job.userID, job.title, embedding)
}

// indexDigest builds the text embedded for one analysis: the suggested title
// and skills anchor the vector, followed by the job description and a bounded
// slice of the resume.
func indexDigest(result models.AnalysisResult, resumeText, jdText string) string {
	const maxSection = 4000
	if len(resumeText) > maxSection {
		resumeText = resumeText[:maxSection]
	}
	if len(jdText) > maxSection {
		jdText = jdText[:maxSection]
	}
	return fmt.Sprintf("%s\nMatching skills: %v\nMissing skills: %v\n\nJob description:\n%s\n\nResume:\n%s",
		result.SuggestedTitle, result.MatchingSkills, result.MissingSkills, jdText, resumeText)
}
