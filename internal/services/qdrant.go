package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// VectorStore indexes completed analyses for semantic history search. Each
// analysis is one point; payloads carry enough to hydrate results from the
// database and to scope searches to the owning user.
type VectorStore interface {
	InitCollection(ctx context.Context) error
	UpsertAnalysis(ctx context.Context, analysisID, userID uuid.UUID, title string, embedding []float32) error
	SearchAnalyses(ctx context.Context, userID uuid.UUID, queryEmbedding []float32, limit int) ([]AnalysisMatch, error)
}

// AnalysisMatch is one semantic search hit.
type AnalysisMatch struct {
	AnalysisID uuid.UUID
	Score      float32
}

type qdrantStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantStore(urlStr, apiKey, collectionName string) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// Default to the gRPC port.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 dimension
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantStore) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// UpsertAnalysis implements VectorStore.
func (q *qdrantStore) UpsertAnalysis(ctx context.Context, analysisID, userID uuid.UUID, title string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(analysisID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"analysis_id":     analysisID.String(),
			"user_id":         userID.String(),
			"suggested_title": title,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchAnalyses implements VectorStore. Results are always filtered by the
// owning user so one user's history can never leak into another's search.
func (q *qdrantStore) SearchAnalyses(ctx context.Context, userID uuid.UUID, queryEmbedding []float32, limit int) ([]AnalysisMatch, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("user_id", userID.String()),
		},
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var matches []AnalysisMatch
	for _, point := range searchResult {
		idValue, ok := point.Payload["analysis_id"]
		if !ok {
			continue
		}
		strValue, ok := idValue.GetKind().(*qdrant.Value_StringValue)
		if !ok {
			continue
		}
		analysisID, err := uuid.Parse(strValue.StringValue)
		if err != nil {
			continue
		}
		matches = append(matches, AnalysisMatch{
			AnalysisID: analysisID,
			Score:      point.Score,
		})
	}

	return matches, nil
}
