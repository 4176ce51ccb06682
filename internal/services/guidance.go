package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// GuidanceService retrieves resume-writing guidelines relevant to a query.
type GuidanceService interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

type guidanceService struct {
	embedder Embedder
	searcher VectorSearcher
	docType  string
	limit    int
	log      *zap.Logger
}

func NewGuidanceService(embedder Embedder, searcher VectorSearcher, docType string, limit int, log *zap.Logger) GuidanceService {
	if limit <= 0 {
		limit = 3
	}

	return &guidanceService{
		embedder: embedder,
		searcher: searcher,
		docType:  docType,
		limit:    limit,
		log:      log,
	}
}

// Retrieve implements GuidanceService. An empty query yields no guidance.
func (g *guidanceService) Retrieve(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	embedding, err := g.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed guidance query: %w", err)
	}

	results, err := g.searcher.SearchSimilar(ctx, embedding, g.docType, g.limit)
	if err != nil {
		return "", fmt.Errorf("failed to search guidelines: %w", err)
	}

	g.log.Debug("guidance retrieved", zap.Int("chunks", len(results)))

	return FormatRAGContext(results), nil
}
