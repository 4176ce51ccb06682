package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// VectorSearcher finds stored chunks close to an embedding.
type VectorSearcher interface {
	SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error)
}

type QdrantService interface {
	VectorSearcher
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, chunk GuidelineChunk, embedding []float32) error
	DeleteDocument(ctx context.Context, docID string) error
}

// GuidelineChunk is one piece of a reference document stored for retrieval.
type GuidelineChunk struct {
	DocID   string
	DocType string
	Index   int
	Text    string
}

// PointID is stable for a given document and chunk index, so re-ingesting a
// file overwrites its previous points.
func (c GuidelineChunk) PointID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", c.DocID, c.Index))).String()
}

type SearchResult struct {
	ID       string
	Score    float32
	Text     string
	DocType  string
	Metadata map[string]interface{}
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, vectorSize uint64, log *zap.Logger) (QdrantService, error) {
	host, port, useTLS, err := parseQdrantURL(urlStr)
	if err != nil {
		return nil, err
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

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		log:            log,
	}, nil
}

// parseQdrantURL maps an http(s) URL onto the gRPC client settings. The gRPC
// port defaults to 6334.
func parseQdrantURL(urlStr string) (string, int, bool, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid Qdrant URL: %w", err)
	}
	if parsed.Hostname() == "" {
		return "", 0, false, fmt.Errorf("invalid Qdrant URL %q: missing host", urlStr)
	}

	port := 6334
	if p := parsed.Port(); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, false, fmt.Errorf("invalid Qdrant port %q: %w", p, err)
		}
		port = v
	}

	return parsed.Hostname(), port, parsed.Scheme == "https", nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Info("✅ Collection already exists", zap.String("collection", q.collectionName))
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

	q.log.Info("✅ Qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// UpsertChunk implements QdrantService.
func (q *qdrantService) UpsertChunk(ctx context.Context, chunk GuidelineChunk, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(chunk.PointID()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"doc_id":      chunk.DocID,
			"doc_type":    chunk.DocType,
			"chunk_index": int64(chunk.Index),
			"text":        chunk.Text,
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

// SearchSimilar implements QdrantService.
func (q *qdrantService) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	var filter *qdrant.Filter
	if docType != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("doc_type", docType),
			},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, toSearchResult(point.Score, point.Payload))
	}

	return results, nil
}

func toSearchResult(score float32, payload map[string]*qdrant.Value) SearchResult {
	result := SearchResult{
		Score:    score,
		Metadata: make(map[string]interface{}, len(payload)),
	}

	for key, value := range payload {
		result.Metadata[key] = value
	}

	result.ID = payloadString(payload, "doc_id")
	result.Text = payloadString(payload, "text")
	result.DocType = payloadString(payload, "doc_type")

	return result
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
		return s.StringValue
	}
	return ""
}

// DeleteDocument implements QdrantService.
func (q *qdrantService) DeleteDocument(ctx context.Context, docID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("doc_id", docID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}
