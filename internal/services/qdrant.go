package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
)

// NoteStore holds embeddings of past research notes so new briefs can be
// grounded in what was already gathered.
type NoteStore interface {
	InitCollection(ctx context.Context) error
	UpsertNote(ctx context.Context, noteID, company, text string, embedding []float32) error
	SearchNotes(ctx context.Context, queryEmbedding []float32, limit int) ([]NoteResult, error)
}

type NoteResult struct {
	ID      string
	Score   float32
	Company string
	Text    string
}

type qdrantNoteStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantNoteStore(urlStr, apiKey, collectionName string) (NoteStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, 6334 unless the URL says otherwise.
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

	return &qdrantNoteStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements NoteStore.
func (q *qdrantNoteStore) InitCollection(ctx context.Context) error {
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

// UpsertNote implements NoteStore.
func (q *qdrantNoteStore) UpsertNote(ctx context.Context, noteID, company, text string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(noteID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"company": company,
			"text":    text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}

	return nil
}

// SearchNotes implements NoteStore.
func (q *qdrantNoteStore) SearchNotes(ctx context.Context, queryEmbedding []float32, limit int) ([]NoteResult, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	var results []NoteResult
	for _, point := range searchResult {
		result := NoteResult{Score: point.Score}

		if id := point.Id.GetUuid(); id != "" {
			result.ID = id
		}

		payload := point.Payload
		if company, ok := payload["company"]; ok {
			if val, ok := company.GetKind().(*qdrant.Value_StringValue); ok {
				result.Company = val.StringValue
			}
		}
		if text, ok := payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				result.Text = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}
