package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobpilot/api/internal/models"
)

// ResearchService produces a company brief for a candidate, grounded in
// similar notes gathered earlier. Retrieval failures degrade to an
// uncontextualized brief instead of failing the request.
type ResearchService interface {
	Research(ctx context.Context, userID string, req *models.ResearchRequest) (*models.ResearchResult, error)
}

type researchService struct {
	composer  *Composer
	gateway   ModelGateway
	noteStore NoteStore
	recorder  Recorder
	logger    *zap.Logger
}

func NewResearchService(
	composer *Composer,
	gateway ModelGateway,
	noteStore NoteStore,
	recorder Recorder,
	logger *zap.Logger,
) ResearchService {
	return &researchService{
		composer:  composer,
		gateway:   gateway,
		noteStore: noteStore,
		recorder:  recorder,
		logger:    logger,
	}
}

func (s *researchService) Research(ctx context.Context, userID string, req *models.ResearchRequest) (*models.ResearchResult, error) {
	start := time.Now()

	company := strings.TrimSpace(req.Company)
	if company == "" {
		return nil, &ValidationError{Field: "company", Reason: "required"}
	}
	role := strings.TrimSpace(req.Role)

	priorNotes := s.retrievePriorNotes(ctx, company, role)

	prompt := s.composer.BuildResearchPrompt(company, role, priorNotes)

	out, err := s.gateway.Generate(ctx, prompt, 0.5)
	if err != nil {
		return nil, err
	}

	result, err := ParseResearchResult(out.Text)
	if err != nil {
		s.logger.Warn("research response rejected",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	s.storeNote(ctx, company, result)

	s.recorder.Record(ctx, RecordEntry{
		UserID:       userID,
		Action:       models.RequestResearch,
		Content:      company,
		Timestamp:    start,
		Model:        out.Model,
		InputTokens:  out.InputTokens,
		OutputTokens: out.OutputTokens,
		Decision:     result,
		Latency:      time.Since(start),
	})

	s.logger.Info("company research completed",
		zap.String("user_id", userID),
		zap.String("company", company),
		zap.Duration("latency", time.Since(start)),
	)

	return result, nil
}

func (s *researchService) retrievePriorNotes(ctx context.Context, company, role string) string {
	query := company
	if role != "" {
		query = fmt.Sprintf("%s %s", company, role)
	}

	embedding, err := s.gateway.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("failed to embed research query", zap.Error(err))
		return ""
	}

	notes, err := s.noteStore.SearchNotes(ctx, embedding, 3)
	if err != nil {
		s.logger.Warn("failed to search research notes", zap.Error(err))
		return ""
	}

	if len(notes) == 0 {
		return ""
	}

	var parts []string
	for _, note := range notes {
		parts = append(parts, fmt.Sprintf("--- %s (relevance %.2f) ---\n%s",
			note.Company, note.Score, strings.TrimSpace(note.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func (s *researchService) storeNote(ctx context.Context, company string, result *models.ResearchResult) {
	text, err := json.Marshal(result)
	if err != nil {
		return
	}

	embedding, err := s.gateway.Embed(ctx, string(text))
	if err != nil {
		s.logger.Warn("failed to embed research note", zap.Error(err))
		return
	}

	noteID := uuid.New().String()
	if err := s.noteStore.UpsertNote(ctx, noteID, company, string(text), embedding); err != nil {
		s.logger.Warn("failed to store research note",
			zap.String("company", company),
			zap.Error(err),
		)
	}
}
