package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"jobpilot/api/internal/models"
)

// AssessorService runs the assessment pipeline: validate, compose, call
// the model, parse, apply the disclosure gate, record. Linear, no retries,
// no partial results: any failure short-circuits to the caller.
type AssessorService interface {
	Assess(ctx context.Context, userID string, req *models.AssessRequest) (*models.AssessmentResult, error)
}

type assessorService struct {
	validator *Validator
	composer  *Composer
	gateway   ModelGateway
	recorder  Recorder
	logger    *zap.Logger
}

func NewAssessorService(
	validator *Validator,
	composer *Composer,
	gateway ModelGateway,
	recorder Recorder,
	logger *zap.Logger,
) AssessorService {
	return &assessorService{
		validator: validator,
		composer:  composer,
		gateway:   gateway,
		recorder:  recorder,
		logger:    logger,
	}
}

func (s *assessorService) Assess(ctx context.Context, userID string, req *models.AssessRequest) (*models.AssessmentResult, error) {
	start := time.Now()

	norm, err := s.validator.NormalizeAssessRequest(req)
	if err != nil {
		return nil, err
	}

	prompt := s.composer.BuildAssessmentPrompt(norm)

	out, err := s.gateway.Generate(ctx, prompt, 0.3)
	if err != nil {
		return nil, err
	}

	result, err := ParseAssessmentResult(out.Text)
	if err != nil {
		s.logger.Warn("assessment response rejected",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	result = ApplyDisclosurePolicy(result)

	// Recorder failures are logged inside Record and never mask the
	// already-computed result.
	s.recorder.Record(ctx, RecordEntry{
		UserID:       userID,
		Action:       models.RequestAssessment,
		Content:      norm.CVText,
		Timestamp:    start,
		Model:        out.Model,
		InputTokens:  out.InputTokens,
		OutputTokens: out.OutputTokens,
		Decision:     result,
		Warnings:     result.Warnings,
		Latency:      time.Since(start),
	})

	s.logger.Info("assessment completed",
		zap.String("user_id", userID),
		zap.Int("qualification_score", result.QualificationScore),
		zap.String("match_level", string(result.MatchLevel)),
		zap.Bool("generic_review", norm.GenericReview),
		zap.Duration("latency", time.Since(start)),
	)

	return result, nil
}
