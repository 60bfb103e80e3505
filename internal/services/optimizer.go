package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"jobpilot/api/internal/models"
)

// OptimizerService rewrites a CV against a specific job description. No
// disclosure gating applies here; the do-not-fabricate rule is enforced at
// the prompt level and cannot be verified post-hoc.
type OptimizerService interface {
	Optimize(ctx context.Context, userID string, req *models.OptimizeRequest) (*models.OptimizationResult, error)
}

type optimizerService struct {
	validator *Validator
	composer  *Composer
	gateway   ModelGateway
	recorder  Recorder
	logger    *zap.Logger
}

func NewOptimizerService(
	validator *Validator,
	composer *Composer,
	gateway ModelGateway,
	recorder Recorder,
	logger *zap.Logger,
) OptimizerService {
	return &optimizerService{
		validator: validator,
		composer:  composer,
		gateway:   gateway,
		recorder:  recorder,
		logger:    logger,
	}
}

func (s *optimizerService) Optimize(ctx context.Context, userID string, req *models.OptimizeRequest) (*models.OptimizationResult, error) {
	start := time.Now()

	cvText, jobDescription, err := s.validator.NormalizeOptimizeRequest(req)
	if err != nil {
		return nil, err
	}

	prompt := s.composer.BuildOptimizationPrompt(cvText, jobDescription)

	out, err := s.gateway.Generate(ctx, prompt, 0.4)
	if err != nil {
		return nil, err
	}

	result, err := ParseOptimizationResult(out.Text)
	if err != nil {
		s.logger.Warn("optimization response rejected",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	s.recorder.Record(ctx, RecordEntry{
		UserID:       userID,
		Action:       models.RequestOptimization,
		Content:      cvText,
		Timestamp:    start,
		Model:        out.Model,
		InputTokens:  out.InputTokens,
		OutputTokens: out.OutputTokens,
		Decision:     result,
		Latency:      time.Since(start),
	})

	s.logger.Info("cv optimization completed",
		zap.String("user_id", userID),
		zap.Int("changes", len(result.ChangesSummary)),
		zap.Duration("latency", time.Since(start)),
	)

	return result, nil
}
