package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"jobpilot/api/internal/models"
)

// Input bounds applied before composing a prompt, to bound cost and latency.
// Truncation is silent for the caller but logged.
const (
	maxCVChars  = 20000
	maxJobChars = 5000
)

// NormalizedAssessRequest is an AssessRequest after validation, trimming
// and truncation. GenericReview marks the no-job-description branch: the
// prompt composer substitutes the quality-review rubric, which changes the
// meaning of the score, not just the text around it.
type NormalizedAssessRequest struct {
	CVText         string
	JobDescription string
	CandidateName  string
	GenericReview  bool
}

type Validator struct {
	logger *zap.Logger
}

func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{logger: logger}
}

func (v *Validator) NormalizeAssessRequest(req *models.AssessRequest) (*NormalizedAssessRequest, error) {
	cvText := strings.TrimSpace(req.CVText)
	if cvText == "" {
		return nil, &ValidationError{Field: "cv_text", Reason: "required"}
	}

	if len(cvText) > maxCVChars {
		v.logger.Warn("cv_text truncated",
			zap.Int("original_chars", len(cvText)),
			zap.Int("max_chars", maxCVChars),
		)
		cvText = cvText[:maxCVChars]
	}

	jobDescription := strings.TrimSpace(req.JobDescription)
	genericReview := jobDescription == ""

	if len(jobDescription) > maxJobChars {
		v.logger.Warn("job_description truncated",
			zap.Int("original_chars", len(jobDescription)),
			zap.Int("max_chars", maxJobChars),
		)
		jobDescription = jobDescription[:maxJobChars]
	}

	return &NormalizedAssessRequest{
		CVText:         cvText,
		JobDescription: jobDescription,
		CandidateName:  strings.TrimSpace(req.CandidateName),
		GenericReview:  genericReview,
	}, nil
}

// NormalizeOptimizeRequest validates the optimization flow input. Unlike
// assessment there is no generic fallback: both fields are required.
func (v *Validator) NormalizeOptimizeRequest(req *models.OptimizeRequest) (cvText, jobDescription string, err error) {
	cvText = strings.TrimSpace(req.CVText)
	if cvText == "" {
		return "", "", &ValidationError{Field: "cv_text", Reason: "required"}
	}

	jobDescription = strings.TrimSpace(req.JobDescription)
	if jobDescription == "" {
		return "", "", &ValidationError{Field: "job_description", Reason: "required"}
	}

	if len(cvText) > maxCVChars {
		v.logger.Warn("cv_text truncated", zap.Int("original_chars", len(cvText)))
		cvText = cvText[:maxCVChars]
	}
	if len(jobDescription) > maxJobChars {
		v.logger.Warn("job_description truncated", zap.Int("original_chars", len(jobDescription)))
		jobDescription = jobDescription[:maxJobChars]
	}

	return cvText, jobDescription, nil
}

// ParseAssessmentResult strictly validates the structural fields of the
// model's verdict. Free-text sequences are accepted as-is: that lenience
// boundary is deliberate.
func ParseAssessmentResult(raw string) (*models.AssessmentResult, error) {
	cleaned := extractJSON(raw)

	var payload struct {
		QualificationScore     any      `json:"qualification_score"`
		MatchLevel             string   `json:"match_level"`
		Reasoning              []string `json:"reasoning"`
		CoverLetter            *string  `json:"cover_letter"`
		EmailDraft             *string  `json:"email_draft"`
		Warnings               []string `json:"warnings"`
		ImprovementSuggestions []string `json:"improvement_suggestions"`
	}

	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	score, ok := payload.QualificationScore.(float64)
	if !ok {
		return nil, &SchemaError{Reason: "qualification_score must be a number"}
	}
	if score < 0 || score > 100 {
		return nil, &SchemaError{Reason: fmt.Sprintf("qualification_score %v out of range [0,100]", score)}
	}

	level := models.MatchLevel(payload.MatchLevel)
	if !models.ValidMatchLevel(level) {
		return nil, &SchemaError{Reason: fmt.Sprintf("match_level %q not in {poor, fair, strong}", payload.MatchLevel)}
	}

	return &models.AssessmentResult{
		QualificationScore:     int(score),
		MatchLevel:             level,
		Reasoning:              payload.Reasoning,
		CoverLetter:            payload.CoverLetter,
		EmailDraft:             payload.EmailDraft,
		Warnings:               payload.Warnings,
		ImprovementSuggestions: payload.ImprovementSuggestions,
	}, nil
}

func ParseOptimizationResult(raw string) (*models.OptimizationResult, error) {
	cleaned := extractJSON(raw)

	var result models.OptimizationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if strings.TrimSpace(result.OptimizedText) == "" {
		return nil, &SchemaError{Reason: "optimized_text is empty"}
	}

	return &result, nil
}

func ParseResearchResult(raw string) (*models.ResearchResult, error) {
	cleaned := extractJSON(raw)

	var result models.ResearchResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if strings.TrimSpace(result.Overview) == "" {
		return nil, &SchemaError{Reason: "overview is empty"}
	}

	return &result, nil
}

// extractJSON strips markdown fences and isolates the outermost JSON
// object, since models occasionally wrap their output despite the
// instructions.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}
