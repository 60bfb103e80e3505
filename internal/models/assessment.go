package models

type MatchLevel string

const (
	MatchPoor   MatchLevel = "poor"
	MatchFair   MatchLevel = "fair"
	MatchStrong MatchLevel = "strong"
)

// ValidMatchLevel reports whether the value is one of the accepted tiers.
func ValidMatchLevel(level MatchLevel) bool {
	switch level {
	case MatchPoor, MatchFair, MatchStrong:
		return true
	}
	return false
}

type AssessRequest struct {
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description,omitempty"`
	CandidateName  string `json:"candidate_name,omitempty"`
}

// AssessmentResult is the structured verdict returned to the caller.
// CoverLetter and EmailDraft must be nil whenever QualificationScore
// is below the disclosure threshold, no matter what the model produced.
type AssessmentResult struct {
	QualificationScore     int        `json:"qualification_score"`
	MatchLevel             MatchLevel `json:"match_level"`
	Reasoning              []string   `json:"reasoning"`
	CoverLetter            *string    `json:"cover_letter"`
	EmailDraft             *string    `json:"email_draft"`
	Warnings               []string   `json:"warnings"`
	ImprovementSuggestions []string   `json:"improvement_suggestions"`
}
