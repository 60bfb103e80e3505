package services

import "jobpilot/api/internal/models"

// DisclosureThreshold is the score below which generated artifacts are
// withheld from the caller.
const DisclosureThreshold = 40

// ApplyDisclosurePolicy enforces the score gate on a parsed verdict. The
// model is asked to apply this rule itself, but it is an untrusted input
// source for this decision, so the gate is re-applied here unconditionally.
// Pure and total: never fails, returns the (possibly redacted) result.
func ApplyDisclosurePolicy(result *models.AssessmentResult) *models.AssessmentResult {
	if result.QualificationScore < DisclosureThreshold {
		result.CoverLetter = nil
		result.EmailDraft = nil
	}
	return result
}
