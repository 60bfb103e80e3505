package services

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"jobpilot/api/internal/models"
)

func TestNormalizeAssessRequest(t *testing.T) {
	v := NewValidator(zap.NewNop())

	t.Run("missing cv_text", func(t *testing.T) {
		_, err := v.NormalizeAssessRequest(&models.AssessRequest{})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.Field != "cv_text" {
			t.Fatalf("expected cv_text field, got %s", vErr.Field)
		}
	})

	t.Run("blank cv_text", func(t *testing.T) {
		_, err := v.NormalizeAssessRequest(&models.AssessRequest{CVText: "   \n\t  "})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("blank job description flags generic review", func(t *testing.T) {
		norm, err := v.NormalizeAssessRequest(&models.AssessRequest{
			CVText:         "Senior engineer, 5 YOE, led team of 4",
			JobDescription: "  ",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !norm.GenericReview {
			t.Fatal("expected generic review flag when job description is blank")
		}
	})

	t.Run("job description present", func(t *testing.T) {
		norm, err := v.NormalizeAssessRequest(&models.AssessRequest{
			CVText:         "Senior engineer",
			JobDescription: "Go developer, 3+ years",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if norm.GenericReview {
			t.Fatal("expected job-fit assessment when job description is present")
		}
	})

	t.Run("truncation is silent", func(t *testing.T) {
		norm, err := v.NormalizeAssessRequest(&models.AssessRequest{
			CVText:         strings.Repeat("a", maxCVChars+500),
			JobDescription: strings.Repeat("b", maxJobChars+500),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(norm.CVText) != maxCVChars {
			t.Fatalf("expected cv_text truncated to %d, got %d", maxCVChars, len(norm.CVText))
		}
		if len(norm.JobDescription) != maxJobChars {
			t.Fatalf("expected job_description truncated to %d, got %d", maxJobChars, len(norm.JobDescription))
		}
	})
}

func TestNormalizeOptimizeRequest(t *testing.T) {
	v := NewValidator(zap.NewNop())

	cases := []struct {
		name      string
		req       models.OptimizeRequest
		wantField string
	}{
		{
			name:      "missing cv_text",
			req:       models.OptimizeRequest{JobDescription: "Go developer"},
			wantField: "cv_text",
		},
		{
			name:      "missing job_description",
			req:       models.OptimizeRequest{CVText: "Engineer"},
			wantField: "job_description",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := v.NormalizeOptimizeRequest(&tc.req)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tc.wantField {
				t.Fatalf("expected field %s, got %s", tc.wantField, vErr.Field)
			}
		})
	}

	t.Run("both present", func(t *testing.T) {
		cv, job, err := v.NormalizeOptimizeRequest(&models.OptimizeRequest{
			CVText:         " Engineer ",
			JobDescription: " Go developer ",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cv != "Engineer" || job != "Go developer" {
			t.Fatalf("expected trimmed fields, got %q / %q", cv, job)
		}
	})
}

func TestParseAssessmentResult(t *testing.T) {
	valid := `{
		"qualification_score": 72,
		"match_level": "strong",
		"reasoning": ["Solid backend experience"],
		"cover_letter": "<p>Dear team</p>",
		"email_draft": "Hello",
		"warnings": [],
		"improvement_suggestions": ["Quantify impact"]
	}`

	t.Run("valid payload", func(t *testing.T) {
		result, err := ParseAssessmentResult(valid)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.QualificationScore != 72 {
			t.Fatalf("expected score 72, got %d", result.QualificationScore)
		}
		if result.MatchLevel != models.MatchStrong {
			t.Fatalf("expected strong, got %s", result.MatchLevel)
		}
		if result.CoverLetter == nil || *result.CoverLetter != "<p>Dear team</p>" {
			t.Fatal("expected cover letter to be preserved")
		}
	})

	t.Run("markdown-fenced payload", func(t *testing.T) {
		fenced := "```json\n" + valid + "\n```"
		result, err := ParseAssessmentResult(fenced)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.QualificationScore != 72 {
			t.Fatalf("expected score 72, got %d", result.QualificationScore)
		}
	})

	rejects := []struct {
		name string
		raw  string
	}{
		{
			name: "non-numeric score",
			raw:  `{"qualification_score": "high", "match_level": "fair"}`,
		},
		{
			name: "score out of range",
			raw:  `{"qualification_score": 140, "match_level": "fair"}`,
		},
		{
			name: "match_level outside domain",
			raw:  `{"qualification_score": 80, "match_level": "excellent"}`,
		},
		{
			name: "missing match_level",
			raw:  `{"qualification_score": 80}`,
		},
		{
			name: "not JSON at all",
			raw:  `the candidate looks great`,
		},
	}

	for _, tc := range rejects {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAssessmentResult(tc.raw)

			var sErr *SchemaError
			if !errors.As(err, &sErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
		})
	}
}

func TestParseOptimizationResult(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		result, err := ParseOptimizationResult(`{
			"optimized_text": "Rewritten CV",
			"changes_summary": ["Reordered skills", "Tightened summary", "Surfaced Go experience"]
		}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.OptimizedText != "Rewritten CV" {
			t.Fatalf("unexpected optimized text: %q", result.OptimizedText)
		}
		if len(result.ChangesSummary) != 3 {
			t.Fatalf("expected 3 changes, got %d", len(result.ChangesSummary))
		}
	})

	t.Run("empty optimized text", func(t *testing.T) {
		_, err := ParseOptimizationResult(`{"optimized_text": "  ", "changes_summary": []}`)

		var sErr *SchemaError
		if !errors.As(err, &sErr) {
			t.Fatalf("expected SchemaError, got %v", err)
		}
	})
}
