package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"jobpilot/api/internal/models"
)

func newTestOptimizer(gateway *stubGateway, recorder *stubRecorder) OptimizerService {
	return NewOptimizerService(
		NewValidator(zap.NewNop()),
		NewComposer(),
		gateway,
		recorder,
		zap.NewNop(),
	)
}

func TestOptimizeRequiresBothFields(t *testing.T) {
	gateway := &stubGateway{}
	optimizer := newTestOptimizer(gateway, &stubRecorder{})

	_, err := optimizer.Optimize(context.Background(), "user-1", &models.OptimizeRequest{
		CVText: "Engineer",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if gateway.calls != 0 {
		t.Fatalf("expected no model calls, got %d", gateway.calls)
	}
}

func TestOptimizeSuccess(t *testing.T) {
	gateway := &stubGateway{response: `{
		"optimized_text": "Rewritten CV emphasizing Go services",
		"changes_summary": ["Surfaced Go experience", "Reordered roles", "Quantified impact"]
	}`}
	recorder := &stubRecorder{}
	optimizer := newTestOptimizer(gateway, recorder)

	result, err := optimizer.Optimize(context.Background(), "user-1", &models.OptimizeRequest{
		CVText:         "Engineer with Go background",
		JobDescription: "Backend Go engineer",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gateway.lastPrompt, "Never fabricate experience") {
		t.Fatal("expected the fabrication rule in the composed prompt")
	}
	if len(result.ChangesSummary) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(result.ChangesSummary))
	}

	if len(recorder.entries) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recorder.entries))
	}
	if recorder.entries[0].Action != models.RequestOptimization {
		t.Fatalf("unexpected action: %s", recorder.entries[0].Action)
	}
}

func TestOptimizeRejectsEmptyRewrite(t *testing.T) {
	gateway := &stubGateway{response: `{"optimized_text": "", "changes_summary": []}`}
	optimizer := newTestOptimizer(gateway, &stubRecorder{})

	_, err := optimizer.Optimize(context.Background(), "user-1", &models.OptimizeRequest{
		CVText:         "Engineer",
		JobDescription: "Backend role",
	})

	var sErr *SchemaError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}
