package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobpilot/api/internal/models"
)

type stubUsageRepo struct {
	mu      sync.Mutex
	entries []*models.UsageLog
	err     error
}

func (s *stubUsageRepo) Create(_ context.Context, entry *models.UsageLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubUsageRepo) SumTokensByUser(context.Context, string) (int64, error) {
	return 0, nil
}

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	err     error
}

func (s *stubAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubAuditRepo) FindBySignature(_ context.Context, signature string) ([]models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AuditLog
	for _, e := range s.entries {
		if e.RequestSignature == signature {
			out = append(out, *e)
		}
	}
	return out, nil
}

func TestFingerprint(t *testing.T) {
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	t.Run("identical inputs produce identical signatures", func(t *testing.T) {
		a := Fingerprint("user-1", "Senior engineer", base)
		b := Fingerprint("user-1", "Senior engineer", base)
		if a != b {
			t.Fatalf("expected equal signatures, got %s vs %s", a, b)
		}
	})

	t.Run("different timestamps produce distinct signatures", func(t *testing.T) {
		a := Fingerprint("user-1", "Senior engineer", base)
		b := Fingerprint("user-1", "Senior engineer", base.Add(time.Second))
		if a == b {
			t.Fatal("expected distinct signatures for distinct timestamps")
		}
	})

	t.Run("different users produce distinct signatures", func(t *testing.T) {
		a := Fingerprint("user-1", "Senior engineer", base)
		b := Fingerprint("user-2", "Senior engineer", base)
		if a == b {
			t.Fatal("expected distinct signatures for distinct users")
		}
	})

	t.Run("content beyond the prefix does not affect the signature", func(t *testing.T) {
		long := strings.Repeat("x", fingerprintPrefixLen)
		a := Fingerprint("user-1", long+"tail-one", base)
		b := Fingerprint("user-1", long+"tail-two", base)
		if a != b {
			t.Fatal("expected signature to depend only on the content prefix")
		}
	})
}

func TestRecorderWritesBothRecords(t *testing.T) {
	usage := &stubUsageRepo{}
	audit := &stubAuditRepo{}
	r := NewRecorder(usage, audit, zap.NewNop())

	entry := RecordEntry{
		UserID:       "user-1",
		Action:       models.RequestAssessment,
		Content:      "Senior engineer",
		Timestamp:    time.Now(),
		Model:        "gemini-2.5-flash",
		InputTokens:  1200,
		OutputTokens: 450,
		Decision:     map[string]int{"qualification_score": 72},
		Warnings:     []string{"no dates on last role"},
		Latency:      3 * time.Second,
	}

	r.Record(context.Background(), entry)

	if len(usage.entries) != 1 {
		t.Fatalf("expected 1 usage record, got %d", len(usage.entries))
	}
	if len(audit.entries) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(audit.entries))
	}

	u := usage.entries[0]
	if u.InputTokens != 1200 || u.OutputTokens != 450 {
		t.Fatalf("unexpected token counts: %d/%d", u.InputTokens, u.OutputTokens)
	}
	if u.RequestType != models.RequestAssessment {
		t.Fatalf("unexpected request type: %s", u.RequestType)
	}

	a := audit.entries[0]
	if a.RequestSignature == "" {
		t.Fatal("expected a request signature")
	}
	if a.LatencyMs != 3000 {
		t.Fatalf("expected 3000ms latency, got %d", a.LatencyMs)
	}
	if !strings.Contains(a.Decision, "qualification_score") {
		t.Fatalf("expected decision payload, got %s", a.Decision)
	}
}

func TestRecorderAppendsRepeatedSignatures(t *testing.T) {
	usage := &stubUsageRepo{}
	audit := &stubAuditRepo{}
	r := NewRecorder(usage, audit, zap.NewNop())

	ts := time.Now()
	entry := RecordEntry{
		UserID:    "user-1",
		Action:    models.RequestAssessment,
		Content:   "Senior engineer",
		Timestamp: ts,
	}

	r.Record(context.Background(), entry)
	r.Record(context.Background(), entry)

	if len(audit.entries) != 2 {
		t.Fatalf("expected 2 audit records, got %d", len(audit.entries))
	}
	if audit.entries[0].RequestSignature != audit.entries[1].RequestSignature {
		t.Fatal("identical requests at the same timestamp must share a signature")
	}

	matches, err := audit.FindBySignature(context.Background(), audit.entries[0].RequestSignature)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected both repeats to be retained, got %d", len(matches))
	}
}

func TestRecorderFailureDoesNotPropagate(t *testing.T) {
	usage := &stubUsageRepo{err: errors.New("db down")}
	audit := &stubAuditRepo{err: errors.New("db down")}
	r := NewRecorder(usage, audit, zap.NewNop())

	// Must not panic or block; failures are logged only.
	r.Record(context.Background(), RecordEntry{
		UserID:    "user-1",
		Action:    models.RequestAssessment,
		Content:   "cv",
		Timestamp: time.Now(),
	})
}
