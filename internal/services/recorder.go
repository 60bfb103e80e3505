package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"jobpilot/api/internal/models"
	"jobpilot/api/internal/repositories"
)

// fingerprintPrefixLen bounds how much request content feeds the signature.
const fingerprintPrefixLen = 256

// RecordEntry is everything the recorder persists about one completed
// model call.
type RecordEntry struct {
	UserID       string
	Action       models.RequestType
	Content      string
	Timestamp    time.Time
	Model        string
	InputTokens  int
	OutputTokens int
	Decision     any
	Warnings     []string
	Latency      time.Duration
}

// Recorder persists a usage record and an audit record for a completed
// call. Best-effort: failures are logged and never surface to the caller,
// because a persisted trail must not mask an already-computed result.
type Recorder interface {
	Record(ctx context.Context, entry RecordEntry)
}

type recorder struct {
	usageRepo repositories.UsageRepository
	auditRepo repositories.AuditRepository
	logger    *zap.Logger
}

func NewRecorder(
	usageRepo repositories.UsageRepository,
	auditRepo repositories.AuditRepository,
	logger *zap.Logger,
) Recorder {
	return &recorder{
		usageRepo: usageRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Fingerprint derives the request signature from the user id, a bounded
// content prefix and the request timestamp. It is a correlation id, not a
// secret and not a dedup key: identical requests at different times hash
// differently, and repeated signatures are appended, never merged.
func Fingerprint(userID, content string, ts time.Time) string {
	if len(content) > fingerprintPrefixLen {
		content = content[:fingerprintPrefixLen]
	}

	h := sha256.New()
	h.Write([]byte(userID))
	h.Write([]byte{'|'})
	h.Write([]byte(content))
	h.Write([]byte{'|'})
	h.Write([]byte(ts.UTC().Format(time.RFC3339Nano)))

	return hex.EncodeToString(h.Sum(nil))
}

// Record implements Recorder. The usage and audit writes touch disjoint
// tables with no ordering dependency, so they run in parallel. The writes
// use a detached context: a caller disconnect after a successful model
// response must not lose the trail.
func (r *recorder) Record(ctx context.Context, entry RecordEntry) {
	writeCtx := context.WithoutCancel(ctx)

	signature := Fingerprint(entry.UserID, entry.Content, entry.Timestamp)

	decision, err := json.Marshal(entry.Decision)
	if err != nil {
		r.logger.Error("failed to marshal audit decision", zap.Error(err))
		decision = []byte("{}")
	}

	warnings, err := json.Marshal(entry.Warnings)
	if err != nil {
		warnings = []byte("[]")
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		usage := &models.UsageLog{
			UserID:       entry.UserID,
			Model:        entry.Model,
			InputTokens:  entry.InputTokens,
			OutputTokens: entry.OutputTokens,
			RequestType:  entry.Action,
		}
		if err := r.usageRepo.Create(writeCtx, usage); err != nil {
			r.logger.Error("usage log write failed",
				zap.String("user_id", entry.UserID),
				zap.Error(err),
			)
		}
	}()

	go func() {
		defer wg.Done()
		audit := &models.AuditLog{
			UserID:           entry.UserID,
			Action:           entry.Action,
			RequestSignature: signature,
			Decision:         string(decision),
			Warnings:         string(warnings),
			LatencyMs:        entry.Latency.Milliseconds(),
		}
		if err := r.auditRepo.Create(writeCtx, audit); err != nil {
			r.logger.Error("audit log write failed",
				zap.String("user_id", entry.UserID),
				zap.String("request_signature", signature),
				zap.Error(err),
			)
		}
	}()

	wg.Wait()
}
