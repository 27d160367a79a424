package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/register/internal/logging"
)

// AuditAction represents the type of registry mutation being audited.
type AuditAction string

const (
	ActionRegister AuditAction = "register"
	ActionCheckin  AuditAction = "checkin"
	ActionImport   AuditAction = "import"
	ActionDedupe   AuditAction = "dedupe"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry records one applied mutation.
type AuditEntry struct {
	ID           string        `json:"id"`
	Action       AuditAction   `json:"action"`
	Severity     AuditSeverity `json:"severity"`
	IPAddress    string        `json:"ipAddress,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	RowKey       string        `json:"rowKey,omitempty"`
	RowsAffected int           `json:"rowsAffected"`
	BatchID      string        `json:"batchId,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionImport:
		return SeverityHigh
	case ActionDedupe:
		return SeverityCritical
	case ActionCheckin:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// DefaultAuditCapacity is how many recent entries the trail keeps in memory.
const DefaultAuditCapacity = 200

// AuditTrail writes every mutation to the structured log and keeps the most
// recent entries for the status API. The registry file is the only durable
// state; the trail is lost on restart.
type AuditTrail struct {
	mu      sync.Mutex
	entries []AuditEntry
	next    int
	full    bool
}

// NewAuditTrail creates a trail holding up to capacity recent entries.
func NewAuditTrail(capacity int) *AuditTrail {
	if capacity <= 0 {
		capacity = DefaultAuditCapacity
	}
	return &AuditTrail{entries: make([]AuditEntry, capacity)}
}

// Record stamps entry with an ID, severity, time and request metadata from
// ctx, logs it, and stores it.
func (a *AuditTrail) Record(ctx context.Context, entry AuditEntry) AuditEntry {
	entry.ID = uuid.NewString()
	entry.Severity = determineSeverity(entry.Action)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	req := RequesterFromContext(ctx)
	if entry.IPAddress == "" {
		entry.IPAddress = req.IP
	}
	if entry.UserAgent == "" {
		entry.UserAgent = req.UserAgent
	}

	logging.FromContext(ctx).LogAttrs(ctx, slog.LevelInfo, "audit",
		slog.String("audit_id", entry.ID),
		slog.String("action", string(entry.Action)),
		slog.String("severity", string(entry.Severity)),
		slog.Int("rows_affected", entry.RowsAffected),
		slog.String("row_key", entry.RowKey),
		slog.String("batch_id", entry.BatchID),
		slog.String("ip", entry.IPAddress),
		slog.String("user_agent", entry.UserAgent),
	)

	a.mu.Lock()
	a.entries[a.next] = entry
	a.next = (a.next + 1) % len(a.entries)
	if a.next == 0 {
		a.full = true
	}
	a.mu.Unlock()

	return entry
}

// Recent returns stored entries, newest first.
func (a *AuditTrail) Recent(limit int) []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.next
	if a.full {
		n = len(a.entries)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]AuditEntry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (a.next - i + len(a.entries)) % len(a.entries)
		out = append(out, a.entries[idx])
	}
	return out
}
