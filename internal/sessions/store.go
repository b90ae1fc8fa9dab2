package sessions

import (
	"context"
	"time"

	"github.com/haasonsaas/nexus/pkg/models"
)

// Store is the interface for session persistence.
type Store interface {
	// Session CRUD
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error

	// Session lookup
	GetByKey(ctx context.Context, key string) (*models.Session, error)
	GetOrCreate(ctx context.Context, key string, agentID string, channel models.ChannelType, channelID string) (*models.Session, error)
	List(ctx context.Context, agentID string, opts ListOptions) ([]*models.Session, error)

	// Message history
	AppendMessage(ctx context.Context, sessionID string, msg *models.Message) error
	GetHistory(ctx context.Context, sessionID string, limit int) ([]*models.Message, error)

	// RecordFinalization persists a RequestFinalization record for a single
	// completed request, for audit/replay. Not read by the agent loop
	// mid-request; callers treat a failure here as non-fatal.
	RecordFinalization(ctx context.Context, sessionID string, rec RequestFinalization) error
}

// RequestFinalization is a per-request audit/replay record, persisted once
// at request finalization.
type RequestFinalization struct {
	RequestID   string    `json:"request_id"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at,omitempty"`
	TurnCount   int       `json:"turn_count"`
	FileChanges []string  `json:"file_changes,omitempty"`
}

// maxFinalizationRecords bounds how many RequestFinalization entries are
// retained per session, keeping only the most recent.
const maxFinalizationRecords = 50

// ListOptions configures session listing.
type ListOptions struct {
	Channel models.ChannelType
	Limit   int
	Offset  int
}

// appendFinalizationRecord appends rec to existing (the session's current
// Metadata["request_records"] value, which may be nil, a []any decoded from
// JSON, or a []map[string]any freshly built in-process) and trims to the
// most recent maxFinalizationRecords entries.
func appendFinalizationRecord(existing any, rec RequestFinalization) []map[string]any {
	entry := map[string]any{
		"request_id": rec.RequestID,
		"started_at": rec.StartedAt,
		"turn_count": rec.TurnCount,
	}
	if !rec.EndedAt.IsZero() {
		entry["ended_at"] = rec.EndedAt
	}
	if len(rec.FileChanges) > 0 {
		entry["file_changes"] = rec.FileChanges
	}

	var records []map[string]any
	switch v := existing.(type) {
	case []map[string]any:
		records = v
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				records = append(records, m)
			}
		}
	}
	records = append(records, entry)
	if len(records) > maxFinalizationRecords {
		records = records[len(records)-maxFinalizationRecords:]
	}
	return records
}

// SessionKey builds a unique session key.
func SessionKey(agentID string, channel models.ChannelType, channelID string) string {
	return agentID + ":" + string(channel) + ":" + channelID
}
