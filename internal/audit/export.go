package audit

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// csvHeader is the stable column order consumers parse against. Changing
// column order or names is a breaking change.
var csvHeader = []string{
	"id", "event_type", "severity", "timestamp", "agent_id",
	"session_id", "user_id", "action", "target", "result",
}

// Export writes entries matching filter to w as CSV, oldest-last (the same
// timestamp-descending order Query returns). Commas inside action are
// replaced with semicolons so the field never needs quoting; every other
// column is already comma-free by construction.
func (j *Journal) Export(ctx context.Context, w io.Writer, filter models.AuditFilter) (int, error) {
	entries, err := j.Query(ctx, filter)
	if err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	for _, e := range entries {
		row := []string{
			e.ID,
			e.EventType,
			string(e.Severity),
			e.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
			e.AgentID,
			e.SessionID,
			e.UserID,
			escapeCSVAction(e.Action),
			e.Target,
			string(e.Result),
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(entries), cw.Error()
}

func escapeCSVAction(action string) string {
	return strings.ReplaceAll(action, ",", ";")
}

// ParseLimit converts a query-string limit parameter to an int, defaulting
// to 0 (unbounded, subject to Query's own 1000-row safety cap) on any
// parse failure rather than erroring the whole request.
func ParseLimit(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
