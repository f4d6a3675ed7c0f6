// Package audit implements the Audit Journal: an append-only, queryable
// record of every security-relevant decision and tool effect. It is
// grounded in the teacher's internal/storage/cockroach.go raw-SQL store
// pattern (database/sql, explicit schema, sentinel errors) generalized
// from Postgres-only to a driver-selectable store so a fresh checkout
// works with no external database via modernc.org/sqlite, while
// production deployments can point it at Postgres/CockroachDB through
// lib/pq. This journal is distinct from the ambient operational logger
// in internal/opslog: it is a queryable, CSV-exportable security record,
// not a stream of debug/info lines.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// Driver selects the database/sql driver name and dialect used for
// parameter placeholders.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Journal is the SQL-backed Audit Journal.
type Journal struct {
	db     *sql.DB
	driver Driver
}

// Open connects to dsn using driver and ensures the schema exists.
// For DriverSQLite, dsn is a filesystem path (or ":memory:").
func Open(ctx context.Context, driver Driver, dsn string) (*Journal, error) {
	driverName := "sqlite"
	if driver == DriverPostgres {
		driverName = "postgres"
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}
	j := &Journal{db: db, driver: driver}
	if err := j.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS audit_entries (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		occurred_at TIMESTAMP NOT NULL,
		agent_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		target TEXT NOT NULL,
		result TEXT NOT NULL,
		detail TEXT NOT NULL,
		host TEXT NOT NULL
	)`
	if _, err := j.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migrate audit schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (j *Journal) Close() error { return j.db.Close() }

// Log appends one entry. The entry is immutable once written; there is
// no Update or Delete on this store by design.
func (j *Journal) Log(ctx context.Context, e models.AuditEntry) (models.AuditEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	detail, err := json.Marshal(e.Detail)
	if err != nil {
		return models.AuditEntry{}, fmt.Errorf("marshal audit detail: %w", err)
	}

	query := j.placeholders(`INSERT INTO audit_entries
		(id, event_type, severity, occurred_at, agent_id, session_id, user_id, action, target, result, detail, host)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	_, err = j.db.ExecContext(ctx, query,
		e.ID, e.EventType, string(e.Severity), e.Timestamp.UTC(), e.AgentID, e.SessionID, e.UserID,
		e.Action, e.Target, string(e.Result), string(detail), e.Host,
	)
	if err != nil {
		return models.AuditEntry{}, fmt.Errorf("insert audit entry: %w", err)
	}
	return e, nil
}

// Query returns entries matching filter, ordered by timestamp descending,
// with Limit/Offset applied for pagination. A zero Limit means unbounded.
func (j *Journal) Query(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error) {
	var where []string
	var args []any

	if filter.Since != nil {
		where = append(where, "occurred_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.Until != nil {
		where = append(where, "occurred_at <= ?")
		args = append(args, filter.Until.UTC())
	}
	if filter.AgentID != "" {
		where = append(where, "agent_id = ?")
		args = append(args, filter.AgentID)
	}
	if filter.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Contains != "" {
		where = append(where, "(action LIKE ? OR target LIKE ?)")
		like := "%" + filter.Contains + "%"
		args = append(args, like, like)
	}
	if len(filter.EventTypes) > 0 {
		where = append(where, "event_type IN ("+placeholderList(len(filter.EventTypes))+")")
		for _, et := range filter.EventTypes {
			args = append(args, et)
		}
	}
	if len(filter.Severities) > 0 {
		where = append(where, "severity IN ("+placeholderList(len(filter.Severities))+")")
		for _, s := range filter.Severities {
			args = append(args, string(s))
		}
	}

	query := "SELECT id, event_type, severity, occurred_at, agent_id, session_id, user_id, action, target, result, detail, host FROM audit_entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, max0(filter.Offset))

	rows, err := j.db.QueryContext(ctx, j.placeholders(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var out []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var severity, result, detail string
		if err := rows.Scan(&e.ID, &e.EventType, &severity, &e.Timestamp, &e.AgentID, &e.SessionID,
			&e.UserID, &e.Action, &e.Target, &result, &detail, &e.Host); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Severity = models.Severity(severity)
		e.Result = models.Result(result)
		if detail != "" {
			_ = json.Unmarshal([]byte(detail), &e.Detail)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// placeholders rewrites `?` placeholders to `$1, $2, ...` for Postgres.
func (j *Journal) placeholders(query string) string {
	if j.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func placeholderList(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ",")
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
