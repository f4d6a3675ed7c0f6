package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/haasonsaas/agentcore/pkg/models"
)

// Driver selects the database/sql driver name and placeholder dialect,
// mirroring internal/audit.Driver so a deployment picks one database for
// both the security journal and this package's session/approval rows.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// OpenSQL connects to dsn with driver and ensures the session/approval
// schema exists, returning both stores sharing one connection pool —
// grounded in the teacher's NewCockroachStoresFromDSN, which likewise
// builds a StoreSet from a single *sql.DB.
func OpenSQL(ctx context.Context, driver Driver, dsn string) (*SQLSessionStore, *SQLApprovalStore, error) {
	driverName := "sqlite"
	if driver == DriverPostgres {
		driverName = "postgres"
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping storage database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	sessions := &SQLSessionStore{db: db, driver: driver, owner: true}
	approvals := &SQLApprovalStore{db: db, driver: driver, owner: false}
	return sessions, approvals, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS execution_sessions (
			id TEXT PRIMARY KEY,
			agent_id TEXT NOT NULL,
			prompt TEXT NOT NULL,
			status TEXT NOT NULL,
			steps TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP,
			result TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS approval_requests (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			agent_id TEXT NOT NULL,
			tool_call TEXT NOT NULL,
			risk_level TEXT NOT NULL,
			reasoning TEXT NOT NULL,
			estimated_impact TEXT NOT NULL,
			status TEXT NOT NULL,
			justification TEXT,
			modified_command TEXT,
			requested_at TIMESTAMP NOT NULL,
			decided_at TIMESTAMP,
			expires_at TIMESTAMP NOT NULL
		)`,
	}
	for _, ddl := range stmts {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("migrate storage schema: %w", err)
		}
	}
	return nil
}

func placeholders(driver Driver, query string) string {
	if driver != DriverPostgres {
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

// SQLSessionStore is a database/sql-backed SessionStore, grounded in the
// teacher's internal/sessions/cockroach.go CockroachStore: the session
// row (plus an append-only JSON step log column in place of the
// teacher's separate message-history table, since steps here are never
// queried individually) is read back whole on Get/List.
type SQLSessionStore struct {
	db     *sql.DB
	driver Driver
	owner  bool // true when Close should close db (this store opened it)
}

func (s *SQLSessionStore) Create(ctx context.Context, session *models.ExecutionSession) error {
	return s.upsert(ctx, session, true)
}

func (s *SQLSessionStore) Update(ctx context.Context, session *models.ExecutionSession) error {
	return s.upsert(ctx, session, false)
}

func (s *SQLSessionStore) upsert(ctx context.Context, session *models.ExecutionSession, insert bool) error {
	if session == nil || session.ID == "" {
		return ErrNotFound
	}
	steps, err := json.Marshal(session.Steps)
	if err != nil {
		return fmt.Errorf("marshal session steps: %w", err)
	}
	var result sql.NullString
	if session.Result != nil {
		b, err := json.Marshal(session.Result)
		if err != nil {
			return fmt.Errorf("marshal session result: %w", err)
		}
		result = sql.NullString{String: string(b), Valid: true}
	}
	var endedAt sql.NullTime
	if session.EndedAt != nil {
		endedAt = sql.NullTime{Time: session.EndedAt.UTC(), Valid: true}
	}

	if insert {
		q := placeholders(s.driver, `INSERT INTO execution_sessions
			(id, agent_id, prompt, status, steps, started_at, ended_at, result)
			VALUES (?,?,?,?,?,?,?,?)`)
		_, err = s.db.ExecContext(ctx, q, session.ID, session.AgentID, session.Prompt,
			string(session.Status), string(steps), session.StartedAt.UTC(), endedAt, result)
	} else {
		q := placeholders(s.driver, `UPDATE execution_sessions SET
			agent_id=?, prompt=?, status=?, steps=?, started_at=?, ended_at=?, result=?
			WHERE id=?`)
		var res sql.Result
		res, err = s.db.ExecContext(ctx, q, session.AgentID, session.Prompt,
			string(session.Status), string(steps), session.StartedAt.UTC(), endedAt, result, session.ID)
		if err == nil {
			if n, _ := res.RowsAffected(); n == 0 {
				return ErrNotFound
			}
		}
	}
	if err != nil {
		return fmt.Errorf("write execution session: %w", err)
	}
	return nil
}

func (s *SQLSessionStore) Get(ctx context.Context, id string) (*models.ExecutionSession, error) {
	q := placeholders(s.driver, `SELECT id, agent_id, prompt, status, steps, started_at, ended_at, result
		FROM execution_sessions WHERE id=?`)
	row := s.db.QueryRowContext(ctx, q, id)
	return scanSession(row)
}

func (s *SQLSessionStore) ListByAgent(ctx context.Context, agentID string, limit, offset int) ([]*models.ExecutionSession, error) {
	var where string
	var args []any
	if agentID != "" {
		where = "WHERE agent_id=?"
		args = append(args, agentID)
	}
	if limit <= 0 {
		limit = 1000
	}
	q := fmt.Sprintf(`SELECT id, agent_id, prompt, status, steps, started_at, ended_at, result
		FROM execution_sessions %s ORDER BY started_at DESC LIMIT %d OFFSET %d`, where, limit, max0(offset))
	rows, err := s.db.QueryContext(ctx, placeholders(s.driver, q), args...)
	if err != nil {
		return nil, fmt.Errorf("list execution sessions: %w", err)
	}
	defer rows.Close()

	var out []*models.ExecutionSession
	for rows.Next() {
		session, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSession(row scannable) (*models.ExecutionSession, error) {
	var s models.ExecutionSession
	var status, steps string
	var endedAt sql.NullTime
	var result sql.NullString
	if err := row.Scan(&s.ID, &s.AgentID, &s.Prompt, &status, &steps, &s.StartedAt, &endedAt, &result); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan execution session: %w", err)
	}
	s.Status = models.SessionStatus(status)
	if steps != "" {
		_ = json.Unmarshal([]byte(steps), &s.Steps)
	}
	if endedAt.Valid {
		t := endedAt.Time
		s.EndedAt = &t
	}
	if result.Valid {
		var r models.ExecutionResult
		if err := json.Unmarshal([]byte(result.String), &r); err == nil {
			s.Result = &r
		}
	}
	return &s, nil
}

func scanSessionRows(rows *sql.Rows) (*models.ExecutionSession, error) {
	return scanSession(rows)
}

// Close closes the underlying *sql.DB if this store owns it (i.e. it was
// returned first from OpenSQL); the paired ApprovalStore shares the pool
// and is a no-op on Close to avoid double-closing.
func (s *SQLSessionStore) Close() error {
	if !s.owner {
		return nil
	}
	return s.db.Close()
}

// SQLApprovalStore is a database/sql-backed ApprovalStore mirroring
// approval.Queue transitions for durable listing, following the same
// placeholder/scan idiom as SQLSessionStore above.
type SQLApprovalStore struct {
	db     *sql.DB
	driver Driver
	owner  bool
}

func (a *SQLApprovalStore) Upsert(ctx context.Context, req *models.ApprovalRequest) error {
	if req == nil || req.ID == "" {
		return ErrNotFound
	}
	call, err := json.Marshal(req.Call)
	if err != nil {
		return fmt.Errorf("marshal tool call: %w", err)
	}
	var decidedAt sql.NullTime
	if req.DecidedAt != nil {
		decidedAt = sql.NullTime{Time: req.DecidedAt.UTC(), Valid: true}
	}

	q := placeholders(a.driver, `INSERT INTO approval_requests
		(id, session_id, agent_id, tool_call, risk_level, reasoning, estimated_impact, status,
		 justification, modified_command, requested_at, decided_at, expires_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
		 status=excluded.status, justification=excluded.justification,
		 modified_command=excluded.modified_command, decided_at=excluded.decided_at`)
	_, err = a.db.ExecContext(ctx, q, req.ID, req.SessionID, req.AgentID, string(call),
		req.RiskLevel.String(), req.Reasoning, req.EstimatedImpact, string(req.Status),
		req.Justification, req.ModifiedCommand, req.RequestedAt.UTC(), decidedAt, req.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert approval request: %w", err)
	}
	return nil
}

func (a *SQLApprovalStore) Get(ctx context.Context, id string) (*models.ApprovalRequest, error) {
	q := placeholders(a.driver, `SELECT id, session_id, agent_id, tool_call, risk_level, reasoning,
		estimated_impact, status, justification, modified_command, requested_at, decided_at, expires_at
		FROM approval_requests WHERE id=?`)
	row := a.db.QueryRowContext(ctx, q, id)
	return scanApproval(row)
}

func (a *SQLApprovalStore) ListPendingByAgent(ctx context.Context, agentID string) ([]*models.ApprovalRequest, error) {
	where := "WHERE status='pending'"
	var args []any
	if agentID != "" {
		where += " AND agent_id=?"
		args = append(args, agentID)
	}
	q := fmt.Sprintf(`SELECT id, session_id, agent_id, tool_call, risk_level, reasoning,
		estimated_impact, status, justification, modified_command, requested_at, decided_at, expires_at
		FROM approval_requests %s ORDER BY requested_at ASC`, where)
	rows, err := a.db.QueryContext(ctx, placeholders(a.driver, q), args...)
	if err != nil {
		return nil, fmt.Errorf("list pending approval requests: %w", err)
	}
	defer rows.Close()

	var out []*models.ApprovalRequest
	for rows.Next() {
		req, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func scanApproval(row scannable) (*models.ApprovalRequest, error) {
	var r models.ApprovalRequest
	var call, riskLevel, status string
	var justification, modifiedCommand sql.NullString
	var decidedAt sql.NullTime
	if err := row.Scan(&r.ID, &r.SessionID, &r.AgentID, &call, &riskLevel, &r.Reasoning,
		&r.EstimatedImpact, &status, &justification, &modifiedCommand, &r.RequestedAt, &decidedAt, &r.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan approval request: %w", err)
	}
	_ = json.Unmarshal([]byte(call), &r.Call)
	if risk, ok := models.ParseRiskLevel(riskLevel); ok {
		r.RiskLevel = risk
	}
	r.Status = models.ApprovalStatus(status)
	r.Justification = justification.String
	r.ModifiedCommand = modifiedCommand.String
	if decidedAt.Valid {
		t := decidedAt.Time
		r.DecidedAt = &t
	}
	return &r, nil
}

func (a *SQLApprovalStore) Close() error {
	if !a.owner {
		return nil
	}
	return a.db.Close()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
