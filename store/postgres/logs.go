package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucasandr3/authcore"
)

// LogStore implements authcore.SecurityLogStore against a table:
//
//	security_logs(id text primary key, action text, email text,
//	      user_id text, ip text, user_agent text, metadata jsonb,
//	      success boolean, created_at timestamptz)
type LogStore struct {
	pool *pgxpool.Pool
}

// NewLogStore wraps pool.
func NewLogStore(pool *pgxpool.Pool) *LogStore {
	return &LogStore{pool: pool}
}

// Append implements authcore.SecurityLogStore.
func (s *LogStore) Append(ctx context.Context, e *authcore.SecurityLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO security_logs
			(id, action, email, user_id, ip, user_agent, metadata, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Action, e.Email, e.UserID, e.IP, e.UserAgent, e.Metadata, e.Success, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: appending security log: %w", err)
	}
	return nil
}

const logColumns = `id, action, email, user_id, ip, user_agent, metadata, success, created_at`

// FindByUser implements authcore.SecurityLogStore.
func (s *LogStore) FindByUser(ctx context.Context, userID string, limit int) ([]authcore.SecurityLog, error) {
	return s.query(ctx, `SELECT `+logColumns+` FROM security_logs
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
}

// FindByEmail implements authcore.SecurityLogStore.
func (s *LogStore) FindByEmail(ctx context.Context, email string, limit int) ([]authcore.SecurityLog, error) {
	return s.query(ctx, `SELECT `+logColumns+` FROM security_logs
		WHERE email = $1 ORDER BY created_at DESC LIMIT $2`, email, limit)
}

// FindByIP implements authcore.SecurityLogStore.
func (s *LogStore) FindByIP(ctx context.Context, ip string, limit int) ([]authcore.SecurityLog, error) {
	return s.query(ctx, `SELECT `+logColumns+` FROM security_logs
		WHERE ip = $1 ORDER BY created_at DESC LIMIT $2`, ip, limit)
}

// CountFailedLogins implements authcore.SecurityLogStore.
func (s *LogStore) CountFailedLogins(ctx context.Context, email string, since time.Time) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM security_logs
		WHERE action = $1 AND email = $2 AND created_at >= $3`,
		authcore.ActionFailedLogin, email, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: counting failed logins: %w", err)
	}
	return count, nil
}

// Stats implements authcore.SecurityLogStore.
func (s *LogStore) Stats(ctx context.Context, since time.Time) (map[string]authcore.ActionStats, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT action,
		       count(*) FILTER (WHERE success),
		       count(*) FILTER (WHERE NOT success)
		FROM security_logs
		WHERE created_at >= $1
		GROUP BY action`, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: security stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]authcore.ActionStats)
	for rows.Next() {
		var action string
		var agg authcore.ActionStats
		if err := rows.Scan(&action, &agg.Success, &agg.Failed); err != nil {
			return nil, fmt.Errorf("postgres: scanning stats: %w", err)
		}
		stats[action] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: security stats: %w", err)
	}
	return stats, nil
}

// DeleteOlderThan implements authcore.SecurityLogStore.
func (s *LogStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM security_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("postgres: deleting old logs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *LogStore) query(ctx context.Context, sql string, args ...any) ([]authcore.SecurityLog, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: querying security logs: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

func scanLogs(rows pgx.Rows) ([]authcore.SecurityLog, error) {
	var out []authcore.SecurityLog
	for rows.Next() {
		var e authcore.SecurityLog
		if err := rows.Scan(&e.ID, &e.Action, &e.Email, &e.UserID, &e.IP,
			&e.UserAgent, &e.Metadata, &e.Success, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning security log: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: querying security logs: %w", err)
	}
	return out, nil
}
