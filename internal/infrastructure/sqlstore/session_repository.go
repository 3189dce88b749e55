package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shizzytech/LinguaSync-AI/internal/core/domain"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
)

const sqliteSessionSchema = `
CREATE TABLE IF NOT EXISTS "session" (
	sid TEXT PRIMARY KEY,
	sess BLOB NOT NULL,
	expire DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_expire ON "session"(expire);
`

const postgresSessionSchema = `
CREATE TABLE IF NOT EXISTS "session" (
	sid VARCHAR NOT NULL PRIMARY KEY,
	sess BYTEA NOT NULL,
	expire TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_expire ON "session"(expire);
`

type sessionRepository struct {
	db *DB
}

// NewSessionRepository creates the session table when it is missing, so the
// session store works without a separate migration step.
func NewSessionRepository(ctx context.Context, db *DB) (repository.SessionRepository, error) {
	schema := sqliteSessionSchema
	if db.Driver() == DriverPostgres {
		schema = postgresSessionSchema
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}

	return &sessionRepository{db: db}, nil
}

func (r *sessionRepository) Find(ctx context.Context, id string) (*domain.Session, error) {
	query := r.db.Rebind(`SELECT sid, sess, expire FROM "session" WHERE sid = ?`)
	var session domain.Session
	err := r.db.GetContext(ctx, &session, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	query := r.db.Rebind(`
		INSERT INTO "session" (sid, sess, expire)
		VALUES (?, ?, ?)
		ON CONFLICT (sid) DO UPDATE SET sess = excluded.sess, expire = excluded.expire
	`)
	_, err := r.db.ExecContext(ctx, query, session.ID, session.Data, session.Expire.UTC())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM "session" WHERE sid = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := r.db.Rebind(`DELETE FROM "session" WHERE expire < ?`)
	result, err := r.db.ExecContext(ctx, query, now.UTC().Truncate(time.Second))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
