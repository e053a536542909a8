package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
)

var errInvalidSession = errors.New("invalid session")

type SessionRepository struct {
	pool dbtx
	log  *slog.Logger
}

func NewSessionRepository(db *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		pool: db.Pool(),
		log:  log.With("component", "session_repository"),
	}
}

func (r *SessionRepository) Create(ctx context.Context, engineerID int, tokenHash string, expiresAt time.Time) error {
	const query = `
		INSERT INTO sessions (engineer_id, token_hash, expires_at)
		VALUES ($1, decode($2, 'hex'), $3)`

	if _, err := r.pool.Exec(ctx, query, engineerID, tokenHash, expiresAt); err != nil {
		r.log.Error("failed to create session", "engineer_id", engineerID, "error", err)
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Validate(ctx context.Context, tokenHash string) (int, error) {
	const query = `
		SELECT engineer_id FROM sessions
		WHERE token_hash = decode($1, 'hex') AND expires_at > NOW()`

	var engineerID int
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&engineerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errInvalidSession
		}
		return 0, fmt.Errorf("validate session: %w", err)
	}
	return engineerID, nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
