package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/engineer"
)

type EngineerRepository struct {
	pool dbtx
	log  *slog.Logger
}

func NewEngineerRepository(db *Storage, log *slog.Logger) *EngineerRepository {
	return &EngineerRepository{
		pool: db.Pool(),
		log:  log.With("component", "engineer_repository"),
	}
}

func (r *EngineerRepository) Create(ctx context.Context, login, name, passwordHash string) (int, error) {
	const query = `
		INSERT INTO engineers (login, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	err := r.pool.QueryRow(ctx, query, login, name, passwordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "engineers_login_key") {
			return 0, engineer.ErrDuplicateLogin
		}
		r.log.Error("failed to create engineer", "login", login, "error", err)
		return 0, fmt.Errorf("create engineer: %w", err)
	}
	return id, nil
}

func (r *EngineerRepository) FindByLogin(ctx context.Context, login string) (engineer.Engineer, error) {
	const query = `
		SELECT id, login, name, password_hash, created_at
		FROM engineers WHERE login = $1`

	var eng engineer.Engineer
	err := r.pool.QueryRow(ctx, query, login).Scan(
		&eng.ID, &eng.Login, &eng.Name, &eng.Password, &eng.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return eng, engineer.ErrNotFound
		}
		return eng, fmt.Errorf("find engineer: %w", err)
	}
	return eng, nil
}

func (r *EngineerRepository) FindByID(ctx context.Context, id int) (engineer.Engineer, error) {
	const query = `
		SELECT id, login, name, password_hash, created_at
		FROM engineers WHERE id = $1`

	var eng engineer.Engineer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&eng.ID, &eng.Login, &eng.Name, &eng.Password, &eng.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return eng, engineer.ErrNotFound
		}
		return eng, fmt.Errorf("find engineer: %w", err)
	}
	return eng, nil
}
