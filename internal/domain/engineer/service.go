package engineer

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(ctx context.Context, login, name, password string) (int, error)
	Authenticate(ctx context.Context, login, password string) (Engineer, error)
	Find(ctx context.Context, id int) (Engineer, error)
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log.With("component", "engineer_service"),
	}
}

func (s *Service) Register(ctx context.Context, login, name, password string) (int, error) {
	if err := s.validator.ValidateRegister(login, name, password); err != nil {
		s.log.Debug("validation failed", "login", login, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, login, name, string(hash))
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (Engineer, error) {
	if err := s.validator.ValidateLogin(login); err != nil {
		return Engineer{}, ErrInvalidAuth
	}

	eng, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return eng, ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(eng.Password), []byte(password)); err != nil {
		return eng, ErrInvalidAuth
	}

	return eng, nil
}

func (s *Service) Find(ctx context.Context, id int) (Engineer, error) {
	return s.repo.FindByID(ctx, id)
}
