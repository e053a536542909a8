package engineer

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, login, name, passwordHash string) (int, error)
	FindByLogin(ctx context.Context, login string) (Engineer, error)
	FindByID(ctx context.Context, id int) (Engineer, error)
}
