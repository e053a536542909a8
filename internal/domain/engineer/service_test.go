package engineer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, login, name, passwordHash string) (int, error) {
	args := m.Called(ctx, login, name, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindByLogin(ctx context.Context, login string) (Engineer, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(Engineer), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (Engineer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Engineer), args.Error(1)
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewAccountValidator(), slog.Default())

	mockRepo.On("Create", mock.Anything, "j.smith", "Jordan Smith", mock.MatchedBy(func(hash string) bool {
		// The stored value must be a bcrypt hash, never the raw password.
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("Fieldwork1")) == nil
	})).Return(5, nil)

	id, err := service.Register(context.Background(), "j.smith", "Jordan Smith", "Fieldwork1")
	assert.NoError(t, err)
	assert.Equal(t, 5, id)

	mockRepo.AssertExpectations(t)
}

func TestService_Register_InvalidInput(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewAccountValidator(), slog.Default())

	_, err := service.Register(context.Background(), "j.smith", "Jordan Smith", "weak")
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Authenticate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewAccountValidator(), slog.Default())

	hash, err := bcrypt.GenerateFromPassword([]byte("Fieldwork1"), bcrypt.MinCost)
	assert.NoError(t, err)

	stored := Engineer{ID: 5, Login: "j.smith", Password: string(hash)}
	mockRepo.On("FindByLogin", mock.Anything, "j.smith").Return(stored, nil)

	eng, err := service.Authenticate(context.Background(), "j.smith", "Fieldwork1")
	assert.NoError(t, err)
	assert.Equal(t, 5, eng.ID)

	_, err = service.Authenticate(context.Background(), "j.smith", "WrongPass1")
	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestService_Authenticate_UnknownLogin(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewAccountValidator(), slog.Default())

	mockRepo.On("FindByLogin", mock.Anything, "nobody").Return(Engineer{}, ErrNotFound)

	_, err := service.Authenticate(context.Background(), "nobody", "Fieldwork1")
	assert.ErrorIs(t, err, ErrNotFound)
}
