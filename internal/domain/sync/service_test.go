package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"fieldsync/internal/app/server/api/http/middleware/auth"
	"fieldsync/internal/domain/asset"
	"fieldsync/internal/domain/inspection"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetInspection(ctx context.Context, id int) (*inspection.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inspection.Record), args.Error(1)
}

func (m *MockRepository) GetInspectionByClientID(ctx context.Context, clientID uuid.UUID) (*inspection.Record, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inspection.Record), args.Error(1)
}

func (m *MockRepository) AssetExists(ctx context.Context, assetID int) (bool, error) {
	args := m.Called(ctx, assetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreateInspection(ctx context.Context, rec *inspection.Record) (int, error) {
	args := m.Called(ctx, rec)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UpdateInspectionVersioned(ctx context.Context, rec *inspection.Record, expectedVersion int) error {
	args := m.Called(ctx, rec, expectedVersion)
	return args.Error(0)
}

func (m *MockRepository) DeleteInspectionVersioned(ctx context.Context, id, expectedVersion int) error {
	args := m.Called(ctx, id, expectedVersion)
	return args.Error(0)
}

func (m *MockRepository) ListAssets(ctx context.Context) ([]asset.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.Asset), args.Error(1)
}

func (m *MockRepository) ListAssetsUpdatedSince(ctx context.Context, since time.Time) ([]asset.Asset, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.Asset), args.Error(1)
}

func (m *MockRepository) ListInspections(ctx context.Context, engineerID int) ([]inspection.Record, error) {
	args := m.Called(ctx, engineerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inspection.Record), args.Error(1)
}

func (m *MockRepository) ListInspectionsUpdatedSince(ctx context.Context, engineerID int, since time.Time) ([]inspection.Record, error) {
	args := m.Called(ctx, engineerID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inspection.Record), args.Error(1)
}

func (m *MockRepository) ListInspectionTombstonesSince(ctx context.Context, engineerID int, since time.Time) ([]int, error) {
	args := m.Called(ctx, engineerID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// MockCursorStore is a mock implementation of the CursorStore interface
type MockCursorStore struct {
	mock.Mock
}

func (m *MockCursorStore) SetCursor(ctx context.Context, engineerID int, at time.Time) error {
	args := m.Called(ctx, engineerID, at)
	return args.Error(0)
}

func (m *MockCursorStore) GetCursor(ctx context.Context, engineerID int) (*time.Time, error) {
	args := m.Called(ctx, engineerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func authedContext(engineerID int) context.Context {
	return auth.WithEngineerID(context.Background(), engineerID)
}

func intPtr(v int) *int { return &v }

func TestService_CreateInspection(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	engineerID := 7
	clientID := uuid.New()
	req := CreateInspectionRequest{
		ClientID:         clientID,
		AssetID:          42,
		DateOfInspection: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ConditionGrade:   4,
		DefectSeverity:   intPtr(3),
		Notes:            "corrosion on bearing shelf",
	}

	mockRepo.On("GetInspectionByClientID", mock.Anything, clientID).Return(nil, inspection.ErrNotFound)
	mockRepo.On("AssetExists", mock.Anything, 42).Return(true, nil)
	mockRepo.On("CreateInspection", mock.Anything, mock.MatchedBy(func(rec *inspection.Record) bool {
		return rec.EngineerID == engineerID &&
			rec.ClientID != nil && *rec.ClientID == clientID &&
			rec.SyncVersion == 1 &&
			rec.Status == inspection.StatusComplete &&
			rec.RiskScore != nil && *rec.RiskScore == 12
	})).Return(101, nil)

	res, err := service.CreateInspection(authedContext(engineerID), req)
	assert.NoError(t, err)
	assert.Equal(t, ItemCreated, res.Status)
	assert.Equal(t, 101, res.ServerID)
	assert.Equal(t, clientID, res.ClientID)
	assert.Equal(t, 1, res.SyncVersion)

	mockRepo.AssertExpectations(t)
}

func TestService_CreateInspection_Retry_AlreadySynced(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	clientID := uuid.New()
	existing := &inspection.Record{
		ID:          101,
		ClientID:    &clientID,
		AssetID:     42,
		EngineerID:  7,
		SyncVersion: 1,
	}

	mockRepo.On("GetInspectionByClientID", mock.Anything, clientID).Return(existing, nil)

	req := CreateInspectionRequest{ClientID: clientID, AssetID: 42, ConditionGrade: 4}

	// A retried create must resolve to the same server record every time.
	for i := 0; i < 3; i++ {
		res, err := service.CreateInspection(authedContext(7), req)
		assert.NoError(t, err)
		assert.Equal(t, ItemAlreadySynced, res.Status)
		assert.Equal(t, 101, res.ServerID)
		assert.Equal(t, 1, res.SyncVersion)
	}

	mockRepo.AssertNotCalled(t, "CreateInspection", mock.Anything, mock.Anything)
}

func TestService_CreateInspection_DuplicateRace(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	clientID := uuid.New()
	winner := &inspection.Record{ID: 88, ClientID: &clientID, SyncVersion: 1}

	// Pre-check misses, the insert hits the unique constraint, the winner's
	// record is re-read and returned as already_synced.
	mockRepo.On("GetInspectionByClientID", mock.Anything, clientID).Return(nil, inspection.ErrNotFound).Once()
	mockRepo.On("AssetExists", mock.Anything, 42).Return(true, nil)
	mockRepo.On("CreateInspection", mock.Anything, mock.Anything).Return(0, inspection.ErrDuplicateClient)
	mockRepo.On("GetInspectionByClientID", mock.Anything, clientID).Return(winner, nil).Once()

	req := CreateInspectionRequest{
		ClientID:         clientID,
		AssetID:          42,
		DateOfInspection: time.Now(),
		ConditionGrade:   3,
	}

	res, err := service.CreateInspection(authedContext(7), req)
	assert.NoError(t, err)
	assert.Equal(t, ItemAlreadySynced, res.Status)
	assert.Equal(t, 88, res.ServerID)

	mockRepo.AssertExpectations(t)
}

func TestService_CreateInspection_Validation(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	ctx := authedContext(7)

	_, err := service.CreateInspection(ctx, CreateInspectionRequest{AssetID: 42})
	assert.ErrorIs(t, err, ErrMissingClientID)

	clientID := uuid.New()
	mockRepo.On("GetInspectionByClientID", mock.Anything, clientID).Return(nil, inspection.ErrNotFound)
	mockRepo.On("AssetExists", mock.Anything, 99).Return(false, nil)

	_, err = service.CreateInspection(ctx, CreateInspectionRequest{
		ClientID:         clientID,
		AssetID:          99,
		DateOfInspection: time.Now(),
		ConditionGrade:   3,
	})
	assert.ErrorIs(t, err, inspection.ErrAssetNotFound)

	_, err = service.CreateInspection(context.Background(), CreateInspectionRequest{ClientID: clientID})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestService_CreateInspectionsBatch_PartialFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	okA, okB, bad := uuid.New(), uuid.New(), uuid.New()
	date := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

	for _, id := range []uuid.UUID{okA, okB, bad} {
		mockRepo.On("GetInspectionByClientID", mock.Anything, id).Return(nil, inspection.ErrNotFound)
	}
	mockRepo.On("AssetExists", mock.Anything, 1).Return(true, nil)
	mockRepo.On("CreateInspection", mock.Anything, mock.MatchedBy(func(rec *inspection.Record) bool {
		return *rec.ClientID == okA
	})).Return(201, nil)
	mockRepo.On("CreateInspection", mock.Anything, mock.MatchedBy(func(rec *inspection.Record) bool {
		return *rec.ClientID == okB
	})).Return(202, nil)

	reqs := []CreateInspectionRequest{
		{ClientID: okA, AssetID: 1, DateOfInspection: date, ConditionGrade: 2},
		{ClientID: bad, AssetID: 1, DateOfInspection: date, ConditionGrade: 9},
		{ClientID: okB, AssetID: 1, DateOfInspection: date, ConditionGrade: 3},
	}

	resp, err := service.CreateInspectionsBatch(authedContext(7), reqs)
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Summary.Created)
	assert.Equal(t, 1, resp.Summary.Failed)
	assert.Equal(t, 3, resp.Summary.Total)
	assert.Len(t, resp.Results, 3)

	// Results stay in input order, the failed item in the middle.
	assert.Equal(t, ItemCreated, resp.Results[0].Status)
	assert.Equal(t, ItemError, resp.Results[1].Status)
	assert.Contains(t, resp.Results[1].Error, "condition grade")
	assert.Equal(t, ItemCreated, resp.Results[2].Status)

	mockRepo.AssertExpectations(t)
}

func TestService_PushBatch_UpdateAccepted(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	stored := &inspection.Record{
		ID:               55,
		AssetID:          4,
		EngineerID:       7,
		DateOfInspection: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		ConditionGrade:   2,
		Status:           inspection.StatusComplete,
		SyncVersion:      2,
	}

	mockRepo.On("GetInspection", mock.Anything, 55).Return(stored, nil)
	mockRepo.On("UpdateInspectionVersioned", mock.Anything, mock.MatchedBy(func(rec *inspection.Record) bool {
		return rec.ID == 55 && rec.SyncVersion == 3 && rec.ConditionGrade == 4
	}), 2).Return(nil)

	req := PushRequest{Changes: []Operation{{
		Type:        OpUpdate,
		Entity:      EntityInspection,
		ID:          intPtr(55),
		SyncVersion: intPtr(2),
		Data:        InspectionChange{ConditionGrade: intPtr(4)},
	}}}

	resp, err := service.PushBatch(authedContext(7), req)
	assert.NoError(t, err)
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, ItemUpdated, resp.Results[0].Status)
	assert.Equal(t, 3, *resp.Results[0].ServerVersion)

	mockRepo.AssertExpectations(t)
}

func TestService_PushBatch_UpdateConflict_ServerWins(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	stored := &inspection.Record{
		ID:             55,
		AssetID:        4,
		EngineerID:     7,
		ConditionGrade: 5,
		Status:         inspection.StatusSubmitted,
		SyncVersion:    3,
	}

	mockRepo.On("GetInspection", mock.Anything, 55).Return(stored, nil)

	req := PushRequest{Changes: []Operation{{
		Type:        OpUpdate,
		Entity:      EntityInspection,
		ID:          intPtr(55),
		SyncVersion: intPtr(2),
		Data:        InspectionChange{ConditionGrade: intPtr(1)},
	}}}

	resp, err := service.PushBatch(authedContext(7), req)
	assert.NoError(t, err)

	result := resp.Results[0]
	assert.Equal(t, ItemConflict, result.Status)
	assert.Equal(t, ResolutionServerWins, result.Resolution)
	assert.Equal(t, 3, *result.ServerVersion)
	assert.NotNil(t, result.ServerRecord)
	assert.Equal(t, 5, result.ServerRecord.ConditionGrade)
	assert.Equal(t, 1, resp.Summary.Conflicts)

	// A rejected write never touches storage: the version stays where it was.
	mockRepo.AssertNotCalled(t, "UpdateInspectionVersioned", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_PushBatch_UpdateRace_Reresolves(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	storedV2 := &inspection.Record{
		ID: 55, AssetID: 4, EngineerID: 7, ConditionGrade: 2,
		DateOfInspection: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:           inspection.StatusComplete, SyncVersion: 2,
	}
	storedV3 := &inspection.Record{
		ID: 55, AssetID: 4, EngineerID: 7, ConditionGrade: 3,
		Status: inspection.StatusComplete, SyncVersion: 3,
	}

	// First pass loads v2 and the conditional write misses; the reload sees
	// v3 and the decision flips to conflict.
	mockRepo.On("GetInspection", mock.Anything, 55).Return(storedV2, nil).Once()
	mockRepo.On("UpdateInspectionVersioned", mock.Anything, mock.Anything, 2).Return(inspection.ErrVersionConflict).Once()
	mockRepo.On("GetInspection", mock.Anything, 55).Return(storedV3, nil).Once()

	req := PushRequest{Changes: []Operation{{
		Type:        OpUpdate,
		Entity:      EntityInspection,
		ID:          intPtr(55),
		SyncVersion: intPtr(2),
		Data:        InspectionChange{ConditionGrade: intPtr(4)},
	}}}

	resp, err := service.PushBatch(authedContext(7), req)
	assert.NoError(t, err)
	assert.Equal(t, ItemConflict, resp.Results[0].Status)
	assert.Equal(t, 3, *resp.Results[0].ServerVersion)

	mockRepo.AssertExpectations(t)
}

func TestService_PushBatch_Delete(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	stored := &inspection.Record{ID: 60, AssetID: 4, EngineerID: 7, SyncVersion: 1}

	mockRepo.On("GetInspection", mock.Anything, 60).Return(stored, nil)
	mockRepo.On("DeleteInspectionVersioned", mock.Anything, 60, 1).Return(nil)

	req := PushRequest{Changes: []Operation{{
		Type:        OpDelete,
		Entity:      EntityInspection,
		ID:          intPtr(60),
		SyncVersion: intPtr(1),
	}}}

	resp, err := service.PushBatch(authedContext(7), req)
	assert.NoError(t, err)
	assert.Equal(t, ItemDeleted, resp.Results[0].Status)

	mockRepo.AssertExpectations(t)
}

func TestService_PushBatch_StaleDelete_ServerWins(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	stored := &inspection.Record{ID: 60, AssetID: 4, EngineerID: 7, SyncVersion: 4}
	mockRepo.On("GetInspection", mock.Anything, 60).Return(stored, nil)

	req := PushRequest{Changes: []Operation{{
		Type:        OpDelete,
		Entity:      EntityInspection,
		ID:          intPtr(60),
		SyncVersion: intPtr(2),
	}}}

	resp, err := service.PushBatch(authedContext(7), req)
	assert.NoError(t, err)
	assert.Equal(t, ItemConflict, resp.Results[0].Status)
	assert.Equal(t, ResolutionServerWins, resp.Results[0].Resolution)

	mockRepo.AssertNotCalled(t, "DeleteInspectionVersioned", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_PushBatch_FailureIsolation(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	clientID := uuid.New()
	stored := &inspection.Record{
		ID: 55, AssetID: 4, EngineerID: 7, ConditionGrade: 2,
		DateOfInspection: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:           inspection.StatusComplete, SyncVersion: 1,
	}

	mockRepo.On("GetInspectionByClientID", mock.Anything, clientID).Return(nil, inspection.ErrNotFound)
	mockRepo.On("AssetExists", mock.Anything, 4).Return(true, nil)
	mockRepo.On("CreateInspection", mock.Anything, mock.Anything).Return(300, nil)
	mockRepo.On("GetInspection", mock.Anything, 55).Return(stored, nil)
	mockRepo.On("UpdateInspectionVersioned", mock.Anything, mock.Anything, 1).Return(nil)

	date := time.Now()
	req := PushRequest{Changes: []Operation{
		{
			Type: OpCreate, Entity: EntityInspection, ClientID: &clientID,
			Data: InspectionChange{
				AssetID:          intPtr(4),
				DateOfInspection: &date,
				ConditionGrade:   intPtr(3),
			},
		},
		{Type: OpUpdate, Entity: EntityAsset, ID: intPtr(4)},
		{Type: OpUpdate, Entity: EntityInspection}, // missing id
		{
			Type: OpUpdate, Entity: EntityInspection,
			ID: intPtr(55), SyncVersion: intPtr(1),
			Data: InspectionChange{Notes: strPtr("revisited")},
		},
	}}

	resp, err := service.PushBatch(authedContext(7), req)
	assert.NoError(t, err)
	assert.Len(t, resp.Results, 4)

	assert.Equal(t, ItemCreated, resp.Results[0].Status)
	assert.Equal(t, ItemError, resp.Results[1].Status)
	assert.Contains(t, resp.Results[1].Error, "read-only")
	assert.Equal(t, ItemError, resp.Results[2].Status)
	assert.Equal(t, ItemUpdated, resp.Results[3].Status)

	assert.Equal(t, Summary{Created: 1, Updated: 1, Failed: 2, Total: 4}, resp.Summary)

	mockRepo.AssertExpectations(t)
}

func strPtr(s string) *string { return &s }

func TestService_PushBatch_NotAuthenticated(t *testing.T) {
	service := NewService(new(MockRepository), nil, slog.Default())

	_, err := service.PushBatch(context.Background(), PushRequest{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestService_PullChanges_FullSnapshot(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCursors := new(MockCursorStore)
	service := NewService(mockRepo, mockCursors, slog.Default())

	assets := []asset.Asset{{ID: 1, Reference: "BRG-001", Name: "River bridge"}}
	records := []inspection.Record{{ID: 10, AssetID: 1, EngineerID: 7, SyncVersion: 1}}

	mockRepo.On("ListAssets", mock.Anything).Return(assets, nil)
	mockRepo.On("ListInspections", mock.Anything, 7).Return(records, nil)
	mockCursors.On("SetCursor", mock.Anything, 7, mock.AnythingOfType("time.Time")).Return(nil)

	resp, err := service.PullChanges(authedContext(7), PullRequest{})
	assert.NoError(t, err)
	assert.False(t, resp.SyncedAt.IsZero())

	// First-time pull: everything lands in created, nothing in updated.
	assert.Len(t, resp.Changes.Assets.Created, 1)
	assert.Empty(t, resp.Changes.Assets.Updated)
	assert.Len(t, resp.Changes.Inspections.Created, 1)
	assert.Empty(t, resp.Changes.Inspections.Updated)
	assert.Empty(t, resp.Changes.Inspections.Deleted)

	mockRepo.AssertExpectations(t)
	mockCursors.AssertExpectations(t)
}

func TestService_PullChanges_Incremental(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	cursor := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	updatedAssets := []asset.Asset{{ID: 2, Reference: "PMP-014", Name: "Lift pump"}}
	updatedRecords := []inspection.Record{{ID: 11, AssetID: 2, EngineerID: 7, SyncVersion: 2}}

	mockRepo.On("ListAssetsUpdatedSince", mock.Anything, cursor).Return(updatedAssets, nil)
	mockRepo.On("ListInspectionsUpdatedSince", mock.Anything, 7, cursor).Return(updatedRecords, nil)
	mockRepo.On("ListInspectionTombstonesSince", mock.Anything, 7, cursor).Return([]int{5, 9}, nil)

	resp, err := service.PullChanges(authedContext(7), PullRequest{LastSyncAt: &cursor})
	assert.NoError(t, err)

	assert.Empty(t, resp.Changes.Assets.Created)
	assert.Len(t, resp.Changes.Assets.Updated, 1)
	assert.Len(t, resp.Changes.Inspections.Updated, 1)
	assert.Equal(t, []int{5, 9}, resp.Changes.Inspections.Deleted)

	mockRepo.AssertExpectations(t)
}

func TestService_PullChanges_EntityFilter(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, slog.Default())

	mockRepo.On("ListAssets", mock.Anything).Return([]asset.Asset{}, nil)

	resp, err := service.PullChanges(authedContext(7), PullRequest{Entities: []Entity{EntityAsset}})
	assert.NoError(t, err)
	assert.NotNil(t, resp.Changes.Assets)
	assert.Nil(t, resp.Changes.Inspections)

	mockRepo.AssertNotCalled(t, "ListInspections", mock.Anything, mock.Anything)
}

func TestService_Status(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCursors := new(MockCursorStore)
	service := NewService(mockRepo, mockCursors, slog.Default())

	cursor := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)
	mockCursors.On("GetCursor", mock.Anything, 7).Return(&cursor, nil)

	resp, err := service.Status(authedContext(7))
	assert.NoError(t, err)
	assert.Equal(t, &cursor, resp.LastPullAt)
	assert.False(t, resp.ServerTime.IsZero())
}

func TestService_Status_NoCursorStore(t *testing.T) {
	service := NewService(new(MockRepository), nil, slog.Default())

	resp, err := service.Status(authedContext(7))
	assert.NoError(t, err)
	assert.Nil(t, resp.LastPullAt)
}
