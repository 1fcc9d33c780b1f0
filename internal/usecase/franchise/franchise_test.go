package franchise

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/certtrack/exam-center/internal/audit"
	domain "github.com/certtrack/exam-center/internal/domain/exam"
	"github.com/certtrack/exam-center/internal/models"
)

// ==========================
// Mock Repository
// ==========================

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUserWithFranchises(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetFranchiseByID(ctx context.Context, id uint) (*models.Franchise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Franchise), args.Error(1)
}

func (m *MockRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) SetDesignatedAdmin(ctx context.Context, franchiseID, adminID uint) error {
	args := m.Called(ctx, franchiseID, adminID)
	return args.Error(0)
}

func (m *MockRepository) DeleteFranchiseCascade(ctx context.Context, franchiseID uint) error {
	args := m.Called(ctx, franchiseID)
	return args.Error(0)
}

func (m *MockRepository) AppendExamRecords(ctx context.Context, franchiseID uint, records []models.ExamRecord) error {
	args := m.Called(ctx, franchiseID, records)
	return args.Error(0)
}

func (m *MockRepository) UpdateExamRecord(ctx context.Context, franchiseID uint, recordID string, rec models.ExamRecord) (*models.ExamRecord, error) {
	args := m.Called(ctx, franchiseID, recordID, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamRecord), args.Error(1)
}

func (m *MockRepository) DeleteExamRecord(ctx context.Context, franchiseID uint, recordID string) error {
	args := m.Called(ctx, franchiseID, recordID)
	return args.Error(0)
}

func (m *MockRepository) ListFranchiseExamData(ctx context.Context, franchiseIDs []uint) ([]models.Franchise, error) {
	args := m.Called(ctx, franchiseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Franchise), args.Error(1)
}

func (m *MockRepository) ListAllFranchiseExamData(ctx context.Context) ([]models.Franchise, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Franchise), args.Error(1)
}

func (m *MockRepository) ListExamDates(ctx context.Context, franchiseIDs []uint) ([]string, error) {
	args := m.Called(ctx, franchiseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) ListAllExamDates(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ domain.Repository = (*MockRepository)(nil)

// ==========================
// Test Helpers
// ==========================

func newDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nil, zap.NewNop())
}

func adminID(a uint) *uint {
	return &a
}

// ==========================
// CreateAdmin
// ==========================

func TestCreateAdminOverwritesDesignatedAdmin(t *testing.T) {
	repo := new(MockRepository)
	uc := NewCreateAdmin(repo, newDispatcher())

	// Franchise 1 already has admin 41 as its designated admin.
	repo.On("GetFranchiseByID", mock.Anything, uint(1)).
		Return(&models.Franchise{ID: 1, Name: "Downtown", AdminID: adminID(41)}, nil)

	repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 42
		}).
		Return(nil)

	// The pointer moves to the new admin with no conflict check.
	repo.On("SetDesignatedAdmin", mock.Anything, uint(1), uint(42)).
		Return(nil)

	admin, err := uc.Execute(context.Background(), CreateAdminInput{
		ActorID:     1,
		Username:    "a2",
		Password:    "secret",
		Name:        "Admin Two",
		FranchiseID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(42), admin.ID)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	require.Len(t, admin.Franchises, 1)
	assert.Equal(t, uint(1), admin.Franchises[0].ID)
	repo.AssertExpectations(t)
}

func TestCreateAdminHashesPassword(t *testing.T) {
	repo := new(MockRepository)
	uc := NewCreateAdmin(repo, newDispatcher())

	repo.On("GetFranchiseByID", mock.Anything, uint(1)).
		Return(&models.Franchise{ID: 1}, nil)
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
	repo.On("SetDesignatedAdmin", mock.Anything, uint(1), mock.Anything).Return(nil)

	admin, err := uc.Execute(context.Background(), CreateAdminInput{
		ActorID:     1,
		Username:    "a1",
		Password:    "secret",
		Name:        "Admin One",
		FranchiseID: 1,
	})

	require.NoError(t, err)
	assert.NotEqual(t, "secret", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("secret")))
}

func TestCreateAdminMissingFranchise(t *testing.T) {
	repo := new(MockRepository)
	uc := NewCreateAdmin(repo, newDispatcher())

	repo.On("GetFranchiseByID", mock.Anything, uint(9)).
		Return(nil, domain.NotFound("Franchise"))

	_, err := uc.Execute(context.Background(), CreateAdminInput{
		ActorID:     1,
		Username:    "a1",
		Password:    "secret",
		Name:        "Admin One",
		FranchiseID: 9,
	})

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SetDesignatedAdmin", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAdminDuplicateUsername(t *testing.T) {
	repo := new(MockRepository)
	uc := NewCreateAdmin(repo, newDispatcher())

	repo.On("GetFranchiseByID", mock.Anything, uint(1)).
		Return(&models.Franchise{ID: 1}, nil)
	repo.On("CreateUser", mock.Anything, mock.Anything).
		Return(&domain.DuplicateError{Message: "Username already exists."})

	_, err := uc.Execute(context.Background(), CreateAdminInput{
		ActorID:     1,
		Username:    "taken",
		Password:    "secret",
		Name:        "Admin One",
		FranchiseID: 1,
	})

	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	repo.AssertNotCalled(t, "SetDesignatedAdmin", mock.Anything, mock.Anything, mock.Anything)
}

// ==========================
// DeleteFranchise
// ==========================

func TestDeleteFranchiseCascades(t *testing.T) {
	repo := new(MockRepository)
	uc := NewDeleteFranchise(repo, newDispatcher())

	repo.On("GetFranchiseByID", mock.Anything, uint(3)).
		Return(&models.Franchise{ID: 3, Name: "Uptown"}, nil)
	repo.On("DeleteFranchiseCascade", mock.Anything, uint(3)).
		Return(nil)

	deleted, err := uc.Execute(context.Background(), 1, 3)

	require.NoError(t, err)
	assert.Equal(t, "Uptown", deleted.Name)
	repo.AssertNumberOfCalls(t, "DeleteFranchiseCascade", 1)
}

func TestDeleteFranchiseNotFound(t *testing.T) {
	repo := new(MockRepository)
	uc := NewDeleteFranchise(repo, newDispatcher())

	repo.On("GetFranchiseByID", mock.Anything, uint(9)).
		Return(nil, domain.NotFound("Franchise"))

	_, err := uc.Execute(context.Background(), 1, 9)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	repo.AssertNotCalled(t, "DeleteFranchiseCascade", mock.Anything, mock.Anything)
}
