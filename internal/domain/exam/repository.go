package exam

import (
	"context"

	"github.com/certtrack/exam-center/internal/models"
)

// Repository is the storage contract for franchise-scoped operations.
// Exam-record mutations take the franchise lock for the duration of the
// change so that concurrent writers to the same franchise's record list
// serialize.
type Repository interface {
	// -------- Users / franchises --------
	GetUserWithFranchises(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetFranchiseByID(
		ctx context.Context,
		id uint,
	) (*models.Franchise, error)

	CreateUser(
		ctx context.Context,
		user *models.User,
	) error

	SetDesignatedAdmin(
		ctx context.Context,
		franchiseID uint,
		adminID uint,
	) error

	DeleteFranchiseCascade(
		ctx context.Context,
		franchiseID uint,
	) error

	// -------- Exam records (franchise-locked) --------
	AppendExamRecords(
		ctx context.Context,
		franchiseID uint,
		records []models.ExamRecord,
	) error

	UpdateExamRecord(
		ctx context.Context,
		franchiseID uint,
		recordID string,
		rec models.ExamRecord,
	) (*models.ExamRecord, error)

	DeleteExamRecord(
		ctx context.Context,
		franchiseID uint,
		recordID string,
	) error

	// -------- Reads --------
	ListFranchiseExamData(
		ctx context.Context,
		franchiseIDs []uint,
	) ([]models.Franchise, error)

	ListAllFranchiseExamData(
		ctx context.Context,
	) ([]models.Franchise, error)

	ListExamDates(
		ctx context.Context,
		franchiseIDs []uint,
	) ([]string, error)

	ListAllExamDates(
		ctx context.Context,
	) ([]string, error)
}

// NotFoundError distinguishes missing franchises/records from storage
// failures without leaking gorm through the domain boundary.
type NotFoundError struct {
	Entity  string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Entity + " not found."
}

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func NotFoundMsg(entity, message string) error {
	return &NotFoundError{Entity: entity, Message: message}
}

// DuplicateError reports a uniqueness violation, currently usernames.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string {
	return e.Message
}
