package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/certtrack/exam-center/internal/domain/exam"
	"github.com/certtrack/exam-center/internal/models"
)

type ExamGormRepository struct {
	db *gorm.DB
}

func NewExamGormRepository(db *gorm.DB) *ExamGormRepository {
	return &ExamGormRepository{db: db}
}

// --------------------------------------------------
// Users / franchises
// --------------------------------------------------

func (r *ExamGormRepository) GetUserWithFranchises(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Franchises").
		First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("User")
		}
		return nil, err
	}
	return &user, nil
}

func (r *ExamGormRepository) GetFranchiseByID(
	ctx context.Context,
	id uint,
) (*models.Franchise, error) {

	var franchise models.Franchise
	if err := r.db.WithContext(ctx).First(&franchise, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Franchise")
		}
		return nil, err
	}
	return &franchise, nil
}

func (r *ExamGormRepository) CreateUser(
	ctx context.Context,
	user *models.User,
) error {

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Message: "Username already exists."}
		}
		return err
	}
	return nil
}

// SetDesignatedAdmin repoints the franchise's designated admin. There is
// no check against an existing pointer; last write wins.
func (r *ExamGormRepository) SetDesignatedAdmin(
	ctx context.Context,
	franchiseID uint,
	adminID uint,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Franchise{}).
		Where("id = ?", franchiseID).
		Update("admin_id", adminID).Error
}

// DeleteFranchiseCascade removes the franchise, its exam records and its
// membership join rows in one transaction. Users referencing the
// franchise are untouched; they only lose the membership.
func (r *ExamGormRepository) DeleteFranchiseCascade(
	ctx context.Context,
	franchiseID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("franchise_id = ?", franchiseID).
			Delete(&models.ExamRecord{}).Error; err != nil {
			return err
		}
		if err := tx.
			Exec("DELETE FROM user_franchises WHERE franchise_id = ?", franchiseID).
			Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Franchise{}, franchiseID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("Franchise")
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --------------------------------------------------
// Exam records
//
// Every mutation locks the owning franchise row FOR UPDATE so that
// read-modify-write on one franchise's record list is serialized.
// --------------------------------------------------

func (r *ExamGormRepository) lockFranchise(
	tx *gorm.DB,
	franchiseID uint,
) error {

	var franchise models.Franchise
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&franchise, franchiseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("Franchise")
		}
		return err
	}
	return nil
}

func (r *ExamGormRepository) AppendExamRecords(
	ctx context.Context,
	franchiseID uint,
	records []models.ExamRecord,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockFranchise(tx, franchiseID); err != nil {
			return err
		}

		for i := range records {
			records[i].FranchiseID = franchiseID
		}
		return tx.Create(&records).Error
	})
}

func (r *ExamGormRepository) UpdateExamRecord(
	ctx context.Context,
	franchiseID uint,
	recordID string,
	rec models.ExamRecord,
) (*models.ExamRecord, error) {

	var updated models.ExamRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockFranchise(tx, franchiseID); err != nil {
			return err
		}

		var existing models.ExamRecord
		if err := tx.
			Where("id = ? AND franchise_id = ?", recordID, franchiseID).
			First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("Exam data")
			}
			return err
		}

		existing.Name = rec.Name
		existing.ExamName = rec.ExamName
		existing.Date = rec.Date
		existing.DurationInMinutes = rec.DurationInMinutes
		existing.Status = rec.Status

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ExamGormRepository) DeleteExamRecord(
	ctx context.Context,
	franchiseID uint,
	recordID string,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockFranchise(tx, franchiseID); err != nil {
			return err
		}

		res := tx.
			Where("id = ? AND franchise_id = ?", recordID, franchiseID).
			Delete(&models.ExamRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("Exam data")
		}
		return nil
	})
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *ExamGormRepository) ListFranchiseExamData(
	ctx context.Context,
	franchiseIDs []uint,
) ([]models.Franchise, error) {

	var franchises []models.Franchise
	if err := r.db.WithContext(ctx).
		Preload("ExamData").
		Where("id IN ?", franchiseIDs).
		Find(&franchises).Error; err != nil {
		return nil, err
	}
	return franchises, nil
}

func (r *ExamGormRepository) ListAllFranchiseExamData(
	ctx context.Context,
) ([]models.Franchise, error) {

	var franchises []models.Franchise
	if err := r.db.WithContext(ctx).
		Preload("ExamData").
		Find(&franchises).Error; err != nil {
		return nil, err
	}
	return franchises, nil
}

func (r *ExamGormRepository) ListExamDates(
	ctx context.Context,
	franchiseIDs []uint,
) ([]string, error) {

	var dates []string
	if err := r.db.WithContext(ctx).
		Model(&models.ExamRecord{}).
		Where("franchise_id IN ?", franchiseIDs).
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *ExamGormRepository) ListAllExamDates(
	ctx context.Context,
) ([]string, error) {

	var dates []string
	if err := r.db.WithContext(ctx).
		Model(&models.ExamRecord{}).
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// Compile-time check
var _ domain.Repository = (*ExamGormRepository)(nil)
