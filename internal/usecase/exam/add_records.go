package exam

import (
	"context"

	"github.com/certtrack/exam-center/internal/audit"
	"github.com/certtrack/exam-center/internal/authz"
	domain "github.com/certtrack/exam-center/internal/domain/exam"
	"github.com/certtrack/exam-center/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type AddExamRecordsInput struct {
	ActorID   uint
	ActorRole string

	FranchiseID uint
	Records     []domain.RecordInput
}

// ======================================================
// USE CASE
// ======================================================

type AddExamRecords struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAddExamRecords(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AddExamRecords {
	return &AddExamRecords{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute runs the write pipeline for a batch append: authorize, validate,
// persist. Any failure leaves the franchise's record list untouched.
func (uc *AddExamRecords) Execute(
	ctx context.Context,
	in AddExamRecordsInput,
) ([]models.ExamRecord, error) {

	actor, err := loadActor(ctx, uc.repo, in.ActorID, in.ActorRole)
	if err != nil {
		return nil, err
	}

	decision := authz.Authorize(actor,
		authz.Action{Verb: authz.VerbCreate, Entity: authz.EntityExamRecord},
		authz.Target{FranchiseID: in.FranchiseID},
	)
	if !decision.Allowed {
		return nil, &DeniedError{Reason: decision.Reason}
	}

	records, err := domain.ValidateBatch(in.Records)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetFranchiseByID(ctx, in.FranchiseID); err != nil {
		return nil, err
	}

	if err := uc.repo.AppendExamRecords(ctx, in.FranchiseID, records); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		FranchiseID: in.FranchiseID,
		UserID:      &in.ActorID,
		Action:      "exam_data_added",
		Entity:      "exam_record",
		Metadata:    map[string]any{"count": len(records)},
	})

	return records, nil
}
