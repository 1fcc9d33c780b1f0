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

// The client submits an array here too; only the first entry is applied.
type UpdateExamRecordInput struct {
	ActorID   uint
	ActorRole string

	FranchiseID uint
	RecordID    string
	Records     []domain.RecordInput
}

// ======================================================
// USE CASE
// ======================================================

type UpdateExamRecord struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateExamRecord(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateExamRecord {
	return &UpdateExamRecord{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateExamRecord) Execute(
	ctx context.Context,
	in UpdateExamRecordInput,
) (*models.ExamRecord, error) {

	actor, err := loadActor(ctx, uc.repo, in.ActorID, in.ActorRole)
	if err != nil {
		return nil, err
	}

	decision := authz.Authorize(actor,
		authz.Action{Verb: authz.VerbUpdate, Entity: authz.EntityExamRecord},
		authz.Target{FranchiseID: in.FranchiseID},
	)
	if !decision.Allowed {
		return nil, &DeniedError{Reason: decision.Reason}
	}

	if len(in.Records) == 0 {
		return nil, domain.ValidationErr("examData", "Exam data must be a non-empty array.")
	}

	rec, err := domain.ValidateRecord(in.Records[0])
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.UpdateExamRecord(ctx, in.FranchiseID, in.RecordID, rec)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		FranchiseID: in.FranchiseID,
		UserID:      &in.ActorID,
		Action:      "exam_data_updated",
		Entity:      "exam_record",
		EntityID:    updated.ID,
	})

	return updated, nil
}
