package exam

import (
	"context"

	"github.com/certtrack/exam-center/internal/audit"
	"github.com/certtrack/exam-center/internal/authz"
	domain "github.com/certtrack/exam-center/internal/domain/exam"
)

type DeleteExamRecord struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteExamRecord(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteExamRecord {
	return &DeleteExamRecord{
		repo:  repo,
		audit: audit,
	}
}

// Execute deletes one record. Deleting an id that is already gone is
// NotFound, never a silent success.
func (uc *DeleteExamRecord) Execute(
	ctx context.Context,
	actorID uint,
	actorRole string,
	franchiseID uint,
	recordID string,
) error {

	actor, err := loadActor(ctx, uc.repo, actorID, actorRole)
	if err != nil {
		return err
	}

	decision := authz.Authorize(actor,
		authz.Action{Verb: authz.VerbDelete, Entity: authz.EntityExamRecord},
		authz.Target{FranchiseID: franchiseID},
	)
	if !decision.Allowed {
		return &DeniedError{Reason: decision.Reason}
	}

	if err := uc.repo.DeleteExamRecord(ctx, franchiseID, recordID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		FranchiseID: franchiseID,
		UserID:      &actorID,
		Action:      "exam_data_deleted",
		Entity:      "exam_record",
		EntityID:    recordID,
	})

	return nil
}
