package franchise

import (
	"context"
	"strconv"

	"github.com/certtrack/exam-center/internal/audit"
	domain "github.com/certtrack/exam-center/internal/domain/exam"
	"github.com/certtrack/exam-center/internal/models"
)

type DeleteFranchise struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteFranchise(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteFranchise {
	return &DeleteFranchise{
		repo:  repo,
		audit: audit,
	}
}

// Execute deletes the franchise together with its exam records and
// membership join rows; member users survive, minus the membership. The
// deleted franchise is returned for the response body.
func (uc *DeleteFranchise) Execute(
	ctx context.Context,
	actorID uint,
	franchiseID uint,
) (*models.Franchise, error) {

	franchise, err := uc.repo.GetFranchiseByID(ctx, franchiseID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.DeleteFranchiseCascade(ctx, franchiseID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		FranchiseID: franchise.ID,
		UserID:      &actorID,
		Action:      "franchise_deleted",
		Entity:      "franchise",
		EntityID:    strconv.FormatUint(uint64(franchise.ID), 10),
	})

	return franchise, nil
}
