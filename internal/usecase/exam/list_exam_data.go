package exam

import (
	"context"

	domain "github.com/certtrack/exam-center/internal/domain/exam"
	"github.com/certtrack/exam-center/internal/dto"
	"github.com/certtrack/exam-center/internal/models"
)

type ListExamData struct {
	repo domain.Repository
}

func NewListExamData(
	repo domain.Repository,
) *ListExamData {
	return &ListExamData{
		repo: repo,
	}
}

// Execute returns the per-franchise exam data visible to the actor: every
// franchise for superadmins, the actor's memberships otherwise.
func (uc *ListExamData) Execute(
	ctx context.Context,
	actorID uint,
	actorRole string,
) ([]dto.FranchiseExamDataDTO, error) {

	actor, err := loadActor(ctx, uc.repo, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	var franchises []models.Franchise
	if actorRole == models.RoleSuperadmin {
		franchises, err = uc.repo.ListAllFranchiseExamData(ctx)
	} else {
		if len(actor.FranchiseIDs) == 0 {
			return nil, domain.NotFoundMsg("Franchise", "No associated franchises found for this user")
		}
		franchises, err = uc.repo.ListFranchiseExamData(ctx, actor.FranchiseIDs)
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.FranchiseExamDataDTO, 0, len(franchises))
	for _, f := range franchises {
		out = append(out, dto.FranchiseExamDataDTO{
			ID:       f.ID,
			Name:     f.Name,
			Location: f.Location,
			ExamData: f.ExamData,
		})
	}
	return out, nil
}
