package exam

import (
	"context"
	"time"

	domain "github.com/certtrack/exam-center/internal/domain/exam"
	"github.com/certtrack/exam-center/internal/models"
)

type CountExams struct {
	repo domain.Repository
}

func NewCountExams(
	repo domain.Repository,
) *CountExams {
	return &CountExams{
		repo: repo,
	}
}

// Execute counts the actor's visible exam records against the day, week
// and month windows around now. period, when non-nil, selects the day
// window; the week and month windows stay anchored on now.
func (uc *CountExams) Execute(
	ctx context.Context,
	actorID uint,
	actorRole string,
	now time.Time,
	period *time.Time,
) (domain.Counts, error) {

	actor, err := loadActor(ctx, uc.repo, actorID, actorRole)
	if err != nil {
		return domain.Counts{}, err
	}

	var dates []string
	if actorRole == models.RoleSuperadmin {
		dates, err = uc.repo.ListAllExamDates(ctx)
	} else {
		dates, err = uc.repo.ListExamDates(ctx, actor.FranchiseIDs)
	}
	if err != nil {
		return domain.Counts{}, err
	}

	counts := domain.CountWindows(dates, now, period)
	if counts.Total == 0 {
		return domain.Counts{}, domain.NotFoundMsg("Exam data", "No exam data found for this user")
	}
	return counts, nil
}
