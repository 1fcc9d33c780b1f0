package exam

import (
	"context"

	"github.com/certtrack/exam-center/internal/authz"
	domain "github.com/certtrack/exam-center/internal/domain/exam"
)

// DeniedError carries an authorization refusal across the usecase
// boundary; handlers map it to 403.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

// loadActor resolves the token subject into an authz.Actor with its
// current franchise memberships. The lookup runs for every role: it also
// confirms the account behind the token still exists. Superadmin
// visibility is unscoped, so their membership list goes unused.
func loadActor(
	ctx context.Context,
	repo domain.Repository,
	actorID uint,
	actorRole string,
) (authz.Actor, error) {

	user, err := repo.GetUserWithFranchises(ctx, actorID)
	if err != nil {
		return authz.Actor{}, err
	}

	return authz.Actor{
		ID:           user.ID,
		Role:         actorRole,
		FranchiseIDs: user.FranchiseIDs(),
	}, nil
}
