package franchise

import (
	"context"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/certtrack/exam-center/internal/audit"
	domain "github.com/certtrack/exam-center/internal/domain/exam"
	"github.com/certtrack/exam-center/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAdminInput struct {
	ActorID uint

	Username string
	Password string
	Name     string

	FranchiseID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAdmin struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAdmin(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAdmin {
	return &CreateAdmin{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute creates an admin account linked to the franchise and points
// the franchise's designated-admin at it. A franchise that already has
// a designated admin gets it replaced silently; last write wins.
func (uc *CreateAdmin) Execute(
	ctx context.Context,
	in CreateAdminInput,
) (*models.User, error) {

	franchise, err := uc.repo.GetFranchiseByID(ctx, in.FranchiseID)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := models.User{
		Username:     in.Username,
		PasswordHash: string(hashed),
		Name:         in.Name,
		Role:         models.RoleAdmin,
		Franchises:   []models.Franchise{*franchise},
	}

	if err := uc.repo.CreateUser(ctx, &admin); err != nil {
		return nil, err
	}

	if err := uc.repo.SetDesignatedAdmin(ctx, franchise.ID, admin.ID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		FranchiseID: franchise.ID,
		UserID:      &in.ActorID,
		Action:      "admin_created",
		Entity:      "user",
		EntityID:    strconv.FormatUint(uint64(admin.ID), 10),
	})

	return &admin, nil
}
