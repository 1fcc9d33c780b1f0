package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/certtrack/exam-center/internal/audit"
	"github.com/certtrack/exam-center/internal/authz"
	"github.com/certtrack/exam-center/internal/httperr"
	"github.com/certtrack/exam-center/internal/httpresp"
	"github.com/certtrack/exam-center/internal/middleware"
	"github.com/certtrack/exam-center/internal/models"
	ucfranchise "github.com/certtrack/exam-center/internal/usecase/franchise"
)

// ======================================================
// HANDLER
// ======================================================

type UserHandler struct {
	db          *gorm.DB
	createAdmin *ucfranchise.CreateAdmin
	audit       *audit.Dispatcher
	log         *zap.Logger
}

func NewUserHandler(
	db *gorm.DB,
	createAdmin *ucfranchise.CreateAdmin,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *UserHandler {
	return &UserHandler{db: db, createAdmin: createAdmin, audit: audit, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role" binding:"required"`
	FranchiseID uint   `json:"franchiseId" binding:"required"`
}

type CreateAdminRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Name        string `json:"name" binding:"required"`
	FranchiseID uint   `json:"franchiseId" binding:"required"`
}

type UpdateUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	FranchiseID uint   `json:"franchiseId"`
}

// ======================================================
// CREATE
// ======================================================

func (h *UserHandler) Create(c *gin.Context) {
	actor := actorFromContext(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All fields (username, password, name, role, and franchiseId) are required.")
		return
	}

	if !models.IsValidRole(req.Role) {
		httperr.BadRequest(c, "validation_error", "Invalid role. Allowed values are: superadmin, admin, user")
		return
	}

	decision := authz.Authorize(actor,
		authz.Action{Verb: authz.VerbCreate, Entity: authz.EntityUser},
		authz.Target{RequestedRole: req.Role},
	)
	if !decision.Allowed {
		httperr.Forbidden(c, "access_denied", decision.Reason)
		return
	}

	var franchise models.Franchise
	if err := h.db.First(&franchise, req.FranchiseID).Error; err != nil {
		httperr.NotFound(c, "franchise_not_found", "Franchise not found")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error("password hashing failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		Name:         req.Name,
		Role:         req.Role,
		Franchises:   []models.Franchise{franchise},
	}

	if err := h.db.Create(&user).Error; err != nil {
		httperr.BadRequest(c, "username_already_exists", "Username already exists.")
		return
	}

	h.audit.Dispatch(audit.Event{
		FranchiseID: franchise.ID,
		UserID:      &actor.ID,
		Action:      "user_created",
		Entity:      "user",
		EntityID:    strconv.FormatUint(uint64(user.ID), 10),
	})

	httpresp.Created(c, user)
}

// ======================================================
// CREATE ADMIN
//
// The created admin becomes both a member of the franchise and its
// designated admin. A later admin creation against the same franchise
// silently overwrites the pointer; last write wins.
// ======================================================

func (h *UserHandler) CreateAdmin(c *gin.Context) {
	actor := actorFromContext(c)

	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All fields (username, password, name, and franchiseId) are required.")
		return
	}

	admin, err := h.createAdmin.Execute(c.Request.Context(), ucfranchise.CreateAdminInput{
		ActorID:     actor.ID,
		Username:    req.Username,
		Password:    req.Password,
		Name:        req.Name,
		FranchiseID: req.FranchiseID,
	})
	if err != nil {
		respondError(c, h.log, err, "")
		return
	}

	httpresp.Created(c, admin)
}

// ======================================================
// UPDATE
// ======================================================

func (h *UserHandler) Update(c *gin.Context) {
	actor := actorFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	decision := authz.Authorize(actor,
		authz.Action{Verb: authz.VerbUpdate, Entity: authz.EntityUser},
		authz.Target{UserID: user.ID, UserRole: user.Role, RequestedRole: req.Role},
	)
	if !decision.Allowed {
		httperr.Forbidden(c, "access_denied", decision.Reason)
		return
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.log.Error("password hashing failed", zap.Error(err))
			httperr.Internal(c, "internal_error", "An unexpected error occurred.")
			return
		}
		user.PasswordHash = string(hashed)
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	// Only superadmins may change roles.
	if req.Role != "" && actor.Role == models.RoleSuperadmin {
		if !models.IsValidRole(req.Role) {
			httperr.BadRequest(c, "validation_error", "Invalid role. Allowed values are: superadmin, admin, user")
			return
		}
		user.Role = req.Role
	}

	if req.FranchiseID != 0 {
		var franchise models.Franchise
		if err := h.db.First(&franchise, req.FranchiseID).Error; err != nil {
			httperr.NotFound(c, "franchise_not_found", "Franchise not found")
			return
		}
		if err := h.db.Model(&user).Association("Franchises").Replace(&franchise); err != nil {
			h.log.Error("membership update failed", zap.Error(err))
			httperr.Internal(c, "internal_error", "An unexpected error occurred.")
			return
		}
	}

	if err := h.db.Save(&user).Error; err != nil {
		h.log.Error("user update failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "user_updated",
		Entity:   "user",
		EntityID: strconv.FormatUint(uint64(user.ID), 10),
	})

	c.JSON(http.StatusOK, user)
}

// ======================================================
// DELETE
// ======================================================

func (h *UserHandler) Delete(c *gin.Context) {
	actor := actorFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found")
		return
	}

	decision := authz.Authorize(actor,
		authz.Action{Verb: authz.VerbDelete, Entity: authz.EntityUser},
		authz.Target{UserID: user.ID, UserRole: user.Role},
	)
	if !decision.Allowed {
		httperr.Forbidden(c, "access_denied", decision.Reason)
		return
	}

	if err := h.db.Select("Franchises").Delete(&user).Error; err != nil {
		h.log.Error("user delete failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: strconv.FormatUint(uint64(user.ID), 10),
	})

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}

// ======================================================
// LIST
// ======================================================

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.Preload("Franchises").Find(&users).Error; err != nil {
		h.log.Error("user list failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}
	httpresp.OK(c, users)
}

// ======================================================
// CONTEXT
// ======================================================

// actorFromContext builds the authz actor from the verified token claims.
// Memberships are loaded lazily by the callers that need scoping.
func actorFromContext(c *gin.Context) authz.Actor {
	return authz.Actor{
		ID:   c.MustGet(middleware.ContextUserID).(uint),
		Role: c.GetString(middleware.ContextUserRole),
	}
}
