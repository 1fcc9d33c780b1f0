package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/certtrack/exam-center/internal/audit"
	"github.com/certtrack/exam-center/internal/httperr"
	"github.com/certtrack/exam-center/internal/httpresp"
	"github.com/certtrack/exam-center/internal/models"
	ucfranchise "github.com/certtrack/exam-center/internal/usecase/franchise"
)

// ======================================================
// HANDLER
// ======================================================

type FranchiseHandler struct {
	db              *gorm.DB
	deleteFranchise *ucfranchise.DeleteFranchise
	audit           *audit.Dispatcher
	log             *zap.Logger
}

func NewFranchiseHandler(
	db *gorm.DB,
	deleteFranchise *ucfranchise.DeleteFranchise,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *FranchiseHandler {
	return &FranchiseHandler{db: db, deleteFranchise: deleteFranchise, audit: audit, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateFranchiseRequest struct {
	Name          string `json:"name" binding:"required"`
	Location      string `json:"location" binding:"required"`
	Status        string `json:"status"`
	ContactNumber string `json:"contactNumber" binding:"required"`
}

type UpdateFranchiseRequest struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	Status        string `json:"status"`
	ContactNumber string `json:"contactNumber"`
}

// ======================================================
// CREATE
//
// A franchise needs no admin to exist; the designated admin is attached
// later through admin creation.
// ======================================================

func (h *FranchiseHandler) Create(c *gin.Context) {
	actor := actorFromContext(c)

	var req CreateFranchiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All fields (name, location, and contactNumber) are required.")
		return
	}

	status := req.Status
	if status == "" {
		status = models.FranchiseActive
	}
	if status != models.FranchiseActive && status != models.FranchiseInactive {
		httperr.BadRequest(c, "validation_error", "Invalid status. Allowed values are: active, inactive")
		return
	}

	franchise := models.Franchise{
		Name:          req.Name,
		Location:      req.Location,
		Status:        status,
		ContactNumber: req.ContactNumber,
		ExamData:      []models.ExamRecord{},
	}

	if err := h.db.Create(&franchise).Error; err != nil {
		h.log.Error("franchise create failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}

	h.audit.Dispatch(audit.Event{
		FranchiseID: franchise.ID,
		UserID:      &actor.ID,
		Action:      "franchise_created",
		Entity:      "franchise",
		EntityID:    strconv.FormatUint(uint64(franchise.ID), 10),
	})

	httpresp.Created(c, franchise)
}

// ======================================================
// UPDATE
// ======================================================

func (h *FranchiseHandler) Update(c *gin.Context) {
	actor := actorFromContext(c)

	id, err := strconv.ParseUint(c.Param("franchiseId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid franchise id.")
		return
	}

	var franchise models.Franchise
	if err := h.db.First(&franchise, uint(id)).Error; err != nil {
		httperr.NotFound(c, "franchise_not_found", "Franchise not found")
		return
	}

	var req UpdateFranchiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != "" {
		franchise.Name = req.Name
	}
	if req.Location != "" {
		franchise.Location = req.Location
	}
	if req.Status != "" {
		if req.Status != models.FranchiseActive && req.Status != models.FranchiseInactive {
			httperr.BadRequest(c, "validation_error", "Invalid status. Allowed values are: active, inactive")
			return
		}
		franchise.Status = req.Status
	}
	if req.ContactNumber != "" {
		franchise.ContactNumber = req.ContactNumber
	}

	if err := h.db.Save(&franchise).Error; err != nil {
		h.log.Error("franchise update failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}

	h.audit.Dispatch(audit.Event{
		FranchiseID: franchise.ID,
		UserID:      &actor.ID,
		Action:      "franchise_updated",
		Entity:      "franchise",
		EntityID:    strconv.FormatUint(uint64(franchise.ID), 10),
	})

	c.JSON(http.StatusOK, franchise)
}

// ======================================================
// DELETE
//
// Deleting a franchise removes its exam records (owned rows) but does
// not touch users that referenced it; stale memberships are filtered
// out at read time.
// ======================================================

func (h *FranchiseHandler) Delete(c *gin.Context) {
	actor := actorFromContext(c)

	id, err := strconv.ParseUint(c.Param("franchiseId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid franchise id.")
		return
	}

	franchise, err := h.deleteFranchise.Execute(c.Request.Context(), actor.ID, uint(id))
	if err != nil {
		respondError(c, h.log, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Franchise deleted successfully",
		"franchise": franchise,
	})
}

// ======================================================
// LIST
// ======================================================

func (h *FranchiseHandler) List(c *gin.Context) {
	var franchises []models.Franchise
	if err := h.db.Preload("Admin").Preload("ExamData").Find(&franchises).Error; err != nil {
		h.log.Error("franchise list failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}
	httpresp.OK(c, franchises)
}

// ======================================================
// ASSOCIATED
// ======================================================

// Associated returns the caller's own franchise list; admins and
// superadmins see every franchise.
func (h *FranchiseHandler) Associated(c *gin.Context) {
	actor := actorFromContext(c)

	if actor.Role == models.RoleUser {
		var user models.User
		if err := h.db.Preload("Franchises").First(&user, actor.ID).Error; err != nil {
			httperr.NotFound(c, "user_not_found", "User not found")
			return
		}
		if len(user.Franchises) == 0 {
			httperr.NotFound(c, "franchise_not_found", "No franchise associated with this user")
			return
		}
		httpresp.OK(c, user.Franchises)
		return
	}

	var franchises []models.Franchise
	if err := h.db.Find(&franchises).Error; err != nil {
		h.log.Error("franchise list failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}
	httpresp.OK(c, franchises)
}
