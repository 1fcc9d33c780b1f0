package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/certtrack/exam-center/internal/domain/exam"
	"github.com/certtrack/exam-center/internal/httperr"
	"github.com/certtrack/exam-center/internal/httpresp"
	ucexam "github.com/certtrack/exam-center/internal/usecase/exam"
)

// ======================================================
// HANDLER
// ======================================================

type ExamDataHandler struct {
	addRecords   *ucexam.AddExamRecords
	updateRecord *ucexam.UpdateExamRecord
	deleteRecord *ucexam.DeleteExamRecord
	listExamData *ucexam.ListExamData
	countExams   *ucexam.CountExams
	log          *zap.Logger
}

func NewExamDataHandler(
	addRecords *ucexam.AddExamRecords,
	updateRecord *ucexam.UpdateExamRecord,
	deleteRecord *ucexam.DeleteExamRecord,
	listExamData *ucexam.ListExamData,
	countExams *ucexam.CountExams,
	log *zap.Logger,
) *ExamDataHandler {
	return &ExamDataHandler{
		addRecords:   addRecords,
		updateRecord: updateRecord,
		deleteRecord: deleteRecord,
		listExamData: listExamData,
		countExams:   countExams,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ExamDataRequest struct {
	ExamData []domain.RecordInput `json:"examData"`
}

// ======================================================
// ADD
// ======================================================

func (h *ExamDataHandler) Add(c *gin.Context) {
	actor := actorFromContext(c)

	franchiseID, err := strconv.ParseUint(c.Param("franchiseId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid franchise id.")
		return
	}

	var req ExamDataRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ExamData) == 0 {
		httperr.BadRequest(c, "validation_error", "Exam data must be a non-empty array.")
		return
	}

	records, err := h.addRecords.Execute(c.Request.Context(), ucexam.AddExamRecordsInput{
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		FranchiseID: uint(franchiseID),
		Records:     req.ExamData,
	})
	if err != nil {
		respondError(c, h.log, err,
			"You are not authorized to add exam data to this franchise.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Exam data added successfully!",
		"examData": records,
	})
}

// ======================================================
// UPDATE
// ======================================================

func (h *ExamDataHandler) Update(c *gin.Context) {
	actor := actorFromContext(c)

	franchiseID, err := strconv.ParseUint(c.Param("franchiseId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid franchise id.")
		return
	}
	recordID := c.Param("examDataId")

	var req ExamDataRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ExamData) == 0 {
		httperr.BadRequest(c, "validation_error", "Exam data must be a non-empty array.")
		return
	}

	updated, err := h.updateRecord.Execute(c.Request.Context(), ucexam.UpdateExamRecordInput{
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		FranchiseID: uint(franchiseID),
		RecordID:    recordID,
		Records:     req.ExamData,
	})
	if err != nil {
		respondError(c, h.log, err,
			"You are not authorized to update exam data for this franchise.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Exam data updated successfully!",
		"examData": updated,
	})
}

// ======================================================
// DELETE
// ======================================================

func (h *ExamDataHandler) Delete(c *gin.Context) {
	actor := actorFromContext(c)

	franchiseID, err := strconv.ParseUint(c.Param("franchiseId"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid franchise id.")
		return
	}
	recordID := c.Param("examDataId")

	if err := h.deleteRecord.Execute(
		c.Request.Context(),
		actor.ID,
		actor.Role,
		uint(franchiseID),
		recordID,
	); err != nil {
		respondError(c, h.log, err,
			"You are not authorized to delete exam data for this franchise.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exam data deleted successfully."})
}

// ======================================================
// LIST
// ======================================================

func (h *ExamDataHandler) List(c *gin.Context) {
	actor := actorFromContext(c)

	data, err := h.listExamData.Execute(c.Request.Context(), actor.ID, actor.Role)
	if err != nil {
		respondError(c, h.log, err, "")
		return
	}
	if len(data) == 0 {
		httperr.NotFound(c, "exam_data_not_found", "No exam data found for associated franchises")
		return
	}

	httpresp.OK(c, data)
}

// ======================================================
// COUNT
// ======================================================

func (h *ExamDataHandler) Count(c *gin.Context) {
	actor := actorFromContext(c)

	var period *time.Time
	if p := c.Query("period"); p != "" {
		t, err := time.Parse(domain.DateLayout, p)
		if err != nil {
			httperr.BadRequest(c, "invalid_period", "Invalid period format. Expected YYYY-MM-DD.")
			return
		}
		period = &t
	}

	counts, err := h.countExams.Execute(
		c.Request.Context(),
		actor.ID,
		actor.Role,
		time.Now().UTC(),
		period,
	)
	if err != nil {
		respondError(c, h.log, err, "")
		return
	}

	httpresp.OK(c, counts)
}

// ======================================================
// DURATION OPTIONS
// ======================================================

func (h *ExamDataHandler) DurationOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": domain.ValidDurations})
}
