package dto

import "github.com/certtrack/exam-center/internal/models"

// FranchiseExamDataDTO is the per-franchise slice of /api/exam-data:
// the franchise identity plus its full record list.
type FranchiseExamDataDTO struct {
	ID       uint                `json:"id"`
	Name     string              `json:"name"`
	Location string              `json:"location"`
	ExamData []models.ExamRecord `json:"examData"`
}
