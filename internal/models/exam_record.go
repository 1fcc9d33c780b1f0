package models

import "time"

// ExamRecord is owned by its franchise; records are only ever created,
// updated or deleted through franchise-scoped operations.
type ExamRecord struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	FranchiseID uint   `gorm:"index;not null" json:"franchise_id"`

	Name              string `gorm:"size:100;not null" json:"name"`
	ExamName          string `gorm:"size:100;not null" json:"examName"`
	Date              string `gorm:"size:10;not null" json:"date"`
	DurationInMinutes int    `gorm:"not null" json:"durationInMinutes"`
	Status            string `gorm:"size:20;not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
