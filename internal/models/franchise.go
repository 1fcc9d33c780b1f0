package models

import "time"

type Franchise struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:100;not null" json:"name"`
	Location      string `gorm:"size:255;not null" json:"location"`
	Status        string `gorm:"size:20;default:'active'" json:"status"`
	ContactNumber string `gorm:"size:20;not null" json:"contactNumber"`

	// Designated admin; last writer wins, no conflict detection.
	AdminID *uint `json:"admin_id"`
	Admin   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"admin,omitempty"`

	ExamData []ExamRecord `gorm:"constraint:OnDelete:CASCADE;" json:"examData"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	FranchiseActive   = "active"
	FranchiseInactive = "inactive"
)
