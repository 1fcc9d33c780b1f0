package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Role         string `gorm:"size:20;not null" json:"role"`

	// The observed API exposes memberships under the singular key "franchise".
	Franchises []Franchise `gorm:"many2many:user_franchises;" json:"franchise"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

func (u *User) FranchiseIDs() []uint {
	ids := make([]uint, 0, len(u.Franchises))
	for _, f := range u.Franchises {
		ids = append(ids, f.ID)
	}
	return ids
}
