package models

import "time"

// Role enumerates the ledger-recorded principal roles.
type Role string

const (
	RoleNone      Role = ""
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// Valid reports whether the role is one the ledger accepts.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return true
	}
	return false
}

// RoleRecord binds a principal address to its ledger role.
type RoleRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Principal string    `gorm:"size:128;not null;uniqueIndex" json:"principal"`
	Role      Role      `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
