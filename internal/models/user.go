package models

import "gorm.io/gorm"

// DefaultRole is assigned when a signup does not specify an account category.
const DefaultRole = "Small Business"

// User represents a registered account.
// Password always holds the bcrypt hash, never the plaintext; the json:"-"
// tag keeps it out of every response body.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required"`
	Password   string `json:"-" gorm:"type:varchar(255)" validate:"required"`
	Role       string `json:"role" gorm:"type:varchar(50)"`
	gorm.Model `json:"-"` // CreatedAt, UpdatedAt, DeletedAt
}
