// Package model holds the GORM table mappings for the persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via gen_random_uuid().
type UserModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email                string    `gorm:"type:varchar(255);unique;not null"`
	Name                 string    `gorm:"type:varchar(100);not null"`
	PasswordHash         string    `gorm:"type:varchar(255)"`
	Role                 string    `gorm:"type:varchar(20);not null;default:'user'"`
	Avatar               string    `gorm:"type:text"`
	AvatarRef            string    `gorm:"type:text"`
	Phone                string    `gorm:"type:varchar(50)"`
	Profession           string    `gorm:"type:varchar(100)"`
	IsProfessional       bool      `gorm:"not null;default:false"`
	IsActive             bool      `gorm:"not null;default:true"`
	LastLogin            *time.Time
	PasswordResetToken   string `gorm:"type:varchar(128);index"`
	PasswordResetExpires *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
