package models

import "time"

// SessionModel represents the database model for a console session
type SessionModel struct {
	ID           string     `gorm:"type:varchar(64);primary_key"`
	AccessToken  string     `gorm:"type:text;not null"`
	RefreshToken string     `gorm:"type:text;not null"`
	Me           *string    `gorm:"type:jsonb"`
	ExpiresAt    *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (SessionModel) TableName() string {
	return "console_sessions"
}
