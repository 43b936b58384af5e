package models

import "time"

// User is the account an access token resolves to. This service only reads it.
type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Username string `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Role     string `gorm:"size:50;not null" json:"role"` // user, admin
	IsActive bool   `gorm:"not null" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Websites []Website `gorm:"foreignKey:UserID" json:"-"`
	Funnels  []Funnel  `gorm:"foreignKey:UserID" json:"-"`
}
