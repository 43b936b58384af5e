package models

import "time"

// Website is the tracked site a funnel is scoped to.
type Website struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"userId"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Domain string `gorm:"size:500" json:"domain"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
