package models

import "time"

// Team represents user teams for collaboration
type Team struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Members  []TeamUser    `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Websites []TeamWebsite `gorm:"foreignKey:TeamID" json:"websites,omitempty"`
}

// TeamUser links a user into a team
type TeamUser struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID string `gorm:"type:uuid;not null;index" json:"teamId"`
	UserID string `gorm:"type:uuid;not null;index" json:"userId"`
	Role   string `gorm:"size:50;not null" json:"role"` // owner, member

	CreatedAt time.Time `json:"createdAt"`
}

// TeamWebsite shares a website with every member of a team
type TeamWebsite struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID    string `gorm:"type:uuid;not null;index" json:"teamId"`
	WebsiteID string `gorm:"type:uuid;not null;index" json:"websiteId"`

	CreatedAt time.Time `json:"createdAt"`
}
