package models

import "time"

// Funnel is a named conversion funnel owned by one user on one website.
type Funnel struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	WebsiteID   string  `gorm:"type:uuid;not null;index" json:"websiteId"`
	UserID      string  `gorm:"type:uuid;not null;index" json:"userId"`
	Name        string  `gorm:"size:200;not null" json:"name"`
	Description *string `gorm:"size:500" json:"description"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Website *Website     `gorm:"foreignKey:WebsiteID" json:"website,omitempty"`
	Steps   []FunnelStep `gorm:"foreignKey:FunnelID" json:"-"`
}

// FunnelUpdate carries the fields of a partial funnel update. Nil fields are left untouched.
type FunnelUpdate struct {
	WebsiteID   *string
	Name        *string
	Description *string
}

// Columns returns the column/value pairs to write.
func (u FunnelUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.WebsiteID != nil {
		cols["website_id"] = *u.WebsiteID
	}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	return cols
}
