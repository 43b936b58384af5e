package models

import (
	"strings"
	"time"
)

// StepType is the kind of page a funnel step represents.
type StepType string

const (
	StepTypeSalesPage       StepType = "sales-page"
	StepTypeCheckoutPage    StepType = "checkout-page"
	StepTypeOneClickUpsells StepType = "one-click-upsells"
	StepTypeThankYouPage    StepType = "thank-you-page"
)

var StepTypes = []StepType{
	StepTypeSalesPage,
	StepTypeCheckoutPage,
	StepTypeOneClickUpsells,
	StepTypeThankYouPage,
}

// ParseStepType matches s case-insensitively against the known step types.
func ParseStepType(s string) (StepType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range StepTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// FunnelStep is one ordered stage of a funnel. Settings holds the encoded StepSettings and
// must go through DecodeSettings before it is read.
type FunnelStep struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	WebsiteID   string  `gorm:"type:uuid;not null;index" json:"websiteId"`
	FunnelID    string  `gorm:"type:uuid;not null;index" json:"funnelId"`
	UserID      string  `gorm:"type:uuid;not null;index" json:"userId"`
	Type        string  `gorm:"size:50;not null" json:"type"`
	Name        string  `gorm:"size:200;not null" json:"name"`
	Description *string `gorm:"size:500" json:"description"`
	Step        int     `gorm:"not null" json:"step"`
	Settings    string  `gorm:"type:text;not null" json:"-"`
	Version     int     `gorm:"not null" json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FunnelStepView is a FunnelStep with its settings decoded, as returned over the API.
type FunnelStepView struct {
	ID          string       `json:"id"`
	WebsiteID   string       `json:"websiteId"`
	FunnelID    string       `json:"funnelId"`
	UserID      string       `json:"userId"`
	Type        string       `json:"type"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Step        int          `json:"step"`
	Settings    StepSettings `json:"settings"`
	Version     int          `json:"version"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// View decodes the step's settings.
func (s FunnelStep) View() (*FunnelStepView, error) {
	settings, err := DecodeSettings(s.Settings)
	if err != nil {
		return nil, err
	}
	return &FunnelStepView{
		ID:          s.ID,
		WebsiteID:   s.WebsiteID,
		FunnelID:    s.FunnelID,
		UserID:      s.UserID,
		Type:        s.Type,
		Name:        s.Name,
		Description: s.Description,
		Step:        s.Step,
		Settings:    settings,
		Version:     s.Version,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}, nil
}

// FunnelStepUpdate carries the fields of a partial step update. Nil fields are left untouched.
type FunnelStepUpdate struct {
	WebsiteID   *string
	FunnelID    *string
	Type        *StepType
	Name        *string
	Description *string
	Step        *int
	Settings    *StepSettings
}

// Columns returns the column/value pairs to write, encoding settings when present.
func (u FunnelStepUpdate) Columns() (map[string]interface{}, error) {
	cols := make(map[string]interface{})
	if u.WebsiteID != nil {
		cols["website_id"] = *u.WebsiteID
	}
	if u.FunnelID != nil {
		cols["funnel_id"] = *u.FunnelID
	}
	if u.Type != nil {
		cols["type"] = string(*u.Type)
	}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Step != nil {
		cols["step"] = *u.Step
	}
	if u.Settings != nil {
		raw, err := EncodeSettings(*u.Settings)
		if err != nil {
			return nil, err
		}
		cols["settings"] = raw
	}
	return cols, nil
}
