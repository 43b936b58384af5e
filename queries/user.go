package queries

import (
	"context"
	"errors"
	"fmt"

	"funnelapi/auth"
	"funnelapi/errs"
	"funnelapi/models"

	"gorm.io/gorm"
)

// UserStore resolves request actors.
type UserStore struct {
	db         *gorm.DB
	authorizer *auth.Authorizer
}

func NewUserStore(db *gorm.DB, authorizer *auth.Authorizer) *UserStore {
	return &UserStore{db: db, authorizer: authorizer}
}

// LoadActor loads the user, the websites shared with them through teams, and their role
// capabilities. It returns errs.ErrNotFound for unknown users.
func (s *UserStore) LoadActor(ctx context.Context, userID string) (*auth.Actor, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load user %s: %w", userID, errs.ErrNotFound)
		}
		return nil, errs.Storage("get user", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user %s is inactive: %w", userID, errs.ErrNotAuthorized)
	}

	var websiteIDs []string
	err := db.Model(&models.TeamWebsite{}).
		Distinct("team_websites.website_id").
		Joins("JOIN team_users ON team_users.team_id = team_websites.team_id").
		Where("team_users.user_id = ?", userID).
		Pluck("team_websites.website_id", &websiteIDs).Error
	if err != nil {
		return nil, errs.Storage("get team websites", err)
	}

	caps, err := s.authorizer.Capabilities(user.Role)
	if err != nil {
		return nil, fmt.Errorf("resolve capabilities: %w", err)
	}

	return &auth.Actor{
		ID:             user.ID,
		Username:       user.Username,
		Role:           user.Role,
		Capabilities:   caps,
		TeamWebsiteIDs: websiteIDs,
	}, nil
}
