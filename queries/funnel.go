package queries

import (
	"context"
	"errors"
	"fmt"

	"funnelapi/errs"
	"funnelapi/models"

	"gorm.io/gorm"
)

// FunnelStore is the funnel data-access surface used by the handlers.
type FunnelStore interface {
	CreateFunnel(ctx context.Context, funnel *models.Funnel) (*models.Funnel, error)
	GetFunnelByID(ctx context.Context, id string) (*models.Funnel, error)
	UpdateFunnel(ctx context.Context, id string, update models.FunnelUpdate) (*models.Funnel, error)
	DeleteFunnel(ctx context.Context, id string) (*models.Funnel, error)
	SearchFunnels(ctx context.Context, filter SearchFilter) (*SearchResult[models.Funnel], error)
}

type GormFunnelStore struct {
	db *gorm.DB
}

func NewFunnelStore(db *gorm.DB) *GormFunnelStore {
	return &GormFunnelStore{db: db}
}

func (s *GormFunnelStore) CreateFunnel(ctx context.Context, funnel *models.Funnel) (*models.Funnel, error) {
	if err := s.db.WithContext(ctx).Create(funnel).Error; err != nil {
		return nil, errs.Storage("create funnel", err)
	}
	return funnel, nil
}

// GetFunnelByID returns nil, nil when no funnel has the id.
func (s *GormFunnelStore) GetFunnelByID(ctx context.Context, id string) (*models.Funnel, error) {
	var funnel models.Funnel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&funnel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("get funnel", err)
	}
	return &funnel, nil
}

func (s *GormFunnelStore) UpdateFunnel(ctx context.Context, id string, update models.FunnelUpdate) (*models.Funnel, error) {
	db := s.db.WithContext(ctx)
	if cols := update.Columns(); len(cols) > 0 {
		if err := db.Model(&models.Funnel{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return nil, errs.Storage("update funnel", err)
		}
	}

	funnel, err := s.GetFunnelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if funnel == nil {
		return nil, fmt.Errorf("update funnel %s: %w", id, errs.ErrNotFound)
	}
	return funnel, nil
}

// DeleteFunnel removes the funnel and its steps, returning the removed funnel.
func (s *GormFunnelStore) DeleteFunnel(ctx context.Context, id string) (*models.Funnel, error) {
	var funnel models.Funnel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&funnel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("delete funnel %s: %w", id, errs.ErrNotFound)
			}
			return errs.Storage("get funnel", err)
		}
		if err := tx.Where("funnel_id = ?", id).Delete(&models.FunnelStep{}).Error; err != nil {
			return errs.Storage("delete funnel steps", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Funnel{}).Error; err != nil {
			return errs.Storage("delete funnel", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &funnel, nil
}

// SearchFunnels runs a count and a page fetch over the same predicate, oldest first.
func (s *GormFunnelStore) SearchFunnels(ctx context.Context, filter SearchFilter) (*SearchResult[models.Funnel], error) {
	where, args := FunnelSearchPredicate(filter).SQL()
	scope := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Funnel{})
		if filter.needsJoins() {
			q = q.Joins("JOIN users ON users.id = funnels.user_id").
				Joins("JOIN websites ON websites.id = funnels.website_id")
		}
		return q.Where(where, args...)
	}

	var count int64
	if err := scope().Count(&count).Error; err != nil {
		return nil, errs.Storage("count funnels", err)
	}

	var funnels []models.Funnel
	if count > 0 {
		err := scope().
			Select("funnels.*").
			Preload("Website").
			Order("funnels.created_at ASC, funnels.id ASC").
			Offset(filter.Page.Offset()).
			Limit(filter.Page.Limit()).
			Find(&funnels).Error
		if err != nil {
			return nil, errs.Storage("search funnels", err)
		}
	}

	return newSearchResult(funnels, count, filter.Page), nil
}
