package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"funnelapi/errs"
	"funnelapi/models"
	"funnelapi/utils"

	"gorm.io/gorm"
)

const maxAppendAttempts = 5

// FunnelStepStore is the funnel step data-access surface used by the handlers.
type FunnelStepStore interface {
	CreateFunnelStep(ctx context.Context, step *models.FunnelStep) (*models.FunnelStep, error)
	GetFunnelStepByID(ctx context.Context, id string) (*models.FunnelStep, error)
	UpdateFunnelStep(ctx context.Context, id string, update models.FunnelStepUpdate) (*models.FunnelStep, error)
	DeleteFunnelStep(ctx context.Context, id string) (*models.FunnelStep, error)
	SearchFunnelSteps(ctx context.Context, filter SearchFilter) (*SearchResult[models.FunnelStep], error)
	AppendOrderBump(ctx context.Context, stepID string, bump models.OrderBump) (*models.FunnelStep, error)
}

type GormFunnelStepStore struct {
	db     *gorm.DB
	locker utils.Locker
}

// NewFunnelStepStore builds a store; locker may be nil, in which case order bump appends rely on
// the version check alone.
func NewFunnelStepStore(db *gorm.DB, locker utils.Locker) *GormFunnelStepStore {
	if locker == nil {
		locker = utils.NoopLocker{}
	}
	return &GormFunnelStepStore{db: db, locker: locker}
}

// CreateFunnelStep persists step. Empty settings are stored as an encoded empty object.
func (s *GormFunnelStepStore) CreateFunnelStep(ctx context.Context, step *models.FunnelStep) (*models.FunnelStep, error) {
	if step.Settings == "" {
		step.Settings = "{}"
	}
	step.Version = 1
	if err := s.db.WithContext(ctx).Create(step).Error; err != nil {
		return nil, errs.Storage("create funnel step", err)
	}
	return step, nil
}

// GetFunnelStepByID returns nil, nil when no step has the id.
func (s *GormFunnelStepStore) GetFunnelStepByID(ctx context.Context, id string) (*models.FunnelStep, error) {
	var step models.FunnelStep
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&step).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("get funnel step", err)
	}
	return &step, nil
}

func (s *GormFunnelStepStore) UpdateFunnelStep(ctx context.Context, id string, update models.FunnelStepUpdate) (*models.FunnelStep, error) {
	cols, err := update.Columns()
	if err != nil {
		return nil, err
	}

	if len(cols) > 0 {
		cols["version"] = gorm.Expr("version + 1")
		err := s.db.WithContext(ctx).Model(&models.FunnelStep{}).Where("id = ?", id).Updates(cols).Error
		if err != nil {
			return nil, errs.Storage("update funnel step", err)
		}
	}

	step, err := s.GetFunnelStepByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if step == nil {
		return nil, fmt.Errorf("update funnel step %s: %w", id, errs.ErrNotFound)
	}
	return step, nil
}

func (s *GormFunnelStepStore) DeleteFunnelStep(ctx context.Context, id string) (*models.FunnelStep, error) {
	var step models.FunnelStep
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&step).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("delete funnel step %s: %w", id, errs.ErrNotFound)
			}
			return errs.Storage("get funnel step", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.FunnelStep{}).Error; err != nil {
			return errs.Storage("delete funnel step", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (s *GormFunnelStepStore) SearchFunnelSteps(ctx context.Context, filter SearchFilter) (*SearchResult[models.FunnelStep], error) {
	where, args := FunnelStepSearchPredicate(filter).SQL()
	scope := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.FunnelStep{})
		if filter.needsJoins() {
			q = q.Joins("JOIN users ON users.id = funnel_steps.user_id").
				Joins("JOIN websites ON websites.id = funnel_steps.website_id")
		}
		return q.Where(where, args...)
	}

	var count int64
	if err := scope().Count(&count).Error; err != nil {
		return nil, errs.Storage("count funnel steps", err)
	}

	var steps []models.FunnelStep
	if count > 0 {
		err := scope().
			Select("funnel_steps.*").
			Order("funnel_steps.created_at ASC, funnel_steps.id ASC").
			Offset(filter.Page.Offset()).
			Limit(filter.Page.Limit()).
			Find(&steps).Error
		if err != nil {
			return nil, errs.Storage("search funnel steps", err)
		}
	}

	return newSearchResult(steps, count, filter.Page), nil
}

// AppendOrderBump adds bump to the step's settings with priority = existing count + 1.
// The write only lands if the step's version is unchanged since it was read; on a lost race the
// read-modify-write is retried against the fresh row.
func (s *GormFunnelStepStore) AppendOrderBump(ctx context.Context, stepID string, bump models.OrderBump) (*models.FunnelStep, error) {
	unlock, err := s.locker.Lock(ctx, "funnel-step:"+stepID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	db := s.db.WithContext(ctx)
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		var step models.FunnelStep
		if err := db.Where("id = ?", stepID).First(&step).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("append order bump to %s: %w", stepID, errs.ErrNotFound)
			}
			return nil, errs.Storage("get funnel step", err)
		}

		settings, err := models.DecodeSettings(step.Settings)
		if err != nil {
			return nil, err
		}
		settings.AppendOrderBump(bump)
		raw, err := models.EncodeSettings(settings)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		res := db.Model(&models.FunnelStep{}).
			Where("id = ? AND version = ?", stepID, step.Version).
			Updates(map[string]interface{}{
				"settings":   raw,
				"version":    step.Version + 1,
				"updated_at": now,
			})
		if res.Error != nil {
			return nil, errs.Storage("append order bump", res.Error)
		}
		if res.RowsAffected == 1 {
			step.Settings = raw
			step.Version++
			step.UpdatedAt = now
			return &step, nil
		}
	}

	return nil, fmt.Errorf("append order bump to %s: %w", stepID, errs.ErrConflict)
}
