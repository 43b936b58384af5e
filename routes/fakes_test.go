package routes

import (
	"context"
	"fmt"
	"sync"

	"funnelapi/auth"
	"funnelapi/errs"
	"funnelapi/models"
	"funnelapi/queries"
)

// memoryDB backs the fake stores with the same predicates the gorm stores compile to SQL.
type memoryDB struct {
	mu       sync.Mutex
	users    map[string]*models.User
	websites map[string]*models.Website
	teams    map[string][]string // user id -> shared website ids
	funnels  []models.Funnel
	steps    []models.FunnelStep

	appendErr error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:    make(map[string]*models.User),
		websites: make(map[string]*models.Website),
		teams:    make(map[string][]string),
	}
}

func (m *memoryDB) LoadActor(_ context.Context, userID string) (*auth.Actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("load %s: %w", userID, errs.ErrNotFound)
	}
	caps := map[auth.Capability]bool{}
	if u.Role == "admin" {
		caps[auth.ViewAllFunnels] = true
		caps[auth.ViewAllFunnelSteps] = true
	}
	return &auth.Actor{ID: u.ID, Username: u.Username, Role: u.Role, Capabilities: caps, TeamWebsiteIDs: m.teams[userID]}, nil
}

func (m *memoryDB) CreateFunnel(_ context.Context, f *models.Funnel) (*models.Funnel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funnels = append(m.funnels, *f)
	return f, nil
}

func (m *memoryDB) GetFunnelByID(_ context.Context, id string) (*models.Funnel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.funnels {
		if m.funnels[i].ID == id {
			f := m.funnels[i]
			return &f, nil
		}
	}
	return nil, nil
}

func (m *memoryDB) UpdateFunnel(_ context.Context, id string, u models.FunnelUpdate) (*models.Funnel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.funnels {
		f := &m.funnels[i]
		if f.ID != id {
			continue
		}
		if u.WebsiteID != nil {
			f.WebsiteID = *u.WebsiteID
		}
		if u.Name != nil {
			f.Name = *u.Name
		}
		if u.Description != nil {
			f.Description = u.Description
		}
		out := *f
		return &out, nil
	}
	return nil, errs.ErrNotFound
}

func (m *memoryDB) DeleteFunnel(_ context.Context, id string) (*models.Funnel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.funnels {
		if f.ID == id {
			m.funnels = append(m.funnels[:i], m.funnels[i+1:]...)
			kept := m.steps[:0]
			for _, s := range m.steps {
				if s.FunnelID != id {
					kept = append(kept, s)
				}
			}
			m.steps = kept
			return &f, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memoryDB) SearchFunnels(_ context.Context, filter queries.SearchFilter) (*queries.SearchResult[models.Funnel], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pred := queries.FunnelSearchPredicate(filter)
	var matched []models.Funnel
	for _, f := range m.funnels {
		if pred.Match(queries.FunnelRow{Funnel: f, Owner: m.users[f.UserID], Website: m.websites[f.WebsiteID]}) {
			matched = append(matched, f)
		}
	}
	return page(matched, filter), nil
}

func (m *memoryDB) CreateFunnelStep(_ context.Context, s *models.FunnelStep) (*models.FunnelStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Version = 1
	m.steps = append(m.steps, *s)
	return s, nil
}

func (m *memoryDB) GetFunnelStepByID(_ context.Context, id string) (*models.FunnelStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.step(id); s != nil {
		out := *s
		return &out, nil
	}
	return nil, nil
}

func (m *memoryDB) UpdateFunnelStep(_ context.Context, id string, u models.FunnelStepUpdate) (*models.FunnelStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.step(id)
	if s == nil {
		return nil, errs.ErrNotFound
	}
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Type != nil {
		s.Type = string(*u.Type)
	}
	if u.Step != nil {
		s.Step = *u.Step
	}
	if u.Settings != nil {
		raw, err := models.EncodeSettings(*u.Settings)
		if err != nil {
			return nil, err
		}
		s.Settings = raw
	}
	s.Version++
	out := *s
	return &out, nil
}

func (m *memoryDB) DeleteFunnelStep(_ context.Context, id string) (*models.FunnelStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.steps {
		if s.ID == id {
			m.steps = append(m.steps[:i], m.steps[i+1:]...)
			return &s, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memoryDB) SearchFunnelSteps(_ context.Context, filter queries.SearchFilter) (*queries.SearchResult[models.FunnelStep], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pred := queries.FunnelStepSearchPredicate(filter)
	var matched []models.FunnelStep
	for _, s := range m.steps {
		if pred.Match(queries.FunnelStepRow{Step: s, Owner: m.users[s.UserID], Website: m.websites[s.WebsiteID]}) {
			matched = append(matched, s)
		}
	}
	return page(matched, filter), nil
}

func (m *memoryDB) AppendOrderBump(_ context.Context, stepID string, bump models.OrderBump) (*models.FunnelStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return nil, m.appendErr
	}
	s := m.step(stepID)
	if s == nil {
		return nil, errs.ErrNotFound
	}
	settings, err := models.DecodeSettings(s.Settings)
	if err != nil {
		return nil, err
	}
	settings.AppendOrderBump(bump)
	raw, err := models.EncodeSettings(settings)
	if err != nil {
		return nil, err
	}
	s.Settings = raw
	s.Version++
	out := *s
	return &out, nil
}

func (m *memoryDB) step(id string) *models.FunnelStep {
	for i := range m.steps {
		if m.steps[i].ID == id {
			return &m.steps[i]
		}
	}
	return nil
}

func page[T any](matched []T, filter queries.SearchFilter) *queries.SearchResult[T] {
	data := []T{}
	start := filter.Page.Offset()
	if start < len(matched) {
		end := start + filter.Page.Limit()
		if end > len(matched) {
			end = len(matched)
		}
		data = matched[start:end]
	}
	count := int64(len(matched))
	totalPages := 0
	if filter.Page.PageSize > 0 {
		totalPages = int((count + int64(filter.Page.PageSize) - 1) / int64(filter.Page.PageSize))
	}
	return &queries.SearchResult[T]{
		Data:       data,
		Count:      count,
		Page:       filter.Page.Page,
		PageSize:   filter.Page.PageSize,
		TotalPages: totalPages,
	}
}
