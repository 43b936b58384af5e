package queries

import (
	"strings"

	"funnelapi/utils"
)

const (
	funnelsTable     = "funnels"
	funnelStepsTable = "funnel_steps"
)

// SearchFilter describes one search request on behalf of a user.
type SearchFilter struct {
	UserID         string
	TeamWebsiteIDs []string
	IncludeTeams   bool
	Query          string
	WebsiteID      string
	FunnelID       string // steps only
	Page           utils.PageParams
}

// SearchResult is one page of matches plus page metadata.
type SearchResult[T any] struct {
	Data       []T   `json:"data"`
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

func newSearchResult[T any](data []T, count int64, page utils.PageParams) *SearchResult[T] {
	if data == nil {
		data = []T{}
	}
	return &SearchResult[T]{
		Data:       data,
		Count:      count,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: utils.TotalPages(count, page.PageSize),
	}
}

// FunnelSearchPredicate builds the WHERE clause of a funnel search.
func FunnelSearchPredicate(f SearchFilter) Predicate {
	return searchPredicate(funnelsTable, f)
}

// FunnelStepSearchPredicate builds the WHERE clause of a funnel step search.
func FunnelStepSearchPredicate(f SearchFilter) Predicate {
	return searchPredicate(funnelStepsTable, f)
}

// searchPredicate combines visibility, free-text and equality filters:
//
//	(owner OR team website) AND (text across name, description, username, website name, domain)
//	AND website_id = ? AND funnel_id = ?
func searchPredicate(table string, f SearchFilter) Predicate {
	visibility := []Predicate{Eq(table+".user_id", f.UserID)}
	if f.IncludeTeams && len(f.TeamWebsiteIDs) > 0 {
		visibility = append(visibility, In(table+".website_id", f.TeamWebsiteIDs))
	}

	parts := []Predicate{Or(visibility...)}

	if q := strings.TrimSpace(f.Query); q != "" {
		parts = append(parts, Or(
			ContainsFold(table+".name", q),
			ContainsFold(table+".description", q),
			ContainsFold("users.username", q),
			ContainsFold("websites.name", q),
			ContainsFold("websites.domain", q),
		))
	}

	if f.WebsiteID != "" {
		parts = append(parts, Eq(table+".website_id", f.WebsiteID))
	}
	if f.FunnelID != "" && table == funnelStepsTable {
		parts = append(parts, Eq(table+".funnel_id", f.FunnelID))
	}

	return And(parts...)
}

// needsJoins reports whether the text predicate references users and websites.
func (f SearchFilter) needsJoins() bool {
	return strings.TrimSpace(f.Query) != ""
}
