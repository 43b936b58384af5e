package queries

import (
	"testing"

	"funnelapi/models"
	"funnelapi/utils"

	"github.com/stretchr/testify/assert"
)

func TestFunnelSearchPredicateSQL(t *testing.T) {
	t.Run("owner only", func(t *testing.T) {
		sql, args := FunnelSearchPredicate(SearchFilter{UserID: "u1", IncludeTeams: true}).SQL()
		assert.Equal(t, "funnels.user_id = ?", sql)
		assert.Equal(t, []interface{}{"u1"}, args)
	})

	t.Run("teams ignored unless included", func(t *testing.T) {
		sql, _ := FunnelSearchPredicate(SearchFilter{UserID: "u1", TeamWebsiteIDs: []string{"w1"}}).SQL()
		assert.Equal(t, "funnels.user_id = ?", sql)
	})

	t.Run("all filters", func(t *testing.T) {
		sql, args := FunnelSearchPredicate(SearchFilter{
			UserID:         "u1",
			TeamWebsiteIDs: []string{"w1", "w2"},
			IncludeTeams:   true,
			Query:          " ab ",
			WebsiteID:      "w9",
			FunnelID:       "ignored",
		}).SQL()

		assert.Equal(t, "(funnels.user_id = ? OR funnels.website_id IN ?) AND "+
			"(funnels.name ILIKE ? OR funnels.description ILIKE ? OR users.username ILIKE ? OR websites.name ILIKE ? OR websites.domain ILIKE ?) AND "+
			"funnels.website_id = ?", sql)
		assert.Equal(t, []interface{}{
			"u1", []string{"w1", "w2"},
			"%ab%", "%ab%", "%ab%", "%ab%", "%ab%",
			"w9",
		}, args)
	})
}

func TestFunnelStepSearchPredicateFiltersFunnel(t *testing.T) {
	sql, args := FunnelStepSearchPredicate(SearchFilter{UserID: "u1", FunnelID: "f1"}).SQL()
	assert.Equal(t, "(funnel_steps.user_id = ?) AND funnel_steps.funnel_id = ?", sql)
	assert.Equal(t, []interface{}{"u1", "f1"}, args)
}

func TestSearchPredicateVisibility(t *testing.T) {
	alice := &models.User{ID: "alice", Username: "alice"}
	bob := &models.User{ID: "bob", Username: "bob"}
	shop := &models.Website{ID: "w-shop", Name: "Shop", Domain: "shop.example.com"}
	blog := &models.Website{ID: "w-blog", Name: "Blog", Domain: "blog.example.com"}

	rows := []FunnelRow{
		{Funnel: models.Funnel{ID: "f1", UserID: "alice", WebsiteID: shop.ID, Name: "Spring sale"}, Owner: alice, Website: shop},
		{Funnel: models.Funnel{ID: "f2", UserID: "bob", WebsiteID: shop.ID, Name: "Bob on shop"}, Owner: bob, Website: shop},
		{Funnel: models.Funnel{ID: "f3", UserID: "bob", WebsiteID: blog.ID, Name: "Bob on blog", Description: utils.Pointer("newsletter")}, Owner: bob, Website: blog},
	}

	match := func(f SearchFilter) []string {
		var ids []string
		pred := FunnelSearchPredicate(f)
		for _, r := range rows {
			if pred.Match(r) {
				ids = append(ids, r.Funnel.ID)
			}
		}
		return ids
	}

	assert.Equal(t, []string{"f1"}, match(SearchFilter{UserID: "alice", IncludeTeams: true}))
	assert.Equal(t, []string{"f1", "f2"}, match(SearchFilter{UserID: "alice", TeamWebsiteIDs: []string{shop.ID}, IncludeTeams: true}))
	assert.Equal(t, []string{"f1"}, match(SearchFilter{UserID: "alice", TeamWebsiteIDs: []string{shop.ID}}))
	assert.Equal(t, []string{"f3"}, match(SearchFilter{UserID: "bob", IncludeTeams: true, Query: "NEWS"}))
	assert.Equal(t, []string{"f2", "f3"}, match(SearchFilter{UserID: "bob", IncludeTeams: true, Query: "example.com"}))
	assert.Equal(t, []string{"f1", "f2"}, match(SearchFilter{UserID: "bob", TeamWebsiteIDs: []string{shop.ID}, IncludeTeams: true, Query: "shop"}))
	assert.Equal(t, []string{"f3"}, match(SearchFilter{UserID: "bob", IncludeTeams: true, WebsiteID: blog.ID}))
}

func TestNewSearchResult(t *testing.T) {
	res := newSearchResult[models.Funnel](nil, 57, utils.PageParams{Page: 6, PageSize: 10})
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, int64(57), res.Count)
	assert.Equal(t, 6, res.TotalPages)
	assert.Equal(t, 6, res.Page)
	assert.Equal(t, 10, res.PageSize)
}
