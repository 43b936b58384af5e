package queries

import "funnelapi/models"

// FunnelRow is a funnel with its joined owner and website, evaluable by a Predicate.
type FunnelRow struct {
	Funnel  models.Funnel
	Owner   *models.User
	Website *models.Website
}

func (r FunnelRow) Field(column string) (string, bool) {
	switch column {
	case "funnels.id":
		return r.Funnel.ID, true
	case "funnels.user_id":
		return r.Funnel.UserID, true
	case "funnels.website_id":
		return r.Funnel.WebsiteID, true
	case "funnels.name":
		return r.Funnel.Name, true
	case "funnels.description":
		return deref(r.Funnel.Description)
	}
	return joinedField(column, r.Owner, r.Website)
}

// FunnelStepRow is a funnel step with its joined owner and website, evaluable by a Predicate.
type FunnelStepRow struct {
	Step    models.FunnelStep
	Owner   *models.User
	Website *models.Website
}

func (r FunnelStepRow) Field(column string) (string, bool) {
	switch column {
	case "funnel_steps.id":
		return r.Step.ID, true
	case "funnel_steps.user_id":
		return r.Step.UserID, true
	case "funnel_steps.website_id":
		return r.Step.WebsiteID, true
	case "funnel_steps.funnel_id":
		return r.Step.FunnelID, true
	case "funnel_steps.name":
		return r.Step.Name, true
	case "funnel_steps.description":
		return deref(r.Step.Description)
	}
	return joinedField(column, r.Owner, r.Website)
}

func joinedField(column string, owner *models.User, website *models.Website) (string, bool) {
	switch column {
	case "users.username":
		if owner != nil {
			return owner.Username, true
		}
	case "websites.name":
		if website != nil {
			return website.Name, true
		}
	case "websites.domain":
		if website != nil && website.Domain != "" {
			return website.Domain, true
		}
	}
	return "", false
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}
