package auth

import "funnelapi/models"

// The predicates below fail closed: a nil actor or a nil (not found) entity is always denied.
// Update and delete share the view rule.

func CanViewFunnel(actor *Actor, funnel *models.Funnel) bool {
	if actor == nil || funnel == nil {
		return false
	}
	return canAccess(actor, funnel.UserID, funnel.WebsiteID, ViewAllFunnels)
}

func CanUpdateFunnel(actor *Actor, funnel *models.Funnel) bool {
	return CanViewFunnel(actor, funnel)
}

func CanDeleteFunnel(actor *Actor, funnel *models.Funnel) bool {
	return CanViewFunnel(actor, funnel)
}

// CanViewFunnelStep checks the step's own owner and website, not its parent funnel's.
func CanViewFunnelStep(actor *Actor, step *models.FunnelStep) bool {
	if actor == nil || step == nil {
		return false
	}
	return canAccess(actor, step.UserID, step.WebsiteID, ViewAllFunnelSteps)
}

func CanUpdateFunnelStep(actor *Actor, step *models.FunnelStep) bool {
	return CanViewFunnelStep(actor, step)
}

func CanDeleteFunnelStep(actor *Actor, step *models.FunnelStep) bool {
	return CanViewFunnelStep(actor, step)
}

func canAccess(actor *Actor, ownerID, websiteID string, viewAll Capability) bool {
	if actor.ID != "" && actor.ID == ownerID {
		return true
	}
	if actor.InTeamWithWebsite(websiteID) {
		return true
	}
	return actor.Can(viewAll)
}
