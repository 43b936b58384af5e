package auth

// Capability is an administrative permission resolved from the actor's role.
type Capability string

const (
	ViewAllFunnels     Capability = "funnel:view-all"
	ViewAllFunnelSteps Capability = "funnel-step:view-all"
)

// Actor is the authenticated user making a request.
type Actor struct {
	ID       string
	Username string
	Role     string

	Capabilities   map[Capability]bool
	TeamWebsiteIDs []string
}

func (a *Actor) Can(c Capability) bool {
	return a != nil && a.Capabilities[c]
}

// InTeamWithWebsite reports whether one of the actor's teams has websiteID shared with it.
func (a *Actor) InTeamWithWebsite(websiteID string) bool {
	if a == nil || websiteID == "" {
		return false
	}
	for _, id := range a.TeamWebsiteIDs {
		if id == websiteID {
			return true
		}
	}
	return false
}
