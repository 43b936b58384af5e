package auth

import (
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

const capabilityModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// DefaultPolicy grants admins read access to every funnel and funnel step.
const DefaultPolicy = `p, role:admin, funnel, view-all
p, role:admin, funnel-step, view-all`

var capabilityRules = []struct {
	capability Capability
	object     string
	action     string
}{
	{ViewAllFunnels, "funnel", "view-all"},
	{ViewAllFunnelSteps, "funnel-step", "view-all"},
}

// Authorizer resolves role capabilities through a casbin enforcer.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer loads policy rules from policyPath, or DefaultPolicy when the path is empty.
func NewAuthorizer(policyPath string) (*Authorizer, error) {
	m, err := model.NewModelFromString(capabilityModel)
	if err != nil {
		return nil, err
	}

	var adapter persist.Adapter
	if policyPath != "" {
		adapter = fileadapter.NewAdapter(policyPath)
	} else {
		adapter = stringadapter.NewAdapter(DefaultPolicy)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: enforcer}, nil
}

func SubjectFromRole(role string) string {
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		role = "user"
	}
	return "role:" + role
}

// Capabilities returns every capability the role holds.
func (a *Authorizer) Capabilities(role string) (map[Capability]bool, error) {
	caps := make(map[Capability]bool)
	subject := SubjectFromRole(role)
	for _, rule := range capabilityRules {
		ok, err := a.enforcer.Enforce(subject, rule.object, rule.action)
		if err != nil {
			return nil, err
		}
		if ok {
			caps[rule.capability] = true
		}
	}
	return caps, nil
}
