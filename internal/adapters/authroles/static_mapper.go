package authroles

import (
	"slices"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/ports"
)

var _ ports.RoleMapper = StaticRoleMapper{}

// StaticRoleMapper grants admin to members of any AdminGroups entry.
// Every other SSO identity is a regular user.
type StaticRoleMapper struct {
	AdminGroups []string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if g != "" && slices.Contains(m.AdminGroups, g) {
			return domainauth.RoleAdmin
		}
	}
	return domainauth.RoleUser
}
