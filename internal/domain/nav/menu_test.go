package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
)

func TestBuildMenu_User(t *testing.T) {
	m := BuildMenu(domainauth.RoleUser)
	assert.Nil(t, m.Agent)
	assert.Empty(t, m.Admin)
	assert.False(t, m.HasAdminSection())
	require.NotEmpty(t, m.Primary)
	assert.Equal(t, "/home", m.Primary[0].Path)
}

func TestBuildMenu_Admin(t *testing.T) {
	m := BuildMenu(domainauth.RoleAdmin)
	require.NotNil(t, m.Agent)
	assert.Equal(t, "/agents", m.Agent.Path)
	assert.True(t, m.HasAdminSection())
	assert.Len(t, m.Admin, 13)
	assert.Equal(t, "/admin", m.Admin[0].Path)
	for _, e := range m.Admin {
		assert.True(t, IsUnderAdmin(e.Path), e.Path)
	}
}

func TestBuildMenu_PrimaryIdenticalForBothRoles(t *testing.T) {
	assert.Equal(t, BuildMenu(domainauth.RoleUser).Primary, BuildMenu(domainauth.RoleAdmin).Primary)
}

func TestBuildMenu_ReturnsCopies(t *testing.T) {
	m := BuildMenu(domainauth.RoleAdmin)
	m.Primary[0].Label = "changed"
	m.Admin[0].Label = "changed"
	again := BuildMenu(domainauth.RoleAdmin)
	assert.NotEqual(t, "changed", again.Primary[0].Label)
	assert.NotEqual(t, "changed", again.Admin[0].Label)
}

func TestBuildMenu_EntriesResolveToGuardedRoutes(t *testing.T) {
	table, err := NewAppTable()
	require.NoError(t, err)

	m := BuildMenu(domainauth.RoleAdmin)
	entries := append(append([]MenuEntry{}, m.Primary...), *m.Agent)
	entries = append(entries, m.Admin...)
	for _, e := range entries {
		match, ok := table.Match(e.Path)
		require.True(t, ok, e.Path)
		assert.NotEqual(t, ViewNotFound, match.Route.View, e.Path)
		assert.NotEqual(t, GuardNone, match.Route.Guard, e.Path)
		assert.True(t, IsDashboardPage(e.Path, true), e.Path)
	}
	for _, e := range m.Admin {
		match, _ := table.Match(e.Path)
		assert.Equal(t, GuardAdmin, match.Route.Guard, e.Path)
	}
}

func TestIsActive(t *testing.T) {
	primary := BuildMenu(domainauth.RoleUser).Primary
	cargo := MenuEntry{Path: "/cargo"}
	assert.True(t, IsActive(cargo, "/cargo", primary))
	assert.True(t, IsActive(cargo, "/cargo/abc", primary))
	assert.False(t, IsActive(cargo, "/cargo/new", primary))
	assert.False(t, IsActive(MenuEntry{Path: "/admin"}, "/admin/users", nil))
	assert.True(t, IsActive(MenuEntry{Path: "/admin"}, "/admin", nil))
}
