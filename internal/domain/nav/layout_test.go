package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDashboardPage(t *testing.T) {
	tests := []struct {
		path   string
		authed bool
		want   bool
	}{
		{"/home", true, true},
		{"/home", false, false},
		{"/cargo/abc", true, true},
		{"/cargo/edit/1", true, true},
		{"/cargox", true, false},
		{"/admin", true, true},
		{"/admin/users", true, true},
		{"/administrator", true, false},
		{"/", true, false},
		{"/guide", true, false},
		{"/column/kyukakyusha", true, false},
		{"/login", true, false},
		{"/notifications", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := IsDashboardPage(tt.path, tt.authed)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, IsDashboardPage(tt.path, tt.authed))
		})
	}
}

func TestIsDashboardPage_EveryPrefix(t *testing.T) {
	for _, prefix := range DashboardPrefixes() {
		assert.True(t, IsDashboardPage(prefix, true), prefix)
		assert.True(t, IsDashboardPage(prefix+"/x", true), prefix)
		assert.False(t, IsDashboardPage(prefix+"x", true), prefix)
		assert.False(t, IsDashboardPage(prefix, false), prefix)
	}
}

func TestChromeFor(t *testing.T) {
	assert.Equal(t, ChromeDashboard, ChromeFor("/settings", true))
	assert.Equal(t, ChromeMarketing, ChromeFor("/settings", false))
	assert.Equal(t, ChromeMarketing, ChromeFor("/faq", true))
}
