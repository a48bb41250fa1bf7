package nav

import "strings"

// Chrome is the page shell a view is rendered inside.
type Chrome string

const (
	// ChromeDashboard is the fixed-height shell with header and sidebar, no footer.
	ChromeDashboard Chrome = "dashboard"
	// ChromeMarketing is the scrolling shell with header and footer.
	ChromeMarketing Chrome = "marketing"
)

// dashboardPrefixes are the application areas that use the dashboard shell.
var dashboardPrefixes = []string{
	"/home",
	"/cargo",
	"/trucks",
	"/my-trucks",
	"/my-cargo",
	"/completed-cargo",
	"/cancelled-cargo",
	"/companies",
	"/partners",
	"/transport-ledger",
	"/payment",
	"/services",
	"/settings",
	"/notifications",
	"/agents",
	"/admin",
}

// DashboardPrefixes returns a copy of the dashboard allow-list.
func DashboardPrefixes() []string {
	return append([]string(nil), dashboardPrefixes...)
}

// IsDashboardPage reports whether urlPath should render in the dashboard shell.
func IsDashboardPage(urlPath string, isAuthenticated bool) bool {
	if !isAuthenticated {
		return false
	}
	for _, prefix := range dashboardPrefixes {
		if urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/") {
			return true
		}
	}
	return false
}

// ChromeFor picks the shell for a path and authentication state.
func ChromeFor(urlPath string, isAuthenticated bool) Chrome {
	if IsDashboardPage(urlPath, isAuthenticated) {
		return ChromeDashboard
	}
	return ChromeMarketing
}
