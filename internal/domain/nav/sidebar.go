package nav

import "strconv"

// SidebarCookie is the persisted desktop open/closed flag. Values are "true" or "false".
const SidebarCookie = "tramatch_sidebar_open"

// SidebarState is the sidebar's UI state. The desktop and mobile flags are
// independent; no transition touches both.
type SidebarState struct {
	DesktopOpen   bool
	MobileOpen    bool
	AdminExpanded bool
}

// ParsePersistedOpen decodes the persisted flag. Missing or unrecognised
// values mean open.
func ParsePersistedOpen(raw string, present bool) bool {
	if !present {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

// FormatPersistedOpen encodes the flag for persistence.
func FormatPersistedOpen(open bool) string {
	return strconv.FormatBool(open)
}

// MountSidebar computes the state for a fresh render of the sidebar. The
// admin group starts expanded only when the location is in the back office;
// nothing from an earlier render carries over.
func MountSidebar(urlPath string, persistedOpen bool) SidebarState {
	return SidebarState{
		DesktopOpen:   persistedOpen,
		MobileOpen:    false,
		AdminExpanded: IsUnderAdmin(urlPath),
	}
}

// ToggleDesktop flips the desktop flag and returns the value to persist.
func (s *SidebarState) ToggleDesktop() bool {
	s.DesktopOpen = !s.DesktopOpen
	return s.DesktopOpen
}

// OpenMobile shows the mobile drawer.
func (s *SidebarState) OpenMobile() { s.MobileOpen = true }

// CloseMobile hides the mobile drawer.
func (s *SidebarState) CloseMobile() { s.MobileOpen = false }

// Navigate is applied on every route change.
func (s *SidebarState) Navigate() { s.MobileOpen = false }

// ToggleAdmin flips the admin group.
func (s *SidebarState) ToggleAdmin() { s.AdminExpanded = !s.AdminExpanded }
