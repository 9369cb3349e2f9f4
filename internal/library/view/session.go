package view

import "github.com/sulaymani-library/go-library-backend/internal/library/domain"

// Tab is a bottom-navigation tab on the mobile surface.
type Tab string

const (
	TabHome       Tab = "home"
	TabCategories Tab = "categories"
	TabSearch     Tab = "search"
	TabLibrary    Tab = "library"
	TabProfile    Tab = "profile"
)

// ProfileView is the nested sub-state inside the profile tab.
type ProfileView string

const (
	ProfileMain        ProfileView = "main"
	ProfilePassword    ProfileView = "password"
	ProfileEditData    ProfileView = "edit-data"
	ProfileAboutSheikh ProfileView = "about-sheikh"
	ProfileAboutMarib  ProfileView = "about-marib"
)

// Session models the mobile navigation contract: the active tab, the type
// filter, the drill-down category, and the two transient overlays (item
// detail and login). The detail overlay supersedes whatever the tab would
// render; the tab state is preserved underneath it, not reset.
type Session struct {
	ActiveTab            Tab
	Filter               string
	SearchQuery          string
	SelectedItem         *domain.ContentItem
	SelectedMainCategory string
	ShowLogin            bool
	ProfileView          ProfileView
}

// NewSession starts on the home tab with no filter.
func NewSession() *Session {
	return &Session{
		ActiveTab:   TabHome,
		Filter:      FilterAll,
		ProfileView: ProfileMain,
	}
}

// SelectTab switches the bottom tab directly. Overlays are left alone:
// an open detail view stays open on top of the new tab.
func (s *Session) SelectTab(tab Tab) {
	s.ActiveTab = tab
	if tab == TabProfile {
		s.ProfileView = ProfileMain
	}
}

// QuickShortcut is the home-screen category icon: it sets the type filter
// and jumps to the categories tab in one step, clearing any drill-down.
func (s *Session) QuickShortcut(filter string) {
	s.Filter = filter
	s.ActiveTab = TabCategories
	s.SelectedMainCategory = ""
}

// OpenItem shows the detail overlay regardless of the current tab.
func (s *Session) OpenItem(item domain.ContentItem) {
	s.SelectedItem = &item
}

// SelectMainCategory pushes the drill-down inside the categories tab.
func (s *Session) SelectMainCategory(name string) {
	s.SelectedMainCategory = name
}

// Back pops the topmost transient state: detail overlay first, then login
// overlay, then the drill-down. Backing out of the drill-down stays in
// the categories tab.
func (s *Session) Back() {
	switch {
	case s.SelectedItem != nil:
		s.SelectedItem = nil
	case s.ShowLogin:
		s.ShowLogin = false
	case s.SelectedMainCategory != "":
		s.SelectedMainCategory = ""
	}
}

// RequireLogin raises the login overlay; called when an unauthenticated
// user hits a gated action like favoriting.
func (s *Session) RequireLogin() {
	s.ShowLogin = true
}

// SignedIn dismisses the login overlay after a successful sign-in.
func (s *Session) SignedIn() {
	s.ShowLogin = false
}

// SelectProfileView enters a nested profile sub-state.
func (s *Session) SelectProfileView(v ProfileView) {
	if s.ActiveTab == TabProfile {
		s.ProfileView = v
	}
}

// AdminTab is a dashboard sidebar tab: the three fixed tabs plus one
// dynamic tab per category name.
type AdminTab string

const (
	AdminTabAll        AdminTab = "all"
	AdminTabCategories AdminTab = "categories"
	AdminTabSettings   AdminTab = "settings"
)
