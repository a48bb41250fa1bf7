package nav

import domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"

// GuardKind selects the access rule applied before a view renders.
type GuardKind int

const (
	// GuardNone renders for everyone.
	GuardNone GuardKind = iota
	// GuardAuthenticated requires a signed-in user.
	GuardAuthenticated
	// GuardAdmin requires a signed-in administrator.
	GuardAdmin
)

func (k GuardKind) String() string {
	switch k {
	case GuardAuthenticated:
		return "authenticated"
	case GuardAdmin:
		return "admin"
	default:
		return "none"
	}
}

const (
	// LoginPath is where unauthenticated visitors are sent.
	LoginPath = "/login"
	// HomePath is the default landing view for signed-in users.
	HomePath = "/home"
)

// Outcome is what a guard decided to do with the request.
type Outcome int

const (
	OutcomeRender Outcome = iota
	OutcomeBlank
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBlank:
		return "blank"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "render"
	}
}

// Decision is the value a guard produces. Location is set only for redirects.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Render, Blank and RedirectTo are the three possible decisions.
func Render() Decision { return Decision{Outcome: OutcomeRender} }
func Blank() Decision  { return Decision{Outcome: OutcomeBlank} }

func RedirectTo(location string) Decision {
	return Decision{Outcome: OutcomeRedirect, Location: location}
}

// Evaluate applies the guard to the session state. Checks run in a fixed
// order: loading first, then authentication, then the admin role.
func Evaluate(kind GuardKind, st domainauth.SessionState) Decision {
	if kind == GuardNone {
		return Render()
	}
	if st.IsLoading {
		return Blank()
	}
	if !st.IsAuthenticated {
		return RedirectTo(LoginPath)
	}
	if kind == GuardAdmin && !st.IsAdmin {
		return RedirectTo(HomePath)
	}
	return Render()
}
