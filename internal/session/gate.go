package session

// Access classifies a route for gating.
type Access int

const (
	// Public routes render for everyone.
	Public Access = iota
	// GuestOnly routes (the login page) send authenticated users home.
	GuestOnly
	// Protected routes require a credential.
	Protected
	// AdminOnly routes additionally require the admin role.
	AdminOnly
)

// Decision is the outcome of gating a route.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Gate decides whether a route of the given class may render for st.
func Gate(st State, access Access) Decision {
	switch access {
	case GuestOnly:
		if st.Authenticated {
			return RedirectHome
		}
	case Protected:
		if !st.Authenticated {
			return RedirectLogin
		}
	case AdminOnly:
		if !st.Authenticated {
			return RedirectLogin
		}
		if !st.IsAdmin() {
			return RedirectHome
		}
	}
	return Allow
}
