package guard

// RouteKind classifies how a route reacts to authentication state.
type RouteKind int

const (
	// RouteProtected requires an authenticated session.
	RouteProtected RouteKind = iota
	// RoutePublicOnly is reachable only without a session (login/register).
	RoutePublicOnly
)

// Decision is the render outcome for a route.
type Decision int

const (
	ShowLoadingPlaceholder Decision = iota
	ShowRequestedView
	Redirect
)

// Outcome pairs a decision with the redirect target when Decision is
// Redirect.
type Outcome struct {
	Decision Decision
	Target   string
}

const (
	LoginPath     = "/login"
	RegisterPath  = "/register"
	DashboardPath = "/dashboard"
	RoadmapPath   = "/roadmap"
	ProfilePath   = "/profile"
)

// Routes is the static route table of the application.
var Routes = map[string]RouteKind{
	LoginPath:     RoutePublicOnly,
	RegisterPath:  RoutePublicOnly,
	DashboardPath: RouteProtected,
	RoadmapPath:   RouteProtected,
	ProfilePath:   RouteProtected,
}

// Evaluate maps session state to exactly one render outcome. While the
// session is still resolving, the placeholder dominates every other input.
func Evaluate(kind RouteKind, isAuthenticated, loading bool) Outcome {
	if loading {
		return Outcome{Decision: ShowLoadingPlaceholder}
	}
	switch kind {
	case RoutePublicOnly:
		if isAuthenticated {
			return Outcome{Decision: Redirect, Target: DashboardPath}
		}
		return Outcome{Decision: ShowRequestedView}
	default:
		if isAuthenticated {
			return Outcome{Decision: ShowRequestedView}
		}
		return Outcome{Decision: Redirect, Target: LoginPath}
	}
}

// ForPath evaluates a concrete path against the route table. The root path
// always redirects to the dashboard regardless of state; unknown paths are
// treated as protected.
func ForPath(path string, isAuthenticated, loading bool) Outcome {
	if path == "" || path == "/" {
		return Outcome{Decision: Redirect, Target: DashboardPath}
	}
	kind, ok := Routes[path]
	if !ok {
		kind = RouteProtected
	}
	return Evaluate(kind, isAuthenticated, loading)
}
