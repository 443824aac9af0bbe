package client

// Navigator is the bridge to the hosting UI's router. The request layer's
// only user-visible side effects go through it: forcing the login page on
// unrecoverable auth failure and the maintenance page on a maintenance
// signal.
type Navigator interface {
	CurrentRoute() string
	Push(route string)
	Replace(route string)
}

// Routes names the UI routes the interceptors need. Injected as
// configuration so the interceptors stay testable independent of any route
// table.
type Routes struct {
	Login       string
	Maintenance string
	Register    string

	// AuthRoutes are pages on which a 401 must never trigger a refresh
	// cycle (the user is mid-login already).
	AuthRoutes []string

	// MaintenanceExempt are pages from which the maintenance redirect is
	// suppressed.
	MaintenanceExempt []string
}

// DefaultRoutes mirrors the platform UI's routing scheme.
func DefaultRoutes() Routes {
	return Routes{
		Login:             "/login",
		Maintenance:       "/maintenance",
		Register:          "/register",
		AuthRoutes:        []string{"/login", "/register", "/forgot-password"},
		MaintenanceExempt: []string{"/login", "/maintenance", "/register"},
	}
}

func routeIn(route string, routes []string) bool {
	for _, r := range routes {
		if route == r {
			return true
		}
	}
	return false
}

// NopNavigator is the default Navigator for headless use: no current route,
// navigation is dropped.
type NopNavigator struct{}

var _ Navigator = NopNavigator{}

func (NopNavigator) CurrentRoute() string { return "" }
func (NopNavigator) Push(string)          {}
func (NopNavigator) Replace(string)       {}
