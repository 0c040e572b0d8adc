package policy

import "strings"

// Access is the classification of a front-end route.
type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessAdmin
)

func (a Access) String() string {
	switch a {
	case AccessAuthenticated:
		return "authenticated"
	case AccessAdmin:
		return "admin"
	default:
		return "public"
	}
}

const (
	LoginRoute     = "/login"
	LandingRoute   = "/dashboard"
	MyReportsRoute = "/my-reports"
	AdminRoute     = "/admin"
)

type routeRule struct {
	pattern string
	access  Access
}

// routeTable mirrors the application's navigation. Segments starting with
// ":" match any single path segment.
var routeTable = []routeRule{
	{"/login", AccessPublic},
	{"/register", AccessPublic},
	{"/", AccessAuthenticated},
	{"/dashboard", AccessAuthenticated},
	{"/upload-report", AccessAuthenticated},
	{"/my-reports", AccessAuthenticated},
	{"/reports/:id", AccessAuthenticated},
	{"/admin", AccessAdmin},
	{"/admin/reports/:id", AccessAdmin},
	{"/admin/users", AccessAdmin},
}

// Classify returns the access class of route. Unknown routes are public
// (they render the not-found page).
func Classify(route string) Access {
	route = normalize(route)
	for _, rule := range routeTable {
		if match(rule.pattern, route) {
			return rule.access
		}
	}
	return AccessPublic
}

// RequiresAuth reports whether route needs any authenticated principal.
func RequiresAuth(route string) bool {
	return Classify(route) >= AccessAuthenticated
}

// RequiresAdmin reports whether route needs an admin principal.
func RequiresAdmin(route string) bool {
	return Classify(route) == AccessAdmin
}

func normalize(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	if route == "" {
		return "/"
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}

func match(pattern, route string) bool {
	ps := strings.Split(pattern, "/")
	rs := strings.Split(route, "/")
	if len(ps) != len(rs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if rs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != rs[i] {
			return false
		}
	}
	return true
}
