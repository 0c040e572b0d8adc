package policy

import "github.com/woundashare/report-service/internal/core/domain"

// Decision is the outcome of gating a navigation.
type Decision struct {
	Allow    bool
	Redirect string
}

// Resolve gates navigation to route for p (nil means not logged in):
// unauthenticated users on protected routes go to the login page, non-admins
// on admin routes go to the default landing page.
func Resolve(p *domain.Principal, route string) Decision {
	switch Classify(route) {
	case AccessAdmin:
		if p == nil {
			return Decision{Redirect: LoginRoute}
		}
		if !p.IsAdmin {
			return Decision{Redirect: LandingRoute}
		}
	case AccessAuthenticated:
		if p == nil {
			return Decision{Redirect: LoginRoute}
		}
	}
	return Decision{Allow: true}
}
