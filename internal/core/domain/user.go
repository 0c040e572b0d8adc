package domain

// Principal is an authenticated actor: a patient or an administrator.
// It is immutable once created.
type Principal struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// Role returns the coarse role label used in logs and metrics.
func (p *Principal) Role() string {
	if p == nil {
		return RoleAnonymous
	}
	if p.IsAdmin {
		return RoleAdmin
	}
	return RolePatient
}

const (
	RoleAdmin     = "admin"
	RolePatient   = "patient"
	RoleAnonymous = "anonymous"
)
