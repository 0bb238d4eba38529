package session

// UserProfile is the cached projection of the authenticated user. It is
// refreshed whenever a profile fetch succeeds and treated as best-effort:
// displaying a slightly stale profile is fine, losing a session over a
// failed fetch is not.
type UserProfile struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	FullName  string `json:"full_name,omitempty"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName returns the best human-readable name available.
func (p UserProfile) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.FullName != "":
		return p.FullName
	default:
		return p.Email
	}
}
