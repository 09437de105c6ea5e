package utils

// Auth provides the pin-limit exemption check.
type Auth struct {
	exemptUsers []string
}

// NewAuth creates an Auth instance over the configured exemption list.
func NewAuth(exemptUsers []string) *Auth {
	return &Auth{exemptUsers: exemptUsers}
}

// IsExempt reports whether a user is excluded from the pin limit.
func (a *Auth) IsExempt(userID string) bool {
	for _, exemptID := range a.exemptUsers {
		if userID == exemptID {
			return true
		}
	}
	return false
}
