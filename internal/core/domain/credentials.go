package domain

// Credentials is the persisted bearer session: the opaque token issued by the
// backend and the user id it authorizes. At most one valid pair exists per
// device; a new login overwrites rather than appends.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// IsZero reports whether no session credentials are present.
func (c Credentials) IsZero() bool {
	return c.Token == "" && c.UserID == ""
}
