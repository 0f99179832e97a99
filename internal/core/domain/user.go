package domain

// Role is the fixed account category chosen at signup. It never changes for
// the lifetime of an account and decides which profile fields apply.
type Role string

const (
	RoleClient Role = "client"
	RoleTalent Role = "talent"
)

// Valid reports whether r is one of the known account roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleTalent
}

// Location is a resolved geographic position with its display address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// User is the authenticated identity record held by the session store.
// ID is the backend-issued unique identifier and is the single source of
// truth for who is signed in; it is immutable once a session is established.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Role        Role      `json:"role"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Location    *Location `json:"location,omitempty"`

	// Talent-only profile fields. All optional; empty for client accounts.
	Services     []string `json:"services,omitempty"`
	Pricing      string   `json:"pricing,omitempty"`
	Availability string   `json:"availability,omitempty"`
	IsMobile     bool     `json:"is_mobile,omitempty"`
	Experience   string   `json:"experience,omitempty"`
}

// Clone returns a deep copy so callers can never mutate store-held state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	copy := *u
	if u.Location != nil {
		loc := *u.Location
		copy.Location = &loc
	}
	if u.Services != nil {
		copy.Services = append([]string(nil), u.Services...)
	}
	return &copy
}

// Talent is a search result record returned by the talent directory.
type Talent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Services     []string  `json:"services,omitempty"`
	Pricing      string    `json:"pricing,omitempty"`
	Availability string    `json:"availability,omitempty"`
	IsMobile     bool      `json:"is_mobile,omitempty"`
	Experience   string    `json:"experience,omitempty"`
	Location     *Location `json:"location,omitempty"`
}
