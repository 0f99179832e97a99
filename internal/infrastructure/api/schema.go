package api

import (
	"time"

	"github.com/talentlink/appcore/internal/core/domain"
	"github.com/talentlink/appcore/internal/core/ports"
)

// --- Request types ---
//
// JSON field names follow the backend contract exactly; validate tags are
// checked client-side so schema-level mistakes never reach the wire.

type signupRequest struct {
	FullName    string `json:"fullName"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password"    validate:"required,min=6"`
	Role        string `json:"role"        validate:"required,oneof=client talent"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=client talent"`
}

type verifyCodeRequest struct {
	Email              string `json:"email"              validate:"required,email"`
	ForgetPasswordCode string `json:"forgetPasswordCode" validate:"required"`
}

type resetPasswordRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type googleLoginRequest struct {
	Token string `json:"token" validate:"required"`
	Role  string `json:"role"  validate:"required,oneof=client talent"`
}

// --- Response types ---

type locationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// authPayload tolerates the backend's aliased field names: the uid arrives as
// uid or localId, the bearer as idToken, token, or accessToken, the display
// name as fullName, displayName, or name, and the photo as photoURL or
// clientImageUrl depending on the endpoint.
type authPayload struct {
	UID     string `json:"uid"`
	LocalID string `json:"localId"`

	IDToken     string `json:"idToken"`
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`

	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`

	PhotoURL       string `json:"photoURL"`
	ClientImageURL string `json:"clientImageUrl"`

	Email       string           `json:"email"`
	Role        string           `json:"role"`
	PhoneNumber string           `json:"phoneNumber"`
	Location    *locationPayload `json:"location"`

	Services     []string `json:"services"`
	Pricing      string   `json:"pricing"`
	Availability string   `json:"availability"`
	IsMobile     bool     `json:"isMobile"`
	Experience   string   `json:"experience"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// normalize collapses the aliased fields into one AuthResult. A payload
// without a uid or bearer token is unusable and reported as a backend fault.
func (p *authPayload) normalize() (*ports.AuthResult, error) {
	uid := firstNonEmpty(p.UID, p.LocalID)
	token := firstNonEmpty(p.IDToken, p.Token, p.AccessToken)
	if uid == "" || token == "" {
		return nil, domain.ErrBackendRejected
	}

	user := domain.User{
		ID:           uid,
		Name:         firstNonEmpty(p.FullName, p.DisplayName, p.Name),
		Email:        p.Email,
		PhotoURL:     firstNonEmpty(p.PhotoURL, p.ClientImageURL),
		Role:         domain.Role(p.Role),
		PhoneNumber:  p.PhoneNumber,
		Services:     p.Services,
		Pricing:      p.Pricing,
		Availability: p.Availability,
		IsMobile:     p.IsMobile,
		Experience:   p.Experience,
	}
	if p.Location != nil {
		user.Location = &domain.Location{
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
			Address:   p.Location.Address,
		}
	}
	return &ports.AuthResult{User: user, Token: token}, nil
}

type verifyCodeResponse struct {
	PasswordToken string `json:"passwordToken"`
	ExpiresIn     int64  `json:"expiresIn"`
}

func (r *verifyCodeResponse) toGrant() *ports.ResetGrant {
	return &ports.ResetGrant{
		PasswordToken: r.PasswordToken,
		ExpiresIn:     time.Duration(r.ExpiresIn) * time.Second,
	}
}

type talentPayload struct {
	ID             string           `json:"id"`
	UID            string           `json:"uid"`
	FullName       string           `json:"fullName"`
	Name           string           `json:"name"`
	PhotoURL       string           `json:"photoURL"`
	ClientImageURL string           `json:"clientImageUrl"`
	Services       []string         `json:"services"`
	Pricing        string           `json:"pricing"`
	Availability   string           `json:"availability"`
	IsMobile       bool             `json:"isMobile"`
	Experience     string           `json:"experience"`
	Location       *locationPayload `json:"location"`
}

func (p *talentPayload) toDomain() domain.Talent {
	t := domain.Talent{
		ID:           firstNonEmpty(p.ID, p.UID),
		Name:         firstNonEmpty(p.FullName, p.Name),
		PhotoURL:     firstNonEmpty(p.PhotoURL, p.ClientImageURL),
		Services:     p.Services,
		Pricing:      p.Pricing,
		Availability: p.Availability,
		IsMobile:     p.IsMobile,
		Experience:   p.Experience,
	}
	if p.Location != nil {
		t.Location = &domain.Location{
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
			Address:   p.Location.Address,
		}
	}
	return t
}

// errorPayload is the backend's error envelope.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
