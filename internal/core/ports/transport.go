package ports

import (
	"context"
	"time"

	"github.com/talentlink/appcore/internal/core/domain"
)

// SignupInput carries everything POST /signup needs.
type SignupInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        domain.Role
}

// AuthResult is the normalized outcome of any credential-issuing call
// (signup, login, federated login).
type AuthResult struct {
	User  domain.User
	Token string
}

// ResetGrant is the short-lived authorization returned by code verification,
// required to perform the actual password reset.
type ResetGrant struct {
	PasswordToken string
	ExpiresIn     time.Duration
}

// ProfileUpdate is a sparse set of profile fields to merge server-side.
// Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	Name         *string          `json:"name,omitempty"`
	Email        *string          `json:"email,omitempty"`
	PhotoURL     *string          `json:"photo_url,omitempty"`
	PhoneNumber  *string          `json:"phone_number,omitempty"`
	Location     *domain.Location `json:"location,omitempty"`
	Services     []string         `json:"services,omitempty"`
	Pricing      *string          `json:"pricing,omitempty"`
	Availability *string          `json:"availability,omitempty"`
	IsMobile     *bool            `json:"is_mobile,omitempty"`
	Experience   *string          `json:"experience,omitempty"`
}

// CredentialTransport issues requests to the marketplace backend. It is the
// only component that talks HTTP; everything above it works with domain types.
type CredentialTransport interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string, role domain.Role) (*AuthResult, error)
	GoogleLogin(ctx context.Context, googleIDToken string, role domain.Role) (*AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) (*ResetGrant, error)
	ResetPassword(ctx context.Context, passwordToken, email, newPassword string) error
	UpdateProfile(ctx context.Context, token string, patch ProfileUpdate) error
	DeleteAccount(ctx context.Context, token, userID string) error
	SearchTalents(ctx context.Context, service string) ([]domain.Talent, error)
}
