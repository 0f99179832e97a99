package ports

import (
	"context"

	"github.com/talentlink/appcore/internal/core/domain"
)

// CredentialStore persists the bearer session and the last known user
// snapshot on the device. Store must complete before the caller uses the
// token for any dependent request; a token is never written without its id.
type CredentialStore interface {
	// Store writes the (token, id) pair. Both values are written together or
	// not at all.
	Store(ctx context.Context, token, userID string) error
	// Read returns the persisted credentials, or domain.ErrNoSession when the
	// device has no session.
	Read(ctx context.Context) (domain.Credentials, error)
	// Clear removes credentials and snapshot together; a reader never
	// observes one without the other.
	Clear(ctx context.Context) error

	// SaveUser persists the session snapshot used for startup hydration.
	SaveUser(ctx context.Context, user *domain.User) error
	// LoadUser returns the persisted snapshot, or nil when none exists.
	LoadUser(ctx context.Context) (*domain.User, error)
}
