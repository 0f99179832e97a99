// Package session holds the single authoritative in-memory representation of
// "who is signed in". Every surface reads it; only the operations defined
// here mutate it. State is rehydrated once from the credential store at
// startup and persisted back after every mutation.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/talentlink/appcore/internal/core/domain"
	"github.com/talentlink/appcore/internal/core/ports"
)

// ProfileBackend is the slice of the transport the store needs for profile
// edits and account deletion.
type ProfileBackend interface {
	UpdateProfile(ctx context.Context, token string, patch ports.ProfileUpdate) error
	DeleteAccount(ctx context.Context, token, userID string) error
}

// Snapshot is the observable view handed to subscribers on every change.
type Snapshot struct {
	User          *domain.User
	Authenticated bool
	Hydrated      bool
}

// Subscriber receives a snapshot after each state change. Callbacks run
// synchronously on the mutating goroutine, outside the store lock.
type Subscriber func(Snapshot)

// Store is the session state store. It is safe for concurrent use; updates
// are last-write-wins with no field-level merging.
type Store struct {
	mu       sync.Mutex
	user     *domain.User
	auth     bool
	hydrated bool
	subs     map[int]Subscriber
	nextSub  int

	creds   ports.CredentialStore
	backend ProfileBackend
	log     zerolog.Logger
}

func NewStore(creds ports.CredentialStore, backend ProfileBackend, log zerolog.Logger) *Store {
	return &Store{
		subs:    make(map[int]Subscriber),
		creds:   creds,
		backend: backend,
		log:     log,
	}
}

// Hydrate performs the one-time startup read of durable storage. The
// hydrated flag is set regardless of outcome and never reverts; absence of a
// stored session simply means "not authenticated". Callers must not act on
// role-gated state before Hydrate returns.
func (s *Store) Hydrate(ctx context.Context) error {
	creds, credsErr := s.creds.Read(ctx)
	user, userErr := s.creds.LoadUser(ctx)

	s.mu.Lock()
	s.hydrated = true
	if credsErr == nil && userErr == nil && user != nil && user.Role.Valid() && user.ID == creds.UserID {
		s.user = user
		s.auth = true
	}
	snap, fns := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap, fns)

	if credsErr != nil && !errors.Is(credsErr, domain.ErrNoSession) {
		return credsErr
	}
	if userErr != nil {
		return userErr
	}
	return nil
}

// UpdateUser replaces the current user wholesale and marks the session
// authenticated. The input must carry at least an id and a valid role;
// partial updates are the caller's job to merge beforehand.
func (s *Store) UpdateUser(ctx context.Context, u domain.User) error {
	if u.ID == "" {
		return domain.ErrNotAuthenticated
	}
	if !u.Role.Valid() {
		return domain.ErrMissingRole
	}

	s.mu.Lock()
	s.user = u.Clone()
	s.auth = true
	snap, fns := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap, fns)

	if err := s.creds.SaveUser(ctx, &u); err != nil {
		// The in-memory session is live either way; the snapshot just will
		// not survive a restart.
		s.log.Error().Err(err).Str("user_id", u.ID).Msg("failed to persist session snapshot")
	}
	return nil
}

// UpdateUserInfo sends a sparse profile update to the backend and merges it
// locally only once the backend accepts it, so a rejected edit leaves local
// state exactly as it was. Expected failures (rejection, auth errors) return
// ok=false with a nil error; anything else propagates.
func (s *Store) UpdateUserInfo(ctx context.Context, patch ports.ProfileUpdate) (bool, error) {
	s.mu.Lock()
	auth := s.auth
	s.mu.Unlock()
	if !auth {
		return false, domain.ErrNotAuthenticated
	}

	creds, err := s.creds.Read(ctx)
	if err != nil {
		return false, err
	}

	if err := s.backend.UpdateProfile(ctx, creds.Token, patch); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		s.log.Warn().Err(err).Msg("profile update rejected by backend")
		return false, nil
	}

	s.mu.Lock()
	if s.user != nil {
		applyPatch(s.user, patch)
	}
	snap, fns := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap, fns)

	if u := snap.User; u != nil {
		if err := s.creds.SaveUser(ctx, u); err != nil {
			s.log.Error().Err(err).Msg("failed to persist session snapshot")
		}
	}
	return true, nil
}

// Logout clears the session and durable storage. Calling it when already
// signed out is a no-op with the same terminal state. Navigation afterwards
// is the caller's responsibility.
func (s *Store) Logout(ctx context.Context) error {
	err := s.creds.Clear(ctx)
	s.reset()
	return err
}

// DeleteAccount asks the backend to delete the account, then behaves like
// Logout. A backend failure leaves both local and durable state untouched.
func (s *Store) DeleteAccount(ctx context.Context) error {
	s.mu.Lock()
	auth := s.auth
	var uid string
	if s.user != nil {
		uid = s.user.ID
	}
	s.mu.Unlock()
	if !auth {
		return domain.ErrNotAuthenticated
	}

	creds, err := s.creds.Read(ctx)
	if err != nil {
		return err
	}
	if err := s.backend.DeleteAccount(ctx, creds.Token, uid); err != nil {
		return err
	}

	if err := s.creds.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("account deleted but local session not cleared")
	}
	s.reset()
	return nil
}

// Reset performs a hard local reset. It assumes durable storage has already
// been cleared externally; use Logout otherwise.
func (s *Store) Reset() {
	s.reset()
}

// Hydrated reports whether the startup read of durable storage has happened.
func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// IsAuthenticated reports whether a signed-in user is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// UserID returns the signed-in user's id, or "".
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Subscribe registers fn for change notifications and returns a handle for
// Unsubscribe.
func (s *Store) Subscribe(fn Subscriber) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	s.subs[s.nextSub] = fn
	return s.nextSub
}

// Unsubscribe removes a subscriber. Unknown handles are ignored.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Store) reset() {
	s.mu.Lock()
	s.user = nil
	s.auth = false
	snap, fns := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap, fns)
}

// snapshotLocked builds the notification payload while the lock is held.
func (s *Store) snapshotLocked() (Snapshot, []Subscriber) {
	snap := Snapshot{
		User:          s.user.Clone(),
		Authenticated: s.auth,
		Hydrated:      s.hydrated,
	}
	fns := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return snap, fns
}

// notify runs subscribers outside the lock so they may read the store.
func (s *Store) notify(snap Snapshot, fns []Subscriber) {
	for _, fn := range fns {
		fn(snap)
	}
}

func applyPatch(u *domain.User, p ports.ProfileUpdate) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.Location != nil {
		loc := *p.Location
		u.Location = &loc
	}
	if p.Services != nil {
		u.Services = append([]string(nil), p.Services...)
	}
	if p.Pricing != nil {
		u.Pricing = *p.Pricing
	}
	if p.Availability != nil {
		u.Availability = *p.Availability
	}
	if p.IsMobile != nil {
		u.IsMobile = *p.IsMobile
	}
	if p.Experience != nil {
		u.Experience = *p.Experience
	}
}
