package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/talentlink/appcore/internal/core/domain"
	"github.com/talentlink/appcore/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubCredStore struct {
	creds    domain.Credentials
	user     *domain.User
	readErr  error
	saveErr  error
	clearErr error
	cleared  int
}

func (s *stubCredStore) Store(_ context.Context, token, userID string) error {
	s.creds = domain.Credentials{Token: token, UserID: userID}
	return nil
}

func (s *stubCredStore) Read(_ context.Context) (domain.Credentials, error) {
	if s.readErr != nil {
		return domain.Credentials{}, s.readErr
	}
	if s.creds.IsZero() {
		return domain.Credentials{}, domain.ErrNoSession
	}
	return s.creds, nil
}

func (s *stubCredStore) Clear(_ context.Context) error {
	s.cleared++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.creds = domain.Credentials{}
	s.user = nil
	return nil
}

func (s *stubCredStore) SaveUser(_ context.Context, user *domain.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.user = user.Clone()
	return nil
}

func (s *stubCredStore) LoadUser(_ context.Context) (*domain.User, error) {
	return s.user.Clone(), nil
}

type stubBackend struct {
	updateErr  error
	deleteErr  error
	updates    []ports.ProfileUpdate
	deletedUID string
}

func (b *stubBackend) UpdateProfile(_ context.Context, _ string, patch ports.ProfileUpdate) error {
	if b.updateErr != nil {
		return b.updateErr
	}
	b.updates = append(b.updates, patch)
	return nil
}

func (b *stubBackend) DeleteAccount(_ context.Context, _ string, userID string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deletedUID = userID
	return nil
}

func newTestStore(creds *stubCredStore, backend *stubBackend) *Store {
	return NewStore(creds, backend, zerolog.Nop())
}

func talentUser() domain.User {
	return domain.User{
		ID:      "u1",
		Name:    "Alice",
		Email:   "alice@example.com",
		Role:    domain.RoleTalent,
		Pricing: "$40/hr",
	}
}

func strptr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// UpdateUser
// ---------------------------------------------------------------------------

func TestStore_UpdateUser_SetsAuthenticated(t *testing.T) {
	creds := &stubCredStore{}
	st := newTestStore(creds, &stubBackend{})

	if st.IsAuthenticated() {
		t.Fatalf("fresh store must not be authenticated")
	}
	if err := st.UpdateUser(context.Background(), talentUser()); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if !st.IsAuthenticated() {
		t.Fatalf("expected authenticated after UpdateUser")
	}
	if got := st.UserID(); got != "u1" {
		t.Fatalf("unexpected user id %q", got)
	}
	if creds.user == nil || creds.user.ID != "u1" {
		t.Fatalf("snapshot not persisted: %+v", creds.user)
	}
}

func TestStore_UpdateUser_RejectsMissingIDOrRole(t *testing.T) {
	st := newTestStore(&stubCredStore{}, &stubBackend{})

	u := talentUser()
	u.ID = ""
	if err := st.UpdateUser(context.Background(), u); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for missing id, got %v", err)
	}

	u = talentUser()
	u.Role = ""
	if err := st.UpdateUser(context.Background(), u); !errors.Is(err, domain.ErrMissingRole) {
		t.Fatalf("expected ErrMissingRole, got %v", err)
	}
	u.Role = "moderator"
	if err := st.UpdateUser(context.Background(), u); !errors.Is(err, domain.ErrMissingRole) {
		t.Fatalf("expected ErrMissingRole for unknown role, got %v", err)
	}

	if st.IsAuthenticated() {
		t.Fatalf("rejected update must not authenticate")
	}
}

func TestStore_UpdateUser_CallerCannotMutateStoredUser(t *testing.T) {
	st := newTestStore(&stubCredStore{}, &stubBackend{})

	u := talentUser()
	u.Services = []string{"plumbing"}
	if err := st.UpdateUser(context.Background(), u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	u.Services[0] = "mutated"
	u.Name = "Mallory"

	got := st.CurrentUser()
	if got.Services[0] != "plumbing" || got.Name != "Alice" {
		t.Fatalf("store state aliased caller memory: %+v", got)
	}
}

// ---------------------------------------------------------------------------
// UpdateUserInfo
// ---------------------------------------------------------------------------

func TestStore_UpdateUserInfo_BackendFailureLeavesStateUntouched(t *testing.T) {
	creds := &stubCredStore{creds: domain.Credentials{Token: "t1", UserID: "u1"}}
	backend := &stubBackend{updateErr: domain.ErrBackendRejected}
	st := newTestStore(creds, backend)
	if err := st.UpdateUser(context.Background(), talentUser()); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	ok, err := st.UpdateUserInfo(context.Background(), ports.ProfileUpdate{Pricing: strptr("$50/hr")})
	if err != nil {
		t.Fatalf("expected nil error for backend rejection, got %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false on backend rejection")
	}
	if got := st.CurrentUser().Pricing; got != "$40/hr" {
		t.Fatalf("pricing changed despite rejection: %q", got)
	}
}

func TestStore_UpdateUserInfo_Success(t *testing.T) {
	creds := &stubCredStore{creds: domain.Credentials{Token: "t1", UserID: "u1"}}
	backend := &stubBackend{}
	st := newTestStore(creds, backend)
	if err := st.UpdateUser(context.Background(), talentUser()); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	ok, err := st.UpdateUserInfo(context.Background(), ports.ProfileUpdate{
		Pricing:  strptr("$50/hr"),
		Services: []string{"plumbing", "tiling"},
	})
	if err != nil || !ok {
		t.Fatalf("UpdateUserInfo: ok=%t err=%v", ok, err)
	}
	u := st.CurrentUser()
	if u.Pricing != "$50/hr" || len(u.Services) != 2 {
		t.Fatalf("patch not merged: %+v", u)
	}
	if u.Name != "Alice" {
		t.Fatalf("untouched field changed: %+v", u)
	}
	if len(backend.updates) != 1 {
		t.Fatalf("expected one backend call, got %d", len(backend.updates))
	}
	if creds.user == nil || creds.user.Pricing != "$50/hr" {
		t.Fatalf("merged snapshot not persisted")
	}
}

func TestStore_UpdateUserInfo_RequiresAuthentication(t *testing.T) {
	st := newTestStore(&stubCredStore{}, &stubBackend{})

	if _, err := st.UpdateUserInfo(context.Background(), ports.ProfileUpdate{Pricing: strptr("$9")}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Logout / DeleteAccount / Reset
// ---------------------------------------------------------------------------

func TestStore_Logout_Idempotent(t *testing.T) {
	creds := &stubCredStore{creds: domain.Credentials{Token: "t1", UserID: "u1"}}
	st := newTestStore(creds, &stubBackend{})
	if err := st.UpdateUser(context.Background(), talentUser()); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if err := st.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := st.Logout(context.Background()); err != nil {
		t.Fatalf("second Logout: %v", err)
	}

	if st.IsAuthenticated() || st.CurrentUser() != nil {
		t.Fatalf("expected terminal signed-out state")
	}
	if !creds.creds.IsZero() {
		t.Fatalf("credentials not cleared: %+v", creds.creds)
	}
}

func TestStore_DeleteAccount_FailureLeavesSession(t *testing.T) {
	creds := &stubCredStore{creds: domain.Credentials{Token: "t1", UserID: "u1"}}
	backend := &stubBackend{deleteErr: domain.ErrBackendRejected}
	st := newTestStore(creds, backend)
	if err := st.UpdateUser(context.Background(), talentUser()); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if err := st.DeleteAccount(context.Background()); !errors.Is(err, domain.ErrBackendRejected) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if !st.IsAuthenticated() {
		t.Fatalf("failed deletion must leave session intact")
	}
	if creds.creds.IsZero() {
		t.Fatalf("failed deletion must leave credentials intact")
	}
}

func TestStore_DeleteAccount_Success(t *testing.T) {
	creds := &stubCredStore{creds: domain.Credentials{Token: "t1", UserID: "u1"}}
	backend := &stubBackend{}
	st := newTestStore(creds, backend)
	if err := st.UpdateUser(context.Background(), talentUser()); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if err := st.DeleteAccount(context.Background()); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if backend.deletedUID != "u1" {
		t.Fatalf("backend deletion not invoked for u1: %q", backend.deletedUID)
	}
	if st.IsAuthenticated() || !creds.creds.IsZero() {
		t.Fatalf("expected signed-out state after deletion")
	}
}

func TestStore_Reset_LocalOnly(t *testing.T) {
	creds := &stubCredStore{creds: domain.Credentials{Token: "t1", UserID: "u1"}}
	st := newTestStore(creds, &stubBackend{})
	if err := st.UpdateUser(context.Background(), talentUser()); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	st.Reset()

	if st.IsAuthenticated() || st.CurrentUser() != nil {
		t.Fatalf("expected local state cleared")
	}
	if creds.cleared != 0 {
		t.Fatalf("Reset must not touch durable storage")
	}
}

// ---------------------------------------------------------------------------
// Hydration
// ---------------------------------------------------------------------------

func TestStore_Hydrate_RestoresSession(t *testing.T) {
	u := talentUser()
	creds := &stubCredStore{
		creds: domain.Credentials{Token: "t1", UserID: "u1"},
		user:  &u,
	}
	st := newTestStore(creds, &stubBackend{})

	if st.Hydrated() {
		t.Fatalf("store must start unhydrated")
	}
	if err := st.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if !st.Hydrated() {
		t.Fatalf("expected hydrated after Hydrate")
	}
	if !st.IsAuthenticated() || st.UserID() != "u1" {
		t.Fatalf("session not restored: %+v", st.CurrentUser())
	}
}

func TestStore_Hydrate_EmptyStorageMeansSignedOut(t *testing.T) {
	st := newTestStore(&stubCredStore{}, &stubBackend{})

	if err := st.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate with empty storage: %v", err)
	}
	if st.IsAuthenticated() {
		t.Fatalf("empty storage must hydrate to signed-out")
	}
	if !st.Hydrated() {
		t.Fatalf("hydrated flag must be set even with no session")
	}
}

func TestStore_Hydrate_MismatchedSnapshotNotTrusted(t *testing.T) {
	u := talentUser()
	creds := &stubCredStore{
		creds: domain.Credentials{Token: "t1", UserID: "someone-else"},
		user:  &u,
	}
	st := newTestStore(creds, &stubBackend{})

	if err := st.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if st.IsAuthenticated() {
		t.Fatalf("snapshot/credentials id disagreement must not authenticate")
	}
}

// ---------------------------------------------------------------------------
// Observers
// ---------------------------------------------------------------------------

func TestStore_SubscribersNotifiedSynchronously(t *testing.T) {
	st := newTestStore(&stubCredStore{}, &stubBackend{})

	var seen []Snapshot
	id := st.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	if err := st.UpdateUser(context.Background(), talentUser()); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if len(seen) != 1 || !seen[0].Authenticated || seen[0].User.ID != "u1" {
		t.Fatalf("expected one authenticated notification, got %+v", seen)
	}

	_ = st.Logout(context.Background())
	if len(seen) != 2 || seen[1].Authenticated || seen[1].User != nil {
		t.Fatalf("expected signed-out notification, got %+v", seen)
	}

	st.Unsubscribe(id)
	_ = st.UpdateUser(context.Background(), talentUser())
	if len(seen) != 2 {
		t.Fatalf("unsubscribed observer still notified")
	}
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	st := newTestStore(&stubCredStore{}, &stubBackend{})

	var inCallback bool
	st.Subscribe(func(Snapshot) {
		// Reading back during a notification must not deadlock.
		inCallback = st.IsAuthenticated()
	})

	if err := st.UpdateUser(context.Background(), talentUser()); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if !inCallback {
		t.Fatalf("subscriber observed stale state")
	}
}
