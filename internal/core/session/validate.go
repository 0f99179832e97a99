package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talentlink/appcore/internal/core/domain"
)

// MismatchReport captures the three identifiers a consistency check compares:
// the session store's id, the id persisted next to the token, and the id
// embedded in the token itself (empty when the token is opaque).
type MismatchReport struct {
	SessionID string
	StoredID  string
	TokenID   string
}

func (r MismatchReport) String() string {
	return fmt.Sprintf("session=%q stored=%q token=%q", r.SessionID, r.StoredID, r.TokenID)
}

// ValidateUIDConsistency reconciles the identifier the backend just
// authenticated against the one the client is about to treat as canonical.
// It must run after every successful login, signup, and federated-auth
// completion, before any protected surface is shown.
//
// All available identifiers must agree; a disagreement (or an absent
// identifier while authenticated) is reported as domain.ErrUIDMismatch and
// logged — never silently resolved by picking one side.
func (s *Store) ValidateUIDConsistency(ctx context.Context) error {
	s.mu.Lock()
	auth := s.auth
	var sessionID string
	if s.user != nil {
		sessionID = s.user.ID
	}
	s.mu.Unlock()

	if !auth {
		// Nothing to reconcile while signed out.
		return nil
	}

	creds, err := s.creds.Read(ctx)
	if errors.Is(err, domain.ErrNoSession) {
		report := MismatchReport{SessionID: sessionID}
		s.log.Warn().Stringer("report", report).Msg("uid consistency check failed: no stored credentials")
		return fmt.Errorf("%w: %s", domain.ErrUIDMismatch, report)
	}
	if err != nil {
		return err
	}

	report := MismatchReport{
		SessionID: sessionID,
		StoredID:  creds.UserID,
		TokenID:   uidFromToken(creds.Token),
	}

	switch {
	case report.SessionID == "" || report.StoredID == "":
		// absent while authenticated
	case report.SessionID != report.StoredID:
	case report.TokenID != "" && report.TokenID != report.SessionID:
	default:
		return nil
	}

	s.log.Warn().Stringer("report", report).Msg("uid consistency check failed")
	return fmt.Errorf("%w: %s", domain.ErrUIDMismatch, report)
}

// uidFromToken extracts the subject claim from a JWT bearer token without
// verifying the signature — the backend verified it; the client only needs
// the asserted identity for cross-checking. Returns "" for opaque tokens.
func uidFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"sub", "user_id", "uid", "localId"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
