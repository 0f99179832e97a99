// Package auth orchestrates the credential-issuing flows: signup, login,
// federated login, password reset. Every successful flow follows the same
// sequence — transport call, durable token write, session update, uid
// consistency check — before the caller is allowed to treat the session as
// established.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/talentlink/appcore/internal/core/domain"
	"github.com/talentlink/appcore/internal/core/ports"
	"github.com/talentlink/appcore/internal/core/session"
)

// Service wires the transport, the credential store, and the session store
// into complete auth flows.
type Service struct {
	transport ports.CredentialTransport
	creds     ports.CredentialStore
	session   *session.Store

	// strict makes a uid consistency failure tear the session down instead
	// of proceeding with a warning.
	strict bool
	log    zerolog.Logger
}

func NewService(transport ports.CredentialTransport, creds ports.CredentialStore, sess *session.Store, strict bool, log zerolog.Logger) *Service {
	return &Service{
		transport: transport,
		creds:     creds,
		session:   sess,
		strict:    strict,
		log:       log,
	}
}

// Signup registers a new account and establishes its session.
func (s *Service) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	res, err := s.transport.Signup(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, res, in.Role)
}

// Login authenticates with email/password for the given role context. An
// account provisioned under a different role is rejected with
// domain.ErrRoleMismatch and no session is established: the wrong dashboard
// must redirect, never render.
func (s *Service) Login(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	res, err := s.transport.Login(ctx, email, password, role)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, res, role)
}

// GoogleLogin completes a federated login with an already-verified Google id
// token (see GoogleAuthenticator for the code exchange).
func (s *Service) GoogleLogin(ctx context.Context, googleIDToken string, role domain.Role) (*domain.User, error) {
	res, err := s.transport.GoogleLogin(ctx, googleIDToken, role)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, res, role)
}

// Logout clears the session and durable credentials.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// RequestPasswordReset triggers the reset-code email.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	return s.transport.RequestPasswordReset(ctx, email)
}

// ConfirmPasswordReset verifies the emailed code and applies the new
// password using the short-lived grant from verification.
func (s *Service) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	grant, err := s.transport.VerifyResetCode(ctx, email, code)
	if err != nil {
		return err
	}
	return s.transport.ResetPassword(ctx, grant.PasswordToken, email, newPassword)
}

// establish persists the token, updates session state, and reconciles uids.
// The credential write happens first and must succeed: the token is never
// used for a dependent call before it is durable.
func (s *Service) establish(ctx context.Context, res *ports.AuthResult, want domain.Role) (*domain.User, error) {
	if want != "" && res.User.Role != want {
		return nil, fmt.Errorf("%w: account is %q, requested %q", domain.ErrRoleMismatch, res.User.Role, want)
	}

	if err := s.creds.Store(ctx, res.Token, res.User.ID); err != nil {
		return nil, fmt.Errorf("persist credentials: %w", err)
	}
	if err := s.session.UpdateUser(ctx, res.User); err != nil {
		return nil, err
	}

	if err := s.session.ValidateUIDConsistency(ctx); err != nil {
		if s.strict && errors.Is(err, domain.ErrUIDMismatch) {
			if lerr := s.session.Logout(ctx); lerr != nil {
				s.log.Error().Err(lerr).Msg("failed to tear down inconsistent session")
			}
			return nil, err
		}
		// Documented current behavior: warn and proceed. The validator has
		// already logged the mismatch report.
		s.log.Warn().Err(err).Msg("continuing with unreconciled session identifiers")
	}

	return s.session.CurrentUser(), nil
}
