// Package api implements the credential transport: the only component that
// talks HTTP to the marketplace backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talentlink/appcore/internal/core/domain"
	"github.com/talentlink/appcore/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Client is an HTTP implementation of ports.CredentialTransport.
type Client struct {
	baseURL  string
	httpc    *http.Client
	validate *validator.Validate
	log      zerolog.Logger
}

// NewClient builds a transport against baseURL. A non-positive timeout falls
// back to the default.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    &http.Client{Timeout: timeout},
		validate: validator.New(),
		log:      log,
	}
}

func (c *Client) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	req := signupRequest{
		FullName:    in.FullName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    in.Password,
		Role:        string(in.Role),
	}
	if err := c.check(req); err != nil {
		return nil, err
	}

	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/signup", nil, "", req, &payload); err != nil {
		return nil, err
	}
	return payload.normalize()
}

func (c *Client) Login(ctx context.Context, email, password string, role domain.Role) (*ports.AuthResult, error) {
	req := loginRequest{Email: email, Password: password, Role: string(role)}
	if err := c.check(req); err != nil {
		return nil, err
	}

	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/login", nil, "", req, &payload); err != nil {
		return nil, err
	}
	return payload.normalize()
}

func (c *Client) GoogleLogin(ctx context.Context, googleIDToken string, role domain.Role) (*ports.AuthResult, error) {
	req := googleLoginRequest{Token: googleIDToken, Role: string(role)}
	if err := c.check(req); err != nil {
		return nil, err
	}

	// The Google id token travels both in the Authorization header and the
	// body; the backend reads the header.
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/google-login", nil, googleIDToken, req, &payload); err != nil {
		return nil, err
	}
	return payload.normalize()
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	q := url.Values{"email": {email}}
	return c.do(ctx, http.MethodGet, "/forgetPassword", q, "", nil, nil)
}

func (c *Client) VerifyResetCode(ctx context.Context, email, code string) (*ports.ResetGrant, error) {
	req := verifyCodeRequest{Email: email, ForgetPasswordCode: code}
	if err := c.check(req); err != nil {
		return nil, err
	}

	var resp verifyCodeResponse
	if err := c.do(ctx, http.MethodPost, "/verifyCode", nil, "", req, &resp); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrBackendRejected) {
			return nil, domain.ErrResetCodeInvalid
		}
		return nil, err
	}
	if resp.PasswordToken == "" {
		return nil, domain.ErrResetCodeInvalid
	}
	return resp.toGrant(), nil
}

func (c *Client) ResetPassword(ctx context.Context, passwordToken, email, newPassword string) error {
	req := resetPasswordRequest{Email: email, Password: newPassword}
	if err := c.check(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/resetPassword", nil, "Bearer "+passwordToken, req, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, token string, patch ports.ProfileUpdate) error {
	return c.do(ctx, http.MethodPost, "/updateProfile", nil, "Bearer "+token, patch, nil)
}

func (c *Client) DeleteAccount(ctx context.Context, token, userID string) error {
	q := url.Values{"uid": {userID}}
	return c.do(ctx, http.MethodDelete, "/deleteAccount", q, "Bearer "+token, nil, nil)
}

func (c *Client) SearchTalents(ctx context.Context, service string) ([]domain.Talent, error) {
	q := url.Values{"service": {service}}
	var payloads []talentPayload
	if err := c.do(ctx, http.MethodGet, "/searchTalentsByService", q, "", nil, &payloads); err != nil {
		return nil, err
	}

	talents := make([]domain.Talent, 0, len(payloads))
	for i := range payloads {
		talents = append(talents, payloads[i].toDomain())
	}
	return talents, nil
}

// check validates a request struct before it reaches the wire.
func (c *Client) check(req any) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx statuses are mapped onto the domain error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, authorization string, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("transport: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("transport: build %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("transport: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("transport: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) mapError(resp *http.Response, path string) error {
	var payload errorPayload
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
	msg := firstNonEmpty(payload.Error, payload.Message, resp.Status)

	c.log.Debug().
		Int("status", resp.StatusCode).
		Str("path", path).
		Str("message", msg).
		Msg("backend error response")

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrUserExists, msg)
	default:
		return fmt.Errorf("%w: %s (%d)", domain.ErrBackendRejected, msg, resp.StatusCode)
	}
}
