package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentlink/appcore/internal/core/domain"
	"github.com/talentlink/appcore/internal/core/ports"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second, zerolog.Nop()), srv
}

func TestClient_Signup(t *testing.T) {
	var gotBody map[string]any
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/signup" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"uid": "u1", "idToken": "t1", "fullName": "Alice", "email": "a@x.com", "role": "client",
		})
	}))
	defer srv.Close()

	res, err := c.Signup(context.Background(), ports.SignupInput{
		FullName: "Alice",
		Email:    "a@x.com",
		Password: "secret1",
		Role:     domain.RoleClient,
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if res.User.ID != "u1" || res.Token != "t1" || res.User.Role != domain.RoleClient {
		t.Fatalf("unexpected result: %+v", res)
	}
	if gotBody["fullName"] != "Alice" || gotBody["role"] != "client" {
		t.Fatalf("unexpected wire payload: %v", gotBody)
	}
}

func TestClient_Login_NormalizesAliasedFields(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"localId":        "u7",
			"accessToken":    "tok7",
			"displayName":    "Bob",
			"clientImageUrl": "https://img/bob.png",
			"role":           "talent",
		})
	}))
	defer srv.Close()

	res, err := c.Login(context.Background(), "b@x.com", "secret1", domain.RoleTalent)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != "u7" || res.Token != "tok7" {
		t.Fatalf("aliased identifiers not normalized: %+v", res)
	}
	if res.User.Name != "Bob" || res.User.PhotoURL != "https://img/bob.png" {
		t.Fatalf("aliased profile fields not normalized: %+v", res.User)
	}
}

func TestClient_Login_TransmitsRole(t *testing.T) {
	var gotBody map[string]any
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"uid": "u1", "idToken": "t1", "role": "client"})
	}))
	defer srv.Close()

	if _, err := c.Login(context.Background(), "a@x.com", "secret1", domain.RoleClient); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotBody["role"] != "client" {
		t.Fatalf("role not transmitted to /login: %v", gotBody)
	}
}

func TestClient_ValidationNeverReachesWire(t *testing.T) {
	hits := 0
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	_, err := c.Login(context.Background(), "not-an-email", "secret1", domain.RoleClient)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = c.Signup(context.Background(), ports.SignupInput{FullName: "X", Email: "a@x.com", Password: "short", Role: "nope"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("invalid payload reached the backend %d times", hits)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	status := http.StatusUnauthorized
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
	}))
	defer srv.Close()

	if _, err := c.Login(context.Background(), "a@x.com", "bad-pass", domain.RoleClient); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	status = http.StatusConflict
	_, err := c.Signup(context.Background(), ports.SignupInput{FullName: "A", Email: "a@x.com", Password: "secret1", Role: domain.RoleClient})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	status = http.StatusNotFound
	if _, err := c.Login(context.Background(), "ghost@x.com", "secret1", domain.RoleClient); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestClient_PasswordResetChain(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/forgetPassword":
			if r.URL.Query().Get("email") != "a@x.com" {
				t.Errorf("missing email query: %s", r.URL.RawQuery)
			}
		case "/verifyCode":
			_ = json.NewEncoder(w).Encode(map[string]any{"passwordToken": "pt1", "expiresIn": 600})
		case "/resetPassword":
			if r.Header.Get("Authorization") != "Bearer pt1" {
				t.Errorf("missing password token: %q", r.Header.Get("Authorization"))
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	if err := c.RequestPasswordReset(ctx, "a@x.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	grant, err := c.VerifyResetCode(ctx, "a@x.com", "123456")
	if err != nil {
		t.Fatalf("VerifyResetCode: %v", err)
	}
	if grant.PasswordToken != "pt1" || grant.ExpiresIn != 10*time.Minute {
		t.Fatalf("unexpected grant: %+v", grant)
	}
	if err := c.ResetPassword(ctx, grant.PasswordToken, "a@x.com", "newpass1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
}

func TestClient_VerifyResetCode_Invalid(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "code expired"})
	}))
	defer srv.Close()

	if _, err := c.VerifyResetCode(context.Background(), "a@x.com", "000000"); !errors.Is(err, domain.ErrResetCodeInvalid) {
		t.Fatalf("expected ErrResetCodeInvalid, got %v", err)
	}
}

func TestClient_SearchTalents(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("service") != "plumbing" {
			t.Errorf("missing service query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"uid": "t1", "fullName": "Tina", "services": []string{"plumbing"}, "pricing": "$30/hr"},
			{"id": "t2", "name": "Tom", "isMobile": true},
		})
	}))
	defer srv.Close()

	talents, err := c.SearchTalents(context.Background(), "plumbing")
	if err != nil {
		t.Fatalf("SearchTalents: %v", err)
	}
	if len(talents) != 2 {
		t.Fatalf("expected 2 talents, got %d", len(talents))
	}
	if talents[0].ID != "t1" || talents[0].Name != "Tina" || talents[0].Pricing != "$30/hr" {
		t.Fatalf("unexpected first talent: %+v", talents[0])
	}
	if talents[1].ID != "t2" || !talents[1].IsMobile {
		t.Fatalf("unexpected second talent: %+v", talents[1])
	}
}

func TestClient_DeleteAccount(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/deleteAccount" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer t1" || r.URL.Query().Get("uid") != "u1" {
			t.Errorf("missing auth or uid: %q %q", r.Header.Get("Authorization"), r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	if err := c.DeleteAccount(context.Background(), "t1", "u1"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
}

func TestClient_MissingIdentifiersRejected(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A 200 with no uid/token is a broken backend, not a session.
		_ = json.NewEncoder(w).Encode(map[string]any{"role": "client"})
	}))
	defer srv.Close()

	if _, err := c.Login(context.Background(), "a@x.com", "secret1", domain.RoleClient); !errors.Is(err, domain.ErrBackendRejected) {
		t.Fatalf("expected ErrBackendRejected, got %v", err)
	}
}
