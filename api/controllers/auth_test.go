package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/api/middleware"
	"github.com/furnora-labs/furnora-backend/internal/auth"
	"github.com/furnora-labs/furnora-backend/internal/users"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
)

type stubAuthService struct {
	response    *auth.AuthResponse
	user        *users.UserDTO
	resetToken  string
	err         error
	loggedOut   []string
	forgotEmail string
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return s.response, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return s.response, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.AuthResponse, error) {
	return s.response, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return s.err
}

func (s *stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.user, s.err
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) (string, error) {
	s.forgotEmail = req.Email
	return s.resetToken, s.err
}

func (s *stubAuthService) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	return s.err
}

func TestRegisterSuccess(t *testing.T) {
	svc := &stubAuthService{response: &auth.AuthResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &users.UserDTO{ID: uuid.New(), Email: "ana@example.com"},
	}}
	handler := Register(svc, nil)

	body := `{"name":"Ana","email":"ana@example.com","password":"sturdy-oak-8"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data auth.AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access" {
		t.Fatalf("unexpected access token: %q", envelope.Data.AccessToken)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	handler := Register(&stubAuthService{}, nil)

	body := `{"name":"Ana","email":"ana@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLoginSurfacesUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := Login(svc, nil)

	body := `{"email":"ana@example.com","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "invalid credentials" {
		t.Fatalf("unexpected message: %q", envelope.Error.Message)
	}
}

func TestLogoutUsesSessionFromContext(t *testing.T) {
	svc := &stubAuthService{}
	handler := Logout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "session-123"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "session-123" {
		t.Fatalf("expected logout of session-123, got %v", svc.loggedOut)
	}
}

func TestLogoutWithoutSessionIsUnauthorized(t *testing.T) {
	handler := Logout(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMeRequiresUserContext(t *testing.T) {
	handler := Me(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestForgotPasswordEchoesTokenInDevOnly(t *testing.T) {
	svc := &stubAuthService{resetToken: "reset-token"}
	body := `{"email":"ana@example.com"}`

	for _, tc := range []struct {
		name    string
		devMode bool
		want    bool
	}{
		{name: "dev", devMode: true, want: true},
		{name: "production", devMode: false, want: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			handler := ForgotPassword(svc, tc.devMode, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", strings.NewReader(body))
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200 got %d", resp.Code)
			}
			var envelope struct {
				Data map[string]any `json:"data"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			_, present := envelope.Data["reset_token"]
			if present != tc.want {
				t.Fatalf("reset_token presence = %v, want %v", present, tc.want)
			}
		})
	}
}
