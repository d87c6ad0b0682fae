package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kodbank/kodbank/internal/cqrs"
	"github.com/kodbank/kodbank/internal/models"
)

// ---- mock implementations ----

type mockRegistrar struct {
	registerFn func(cqrs.RegisterCommand) (int64, error)
}

func (m *mockRegistrar) Register(ctx context.Context, cmd cqrs.RegisterCommand) (int64, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return 0, fmt.Errorf("not configured")
}

type mockSessionCommander struct {
	loginFn  func(cqrs.LoginCommand) (*models.LoginResult, error)
	logoutFn func(cqrs.LogoutCommand) error
}

func (m *mockSessionCommander) Login(cmd cqrs.LoginCommand) (*models.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockSessionCommander) Logout(cmd cqrs.LogoutCommand) error {
	if m.logoutFn != nil {
		return m.logoutFn(cmd)
	}
	return fmt.Errorf("not configured")
}

// ---- helpers ----

func newAuthTestRouter(reg Registrar, sessions SessionCommander) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(reg, sessions)
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	r.POST("/api/logout", fakeAuth(1), h.Logout)
	return r
}

var testLoginResult = &models.LoginResult{
	Token: "signed.jwt.token",
	Account: models.AccountView{
		AccountID: 1,
		Name:      "Alice",
		Email:     "alice@example.com",
		Balance:   decimal.RequireFromString("1000.00"),
	},
}

func registerBody() map[string]any {
	return map[string]any{
		"name":     "Alice",
		"password": "hunter22",
		"email":    "alice@example.com",
	}
}

// ---- tests ----

func TestRegisterEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		registerFn     func(cqrs.RegisterCommand) (int64, error)
		expectedStatus int
	}{
		{
			name:           "created - valid registration",
			body:           registerBody(),
			registerFn:     func(cmd cqrs.RegisterCommand) (int64, error) { return 1, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "conflict - duplicate email",
			body:           registerBody(),
			registerFn:     func(cmd cqrs.RegisterCommand) (int64, error) { return 0, models.ErrDuplicateEmail },
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "bad request - missing fields",
			body:           map[string]any{"email": "alice@example.com"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - invalid email",
			body:           map[string]any{"name": "Alice", "password": "hunter22", "email": "not-an-email"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - negative initial balance",
			body: map[string]any{
				"name": "Alice", "password": "hunter22",
				"email": "alice@example.com", "initialBalance": -50.0,
			},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "internal error - storage failure",
			body:           registerBody(),
			registerFn:     func(cmd cqrs.RegisterCommand) (int64, error) { return 0, fmt.Errorf("db down") },
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockRegistrar{registerFn: tt.registerFn}, &mockSessionCommander{})
			w := doRequest(router, http.MethodPost, "/api/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRegisterEndpoint_FirstAccountUnaffectedByDuplicate(t *testing.T) {
	// The handler surfaces the conflict without issuing a second create.
	calls := 0
	reg := &mockRegistrar{registerFn: func(cmd cqrs.RegisterCommand) (int64, error) {
		calls++
		if calls == 1 {
			return 1, nil
		}
		return 0, models.ErrDuplicateEmail
	}}
	router := newAuthTestRouter(reg, &mockSessionCommander{})

	if w := doRequest(router, http.MethodPost, "/api/register", registerBody()); w.Code != http.StatusCreated {
		t.Fatalf("first registration: expected 201 got %d", w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/register", registerBody()); w.Code != http.StatusConflict {
		t.Fatalf("second registration: expected 409 got %d", w.Code)
	}
	if calls != 2 {
		t.Errorf("expected 2 register calls got %d", calls)
	}
}

func TestLoginEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		loginFn        func(cqrs.LoginCommand) (*models.LoginResult, error)
		expectedStatus int
	}{
		{
			name:           "success - valid credentials",
			body:           map[string]any{"email": "alice@example.com", "password": "hunter22"},
			loginFn:        func(cmd cqrs.LoginCommand) (*models.LoginResult, error) { return testLoginResult, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - wrong password",
			body:           map[string]any{"email": "alice@example.com", "password": "wrong"},
			loginFn:        func(cmd cqrs.LoginCommand) (*models.LoginResult, error) { return nil, models.ErrInvalidCredentials },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorized - unknown email",
			body:           map[string]any{"email": "nobody@example.com", "password": "hunter22"},
			loginFn:        func(cmd cqrs.LoginCommand) (*models.LoginResult, error) { return nil, models.ErrInvalidCredentials },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]any{"email": "alice@example.com"},
			loginFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockRegistrar{}, &mockSessionCommander{loginFn: tt.loginFn})
			w := doRequest(router, http.MethodPost, "/api/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginEndpoint_SetsCookieAndToken(t *testing.T) {
	sessions := &mockSessionCommander{
		loginFn: func(cmd cqrs.LoginCommand) (*models.LoginResult, error) { return testLoginResult, nil },
	}
	router := newAuthTestRouter(&mockRegistrar{}, sessions)

	w := doRequest(router, http.MethodPost, "/api/login", map[string]any{
		"email": "alice@example.com", "password": "hunter22",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
	}

	cookies := w.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == "token" && cookie.Value == testLoginResult.Token {
			found = true
			if !cookie.HttpOnly {
				t.Error("token cookie must be HTTP-only")
			}
		}
	}
	if !found {
		t.Error("expected token cookie to be set")
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != testLoginResult.Token {
		t.Errorf("expected token in body, got %q", resp.Token)
	}
}

func TestLogoutEndpoint(t *testing.T) {
	var revoked string
	sessions := &mockSessionCommander{
		logoutFn: func(cmd cqrs.LogoutCommand) error {
			revoked = cmd.Token
			return nil
		},
	}
	router := newAuthTestRouter(&mockRegistrar{}, sessions)

	w := doRequest(router, http.MethodPost, "/api/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
	if revoked != "test-token" {
		t.Errorf("expected presented token to be revoked, got %q", revoked)
	}
}
