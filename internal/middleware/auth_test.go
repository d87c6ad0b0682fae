package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, accountID int64, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		AccountID: accountID,
		Email:     "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		accountID, _ := GetAccountID(c)
		c.JSON(http.StatusOK, gin.H{"accountId": accountID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthTestRouter(t)
	valid := signToken(t, 1, time.Now().Add(time.Hour))
	expired := signToken(t, 1, time.Now().Add(-time.Hour))

	tests := []struct {
		name           string
		cookie         string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "success - token cookie",
			cookie:         valid,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "success - bearer header",
			authHeader:     "Bearer " + valid,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - no token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorized - expired token",
			cookie:         expired,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorized - malformed token",
			cookie:         "not.a.jwt",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorized - wrong header scheme",
			authHeader:     "Basic " + valid,
			expectedStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_ExposesSessionToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	gin.SetMode(gin.TestMode)
	valid := signToken(t, 42, time.Now().Add(time.Hour))

	r := gin.New()
	r.GET("/whoami", AuthMiddleware(), func(c *gin.Context) {
		accountID, ok := GetAccountID(c)
		if !ok || accountID != 42 {
			t.Errorf("expected account id 42, got %d (ok=%v)", accountID, ok)
		}
		token, ok := GetSessionToken(c)
		if !ok || token != valid {
			t.Error("expected presented token in context")
		}
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: valid})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
}
