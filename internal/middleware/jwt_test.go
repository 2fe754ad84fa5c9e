package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BethelHills/Alx-Polly/internal/auth"
	"github.com/BethelHills/Alx-Polly/pkg/response"
)

func newJWTRouter(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(svc), func(c *gin.Context) {
		id := c.MustGet(ContextUserID).(uuid.UUID)
		response.OK(c, gin.H{"user_id": id})
	})
	return r
}

func getWithAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRejectsBeforeVerification(t *testing.T) {
	svc := auth.NewJWTService("test-secret", 1)
	r := newJWTRouter(svc)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"no scheme", "abc"},
		{"short token", "Bearer abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := getWithAuth(r, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			// Every failure mode reads identically to the caller.
			assert.Contains(t, w.Body.String(), "unauthorized")
		})
	}
}

func TestJWTRejectsInvalidToken(t *testing.T) {
	svc := auth.NewJWTService("test-secret", 1)
	r := newJWTRouter(svc)

	otherSvc := auth.NewJWTService("other-secret", 1)
	token, err := otherSvc.Generate(uuid.New(), "a@b.c")
	require.NoError(t, err)

	w := getWithAuth(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestJWTAcceptsValidToken(t *testing.T) {
	svc := auth.NewJWTService("test-secret", 1)
	r := newJWTRouter(svc)

	userID := uuid.New()
	token, err := svc.Generate(userID, "a@b.c")
	require.NoError(t, err)

	w := getWithAuth(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}
