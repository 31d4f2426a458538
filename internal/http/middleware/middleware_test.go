package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/logging"
)

func TestParseToken(t *testing.T) {
	tok, err := SignToken("s3cret", "u1", "ops", time.Hour)
	require.NoError(t, err)

	p, err := parseToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "u1", Role: "ops"}, p)

	_, err = parseToken("other", tok)
	assert.Error(t, err)

	// no exp claim
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "ops",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = parseToken("s3cret", raw)
	assert.Error(t, err)

	// alg none is never accepted
	raw, err = jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = parseToken("s3cret", raw)
	assert.Error(t, err)
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, 2)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, l.Allow("1.1.1.1", now))
	assert.True(t, l.Allow("1.1.1.1", now))
	assert.False(t, l.Allow("1.1.1.1", now))
	assert.True(t, l.Allow("2.2.2.2", now), "buckets are per ip")
	assert.True(t, l.Allow("1.1.1.1", now.Add(time.Second)))

	assert.Equal(t, 0, l.Sweep(now.Add(time.Minute), 5*time.Minute))
	assert.Equal(t, 2, l.Sweep(now.Add(10*time.Minute), 5*time.Minute))
}

func TestRecovery_RendersInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logging.Discard()

	r := gin.New()
	r.Use(RequestID(), ErrorHandler(logger), Recovery(logger))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL"`)
	assert.NotContains(t, w.Body.String(), "kaboom")
}
