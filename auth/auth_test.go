package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courier/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestHasher_RoundTrip(t *testing.T) {
	req := require.New(t)
	hasher := NewHasher()

	hash, err := hasher.Hash("swordfish")
	req.NoError(err)
	req.NotEqual("swordfish", hash)
	req.Contains(hash, "$argon2id$")

	match, err := hasher.Compare("swordfish", hash)
	req.NoError(err)
	req.True(match)

	match, err = hasher.Compare("not-the-password", hash)
	req.NoError(err)
	req.False(match)

	_, err = hasher.Compare("swordfish", "garbage")
	req.Error(err)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	tokens := NewTokenManager("unit_test_secret", time.Hour)

	token, err := tokens.Generate(domain.UserID(42))
	req.NoError(err)

	claims, err := tokens.Validate(token)
	req.NoError(err)
	req.Equal(uint64(42), claims.UserID)
}

func TestTokenManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	req := require.New(t)

	expired := NewTokenManager("unit_test_secret", -time.Minute)
	token, err := expired.Generate(domain.UserID(42))
	req.NoError(err)
	_, err = expired.Validate(token)
	req.Error(err)

	other := NewTokenManager("a_different_secret", time.Hour)
	valid := NewTokenManager("unit_test_secret", time.Hour)
	token, err = other.Generate(domain.UserID(42))
	req.NoError(err)
	_, err = valid.Validate(token)
	req.Error(err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := NewTokenManager("unit_test_secret", time.Hour)

	router := gin.New()
	router.GET("/probe", Middleware(tokens), func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"userId": uint64(id)})
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := require.New(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		req.Equal(http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := require.New(t)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/probe", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(w, r)
		req.Equal(http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token injects the identity", func(t *testing.T) {
		req := require.New(t)
		token, err := tokens.Generate(domain.UserID(7))
		req.NoError(err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/probe", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, r)
		req.Equal(http.StatusOK, w.Code)
		req.JSONEq(`{"userId":7}`, w.Body.String())
	})
}
