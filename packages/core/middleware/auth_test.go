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
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/protected", JWTMiddleware(testSecret), RequireAnyRole(roles...), func(c *gin.Context) {
		subject, _ := GetSubject(c)
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	})
	return r
}

func get(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(testSecret, "ref-1", []string{RoleReferee}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", claims.Subject)
	assert.True(t, claims.HasRole(RoleReferee))
	assert.False(t, claims.HasRole(RoleAdmin))

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)

	expired, err := IssueToken(testSecret, "ref-1", []string{RoleReferee}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.Error(t, err)
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{Roles: []string{RoleAdmin}, RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func TestJWTMiddlewareAndRoles(t *testing.T) {
	admin, err := IssueToken(testSecret, "admin-1", []string{RoleAdmin}, time.Hour)
	require.NoError(t, err)
	referee, err := IssueToken(testSecret, "ref-1", []string{RoleReferee}, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		roles  []string
		header string
		want   int
	}{
		{"missing header", []string{RoleAdmin}, "", http.StatusUnauthorized},
		{"not bearer", []string{RoleAdmin}, "Basic abc", http.StatusUnauthorized},
		{"garbage token", []string{RoleAdmin}, "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong role", []string{RoleAdmin}, "Bearer " + referee, http.StatusForbidden},
		{"right role", []string{RoleAdmin}, "Bearer " + admin, http.StatusOK},
		{"any of roles", []string{RoleAdmin, RoleReferee}, "Bearer " + referee, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(newRouter(tc.roles...), tc.header)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	r := gin.New()
	r.GET("/protected", RequireRole(RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
