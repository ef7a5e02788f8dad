package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func testConfig() JWTConfig {
	return JWTConfig{
		Issuer:     "lgi-triage",
		Audience:   "lgi-triage-api",
		SigningKey: testKey,
	}
}

func signToken(t *testing.T, key []byte, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func validClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "lgi-triage",
			Audience:  jwt.ClaimStrings{"lgi-triage-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{"clinician"},
	}
}

func runRequest(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newEchoWithJWT(cfg JWTConfig) *echo.Echo {
	e := echo.New()
	e.Use(JWTMiddleware(cfg))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, UserIDFromContext(c.Request().Context()))
	})
	return e
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	e := newEchoWithJWT(testConfig())
	rec := runRequest(e, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTMiddleware_MalformedHeader(t *testing.T) {
	e := newEchoWithJWT(testConfig())
	rec := runRequest(e, "Basic abc123")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	e := newEchoWithJWT(testConfig())
	token := signToken(t, testKey, validClaims())

	rec := runRequest(e, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("subject = %q, want user-1", rec.Body.String())
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	e := newEchoWithJWT(testConfig())
	token := signToken(t, []byte("other-key"), validClaims())

	rec := runRequest(e, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTMiddleware_WrongIssuer(t *testing.T) {
	e := newEchoWithJWT(testConfig())
	claims := validClaims()
	claims.Issuer = "someone-else"
	token := signToken(t, testKey, claims)

	rec := runRequest(e, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	e := newEchoWithJWT(testConfig())
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, testKey, claims)

	rec := runRequest(e, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTMiddleware_PlacesRolesOnContext(t *testing.T) {
	e := echo.New()
	e.Use(JWTMiddleware(testConfig()))
	var roles []string
	e.GET("/", func(c echo.Context) error {
		roles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	token := signToken(t, testKey, validClaims())
	rec := runRequest(e, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(roles) != 1 || roles[0] != "clinician" {
		t.Errorf("roles = %v, want [clinician]", roles)
	}
}

func TestDevAuthMiddleware_GrantsAdmin(t *testing.T) {
	e := echo.New()
	e.Use(DevAuthMiddleware())
	e.GET("/", func(c echo.Context) error {
		roles := RolesFromContext(c.Request().Context())
		if len(roles) != 1 || roles[0] != "admin" {
			t.Errorf("roles = %v, want [admin]", roles)
		}
		return c.NoContent(http.StatusOK)
	})

	rec := runRequest(e, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole_AdminAlwaysPasses(t *testing.T) {
	e := echo.New()
	e.Use(DevAuthMiddleware())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole("clinician"))

	rec := runRequest(e, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole_ForbiddenWithoutRole(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole("clinician"))

	rec := runRequest(e, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
